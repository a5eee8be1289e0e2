package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/einspot/storefront/internal/cfg"
	"github.com/einspot/storefront/internal/domain"
	"github.com/einspot/storefront/pkg/e"
	"github.com/einspot/storefront/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogUseCase реализует бизнес-логику каталога: выдачу карточек товаров
// для витрины и гидрации корзины, а также регистрацию товаров.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	dbPool       transaction.Transactional
	imagesInfra  ImagesInfra
	cacheRepo    CardCacheRepository
	logger       logger.Logger
	cfg          *cfg.RedisCfg
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	dbPool transaction.Transactional,
	imagesInfra ImagesInfra,
	cacheRepo CardCacheRepository,
	logger logger.Logger,
	cfg *cfg.RedisCfg,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		dbPool:       dbPool,
		imagesInfra:  imagesInfra,
		cacheRepo:    cacheRepo,
		logger:       logger,
		cfg:          cfg,
	}
}

// GetProductCard возвращает карточку товара: сначала из кэша, при промахе — из БД
// с фоновым прогревом кэша. Ссылка на изображение подписывается на лету.
func (c *CatalogUseCase) GetProductCard(ctx context.Context, productID string) (*ProductCard, error) {
	const op = "CatalogUseCase.GetProductCard"

	if productID == "" {
		return nil, e.Wrap(op, e.ErrEmptyProductID)
	}

	// Поиск карточки в кэше
	card, err := c.cacheRepo.GetProductCard(ctx, productID)
	if err != nil {
		c.logger.Warnf("Card cache lookup failed. product_id: %s: %v", productID, e.Wrap(op, err))
	}
	if card != nil {
		return card, nil
	}

	// Получение карточки из БД
	row, err := c.productRepo.GetProductCardRow(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Подпись ссылки на изображение: ошибка не фатальна, карточка уходит без ссылки
	imageURL := ""
	if row.ImageKey != "" {
		imageURL, err = c.imagesInfra.PresignedImageURL(ctx, row.ImageKey)
		if err != nil {
			c.logger.Warnf("Failed to presign image URL. product_id: %s: %v", productID, e.Wrap(op, err))
			imageURL = ""
		}
	}

	card = NewProductCard(row.ID, row.Name, row.Price, imageURL, row.Category, row.ShowPrice)

	// Фоновое добавление карточки в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProductCard(bgCtx, card); err != nil {
			c.logger.Warnf("Failed to cache product card in background: %v", e.Wrap(op, err))
		}
	}()

	return card, nil
}

// RegisterProduct идемпотентно регистрирует товар: категория и товар создаются
// в одной транзакции, после коммита карточка вытесняется из кэша.
func (c *CatalogUseCase) RegisterProduct(ctx context.Context, req *RegisterProductReq) (*RegisterProductRes, error) {
	const op = "CatalogUseCase.RegisterProduct"

	var err error
	if err = c.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	// идемпотентное создание категории
	category, err := c.categoryRepo.Create(ctx, domain.NewCategory(req.CategoryName))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// идемпотентное создание продукта
	product, err := c.productRepo.Upsert(ctx, domain.NewProduct(
		uuid.NewString(), req.Name, req.Price, category.ID, req.ImageKey, req.ShowPrice,
	))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша устаревшей карточки товара
	if err := c.cacheRepo.DeleteProductCards(ctx, []string{product.ID}); err != nil {
		c.logger.Warnf("Failed to evict product card: %v", e.Wrap(op, err))
	}

	return NewRegisterProductRes(product, false), nil
}

// validateProduct проверяет корректность входных данных запроса на регистрацию товара.
func (c *CatalogUseCase) validateProduct(req *RegisterProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if strings.TrimSpace(req.CategoryName) == "" {
		return e.ErrMissingFields
	}

	if req.Price <= 0 {
		return e.ErrPriceMustBePositive
	}

	return nil
}
