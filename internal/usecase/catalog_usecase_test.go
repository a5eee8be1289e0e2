package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/einspot/storefront/internal/cfg"
	"github.com/einspot/storefront/internal/domain"
	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	rows  map[string]*usecase.ProductCardRow
	calls int
}

func (f *fakeProductRepo) Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return product, nil
}

func (f *fakeProductRepo) GetProductCardRow(ctx context.Context, productID string) (*usecase.ProductCardRow, error) {
	f.calls++
	row, ok := f.rows[productID]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return row, nil
}

type fakeCardCache struct {
	mu    sync.Mutex
	cards map[string]*usecase.ProductCard
	sets  int
}

func newFakeCardCache() *fakeCardCache {
	return &fakeCardCache{cards: make(map[string]*usecase.ProductCard)}
}

func (f *fakeCardCache) GetProductCard(ctx context.Context, productID string) (*usecase.ProductCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cards[productID], nil
}

func (f *fakeCardCache) SetProductCard(ctx context.Context, card *usecase.ProductCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards[card.ID] = card
	f.sets++
	return nil
}

func (f *fakeCardCache) DeleteProductCards(ctx context.Context, productIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range productIDs {
		delete(f.cards, id)
	}
	return nil
}

func (f *fakeCardCache) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

type fakeImages struct {
	err error
}

func (f *fakeImages) PresignedImageURL(ctx context.Context, objectKey string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.local/" + objectKey, nil
}

func newTestCatalogUC(products *fakeProductRepo, cache *fakeCardCache, images *fakeImages) *usecase.CatalogUseCase {
	return usecase.NewCatalogUC(products, nil, nil, images, cache, nopLogger{}, &cfg.RedisCfg{CardTTL: time.Minute})
}

func TestGetProductCard_CacheHitSkipsDB(t *testing.T) {
	ctx := context.Background()
	products := &fakeProductRepo{rows: map[string]*usecase.ProductCardRow{}}
	cache := newFakeCardCache()
	cache.cards["prod-1"] = usecase.NewProductCard("prod-1", "Widget", 1000, "https://cdn.local/img", "tools", true)
	uc := newTestCatalogUC(products, cache, &fakeImages{})

	card, err := uc.GetProductCard(ctx, "prod-1")

	require.NoError(t, err)
	assert.Equal(t, "Widget", card.Name)
	assert.Equal(t, 0, products.calls)
}

func TestGetProductCard_MissFillsFromDB(t *testing.T) {
	ctx := context.Background()
	products := &fakeProductRepo{rows: map[string]*usecase.ProductCardRow{
		"prod-1": {ID: "prod-1", Name: "Widget", Price: 1000, ImageKey: "img/widget.png", Category: "tools", ShowPrice: true},
	}}
	cache := newFakeCardCache()
	uc := newTestCatalogUC(products, cache, &fakeImages{})

	card, err := uc.GetProductCard(ctx, "prod-1")

	require.NoError(t, err)
	assert.Equal(t, "Widget", card.Name)
	assert.Equal(t, int64(1000), card.Price)
	assert.Equal(t, "https://cdn.local/img/widget.png", card.ImageURL)
	assert.Equal(t, "tools", card.Category)

	// Карточка докладывается в кэш в фоне
	require.Eventually(t, func() bool { return cache.setCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestGetProductCard_NotFound(t *testing.T) {
	ctx := context.Background()
	uc := newTestCatalogUC(&fakeProductRepo{rows: map[string]*usecase.ProductCardRow{}}, newFakeCardCache(), &fakeImages{})

	_, err := uc.GetProductCard(ctx, "prod-404")
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestGetProductCard_EmptyID(t *testing.T) {
	ctx := context.Background()
	uc := newTestCatalogUC(&fakeProductRepo{}, newFakeCardCache(), &fakeImages{})

	_, err := uc.GetProductCard(ctx, "")
	assert.ErrorIs(t, err, e.ErrEmptyProductID)
}

func TestGetProductCard_PresignFailureNotFatal(t *testing.T) {
	ctx := context.Background()
	products := &fakeProductRepo{rows: map[string]*usecase.ProductCardRow{
		"prod-1": {ID: "prod-1", Name: "Widget", Price: 1000, ImageKey: "img/widget.png", Category: "tools", ShowPrice: true},
	}}
	uc := newTestCatalogUC(products, newFakeCardCache(), &fakeImages{err: e.ErrInternalServerError})

	card, err := uc.GetProductCard(ctx, "prod-1")

	require.NoError(t, err)
	assert.Equal(t, "Widget", card.Name)
	assert.Empty(t, card.ImageURL)
}
