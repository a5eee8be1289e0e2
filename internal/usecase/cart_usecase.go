package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/einspot/storefront/internal/cfg"
	"github.com/einspot/storefront/internal/domain"
	"github.com/einspot/storefront/pkg/e"
	"github.com/einspot/storefront/pkg/logger"
	"github.com/google/uuid"
)

// CartUseCase реализует корзину покупателя: авторитетное состояние в памяти,
// сквозная запись в долговременный слот и ленивая гидрация карточек товаров.
// Ошибки персистентности и гидрации не всплывают к вызывающему — логируются,
// источником истины для текущей сессии остаётся память.
type CartUseCase struct {
	slotRepo CartSlotRepository
	catalog  CatalogReader
	producer EventProducer
	logger   logger.Logger
	cfg      *cfg.CartCfg

	mu     sync.Mutex
	states map[string]*cartState
}

// cartState — состояние одной корзины. isOpen — чисто UI-флаг, не персистится.
type cartState struct {
	mu     sync.Mutex
	loaded bool
	lines  []domain.CartLine
	isOpen bool
}

func NewCartUC(
	slotRepo CartSlotRepository,
	catalog CatalogReader,
	producer EventProducer,
	logger logger.Logger,
	cfg *cfg.CartCfg,
) *CartUseCase {
	return &CartUseCase{
		slotRepo: slotRepo,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
		cfg:      cfg,
		states:   make(map[string]*cartState),
	}
}

// AddToCart добавляет товар в корзину. Если строка с таким product id уже есть,
// количества сливаются и гидрация не запускается повторно; иначе синхронно
// вставляется строка с заглушкой и планируется ровно один запрос карточки.
func (c *CartUseCase) AddToCart(ctx context.Context, req *AddToCartReq) {
	st := c.state(req.CartID)

	st.mu.Lock()
	c.ensureLoaded(ctx, req.CartID, st)

	var hydrateLineID string
	if idx := indexByProduct(st.lines, req.ProductID); idx >= 0 {
		st.lines[idx].Quantity += req.Quantity
		// Слияние, уведшее количество в ноль и ниже, удаляет строку
		if st.lines[idx].Quantity <= 0 {
			st.lines = append(st.lines[:idx], st.lines[idx+1:]...)
		}
	} else if req.Quantity > 0 {
		line := domain.NewCartLine(uuid.NewString(), req.ProductID, req.Quantity)
		st.lines = append(st.lines, *line)
		hydrateLineID = line.LineID
	}

	c.persist(ctx, req.CartID, st)
	st.mu.Unlock()

	if hydrateLineID != "" {
		go c.hydrate(req.CartID, hydrateLineID, req.ProductID)
	}

	c.producer.PublishAsync(NewCartEvent(req.CartID, CartEventItemAdded, req.ProductID, req.Quantity))
}

// RemoveFromCart удаляет все строки с указанным товаром.
// Удаление отсутствующего товара — no-op без ошибки.
func (c *CartUseCase) RemoveFromCart(ctx context.Context, cartID string, productID string) {
	st := c.state(cartID)

	st.mu.Lock()
	c.ensureLoaded(ctx, cartID, st)

	kept := st.lines[:0]
	for _, line := range st.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	st.lines = kept

	c.persist(ctx, cartID, st)
	st.mu.Unlock()

	c.producer.PublishAsync(NewCartEvent(cartID, CartEventItemRemoved, productID, 0))
}

// UpdateQuantity заменяет количество товара на заданное.
// Неположительное количество эквивалентно удалению строки.
func (c *CartUseCase) UpdateQuantity(ctx context.Context, cartID string, productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveFromCart(ctx, cartID, productID)
		return
	}

	st := c.state(cartID)

	st.mu.Lock()
	c.ensureLoaded(ctx, cartID, st)

	if idx := indexByProduct(st.lines, productID); idx >= 0 {
		st.lines[idx].Quantity = quantity
		c.persist(ctx, cartID, st)
	}
	st.mu.Unlock()

	c.producer.PublishAsync(NewCartEvent(cartID, CartEventQuantityChange, productID, quantity))
}

// ClearCart удаляет все строки и сбрасывает долговременный слот.
func (c *CartUseCase) ClearCart(ctx context.Context, cartID string) {
	const op = "CartUseCase.ClearCart"

	st := c.state(cartID)

	st.mu.Lock()
	st.loaded = true
	st.lines = nil

	if err := c.slotRepo.Clear(ctx, cartID); err != nil {
		c.logger.Warnf("Failed to clear cart slot. cart_id: %s: %v", cartID, e.Wrap(op, err))
	}
	st.mu.Unlock()

	c.producer.PublishAsync(NewCartEvent(cartID, CartEventCleared, "", 0))
}

// SetOpen переключает видимость панели корзины. Не персистится.
func (c *CartUseCase) SetOpen(ctx context.Context, cartID string, open bool) {
	st := c.state(cartID)

	st.mu.Lock()
	c.ensureLoaded(ctx, cartID, st)
	st.isOpen = open
	st.mu.Unlock()
}

// Snapshot возвращает консистентный снимок корзины: копию строк и агрегаты.
func (c *CartUseCase) Snapshot(ctx context.Context, cartID string) *CartView {
	st := c.state(cartID)

	st.mu.Lock()
	defer st.mu.Unlock()
	c.ensureLoaded(ctx, cartID, st)

	lines := make([]domain.CartLine, len(st.lines))
	copy(lines, st.lines)

	return NewCartView(lines, totalItems(st.lines), totalPrice(st.lines), st.isOpen)
}

// TotalItems возвращает суммарное количество единиц товара в корзине.
func (c *CartUseCase) TotalItems(ctx context.Context, cartID string) int {
	st := c.state(cartID)

	st.mu.Lock()
	defer st.mu.Unlock()
	c.ensureLoaded(ctx, cartID, st)

	return totalItems(st.lines)
}

// TotalPrice возвращает стоимость корзины в центах. До завершения гидрации
// строка участвует с ценой-заглушкой 0, поэтому сумма может быть занижена.
func (c *CartUseCase) TotalPrice(ctx context.Context, cartID string) int64 {
	st := c.state(cartID)

	st.mu.Lock()
	defer st.mu.Unlock()
	c.ensureLoaded(ctx, cartID, st)

	return totalPrice(st.lines)
}

// hydrate запрашивает карточку товара и патчит снимок строки по её lineID.
// Если строка к моменту ответа удалена, патч отбрасывается: поиск по lineID
// в текущем состоянии не даёт воскресить удалённую строку и не задевает
// строку, добавленную заново с другим lineID.
func (c *CartUseCase) hydrate(cartID string, lineID string, productID string) {
	const op = "CartUseCase.hydrate"

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.HydrateTimeout)
	defer cancel()

	card, err := c.catalog.GetProductCard(ctx, productID)
	if err != nil {
		c.logger.Warnf("Hydration failed, line keeps placeholder. product_id: %s: %v", productID, e.Wrap(op, err))
		return
	}

	st := c.state(cartID)

	st.mu.Lock()
	defer st.mu.Unlock()

	idx := indexByLine(st.lines, lineID)
	if idx < 0 {
		return // строка удалена до прихода ответа
	}

	st.lines[idx].Product = card.ToSnapshot()
	c.persist(ctx, cartID, st)
}

// state возвращает состояние корзины, создавая пустое при первом обращении.
// Загрузка слота откладывается до первой операции под локом самой корзины.
func (c *CartUseCase) state(cartID string) *cartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[cartID]
	if !ok {
		st = &cartState{}
		c.states[cartID] = st
	}

	return st
}

// ensureLoaded один раз читает слот корзины. Отсутствующий слот — пустая
// корзина; испорченный слот очищается и тоже трактуется как пустая корзина.
// Вызывается только под st.mu.
func (c *CartUseCase) ensureLoaded(ctx context.Context, cartID string, st *cartState) {
	const op = "CartUseCase.ensureLoaded"

	if st.loaded {
		return
	}
	st.loaded = true

	lines, err := c.slotRepo.Load(ctx, cartID)
	if err != nil {
		if errors.Is(err, e.ErrCartSlotCorrupt) {
			c.logger.Warnf("Corrupt cart slot, starting empty. cart_id: %s: %v", cartID, e.Wrap(op, err))
			if err := c.slotRepo.Clear(ctx, cartID); err != nil {
				c.logger.Warnf("Failed to clear corrupt cart slot. cart_id: %s: %v", cartID, e.Wrap(op, err))
			}
		} else {
			c.logger.Warnf("Failed to load cart slot, starting empty. cart_id: %s: %v", cartID, e.Wrap(op, err))
		}

		return
	}

	st.lines = sanitizeLines(lines)
}

// persist сквозным образом записывает текущее состояние строк в слот.
// Ошибка записи логируется, память остаётся источником истины. Вызывается под st.mu.
func (c *CartUseCase) persist(ctx context.Context, cartID string, st *cartState) {
	const op = "CartUseCase.persist"

	lines := make([]domain.CartLine, len(st.lines))
	copy(lines, st.lines)

	if err := c.slotRepo.Save(ctx, cartID, lines); err != nil {
		c.logger.Warnf("Failed to persist cart. cart_id: %s: %v", cartID, e.Wrap(op, err))
	}
}

// sanitizeLines отбрасывает записи слота, нарушающие инварианты строк.
func sanitizeLines(lines []domain.CartLine) []domain.CartLine {
	result := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}
		if line.LineID == "" {
			line.LineID = uuid.NewString()
		}
		result = append(result, line)
	}

	return result
}

func indexByProduct(lines []domain.CartLine, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func indexByLine(lines []domain.CartLine, lineID string) int {
	for i := range lines {
		if lines[i].LineID == lineID {
			return i
		}
	}
	return -1
}

func totalItems(lines []domain.CartLine) int {
	sum := 0
	for i := range lines {
		sum += lines[i].Quantity
	}
	return sum
}

func totalPrice(lines []domain.CartLine) int64 {
	var sum int64
	for i := range lines {
		sum += lines[i].Product.Price * int64(lines[i].Quantity)
	}
	return sum
}
