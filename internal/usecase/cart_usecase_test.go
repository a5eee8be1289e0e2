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

type nopLogger struct{}

func (nopLogger) Infof(format string, args ...any)            {}
func (nopLogger) Warnf(format string, args ...any)            {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// fakeSlotRepo хранит слоты корзин в памяти.
type fakeSlotRepo struct {
	mu      sync.Mutex
	data    map[string][]domain.CartLine
	corrupt map[string]bool
	loadErr error
	saveErr error
	clears  int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		data:    make(map[string][]domain.CartLine),
		corrupt: make(map[string]bool),
	}
}

func (f *fakeSlotRepo) Load(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.corrupt[cartID] {
		return nil, e.ErrCartSlotCorrupt
	}

	lines := make([]domain.CartLine, len(f.data[cartID]))
	copy(lines, f.data[cartID])
	return lines, nil
}

func (f *fakeSlotRepo) Save(ctx context.Context, cartID string, lines []domain.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}

	stored := make([]domain.CartLine, len(lines))
	copy(stored, lines)
	f.data[cartID] = stored
	return nil
}

func (f *fakeSlotRepo) Clear(ctx context.Context, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clears++
	delete(f.data, cartID)
	delete(f.corrupt, cartID)
	return nil
}

// fakeCatalog выдаёт карточки и умеет задерживать ответ до открытия gate.
type fakeCatalog struct {
	mu    sync.Mutex
	cards map[string]*usecase.ProductCard
	calls map[string]int
	err   error
	gate  chan struct{}
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		cards: make(map[string]*usecase.ProductCard),
		calls: make(map[string]int),
	}
}

func (f *fakeCatalog) GetProductCard(ctx context.Context, productID string) (*usecase.ProductCard, error) {
	f.mu.Lock()
	f.calls[productID]++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	card, ok := f.cards[productID]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return card, nil
}

func (f *fakeCatalog) callCount(productID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[productID]
}

type fakeProducer struct {
	mu     sync.Mutex
	events []*usecase.CartEvent
}

func (f *fakeProducer) PublishAsync(event *usecase.CartEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func testCartCfg() *cfg.CartCfg {
	return &cfg.CartCfg{
		SlotTTL:        time.Hour,
		HydrateTimeout: time.Second,
		EventRetries:   0,
	}
}

func newTestCartUC(slot *fakeSlotRepo, catalog *fakeCatalog) *usecase.CartUseCase {
	return usecase.NewCartUC(slot, catalog, &fakeProducer{}, nopLogger{}, testCartCfg())
}

func widgetCard() *usecase.ProductCard {
	return usecase.NewProductCard("prod-1", "Widget", 1000, "x", "tools", true)
}

func waitHydrated(t *testing.T, uc *usecase.CartUseCase, cartID string, productID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, line := range uc.Snapshot(context.Background(), cartID).Lines {
			if line.ProductID == productID && line.Product.Name != domain.PlaceholderName {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func TestAddToCart_MergesByProductID(t *testing.T) {
	ctx := context.Background()
	slot := newFakeSlotRepo()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	catalog.gate = make(chan struct{})
	uc := newTestCartUC(slot, catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 2))
	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 3))

	view := uc.Snapshot(ctx, "c1")
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "prod-1", view.Lines[0].ProductID)
	assert.Equal(t, 5, view.Lines[0].Quantity)

	// Слияние не порождает повторную гидрацию
	close(catalog.gate)
	waitHydrated(t, uc, "c1", "prod-1")
	assert.Equal(t, 1, catalog.callCount("prod-1"))
}

func TestAddToCart_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	catalog.cards["prod-2"] = usecase.NewProductCard("prod-2", "Pump", 2500, "", "hvac", true)
	uc := newTestCartUC(newFakeSlotRepo(), catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 1))
	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-2", 1))
	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 1))

	view := uc.Snapshot(ctx, "c1")
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "prod-1", view.Lines[0].ProductID)
	assert.Equal(t, "prod-2", view.Lines[1].ProductID)
	assert.NotEqual(t, view.Lines[0].LineID, view.Lines[1].LineID)
}

func TestUpdateQuantity_NonPositiveRemovesLine(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	uc := newTestCartUC(newFakeSlotRepo(), catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 5))
	uc.UpdateQuantity(ctx, "c1", "prod-1", 0)
	require.Empty(t, uc.Snapshot(ctx, "c1").Lines)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 5))
	uc.UpdateQuantity(ctx, "c1", "prod-1", -3)
	require.Empty(t, uc.Snapshot(ctx, "c1").Lines)
}

func TestUpdateQuantity_ReplacesValue(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	uc := newTestCartUC(newFakeSlotRepo(), catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 5))
	uc.UpdateQuantity(ctx, "c1", "prod-1", 2)

	view := uc.Snapshot(ctx, "c1")
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
}

func TestRemoveFromCart_MissingProductIsNoop(t *testing.T) {
	ctx := context.Background()
	uc := newTestCartUC(newFakeSlotRepo(), newFakeCatalog())

	uc.RemoveFromCart(ctx, "c1", "prod-404")
	assert.Empty(t, uc.Snapshot(ctx, "c1").Lines)
}

func TestTotals_ConsistentBeforeAndAfterHydration(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	catalog.gate = make(chan struct{})
	uc := newTestCartUC(newFakeSlotRepo(), catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 2))

	// До гидрации цена-заглушка 0 участвует в сумме
	assert.Equal(t, 2, uc.TotalItems(ctx, "c1"))
	assert.Equal(t, int64(0), uc.TotalPrice(ctx, "c1"))

	close(catalog.gate)
	waitHydrated(t, uc, "c1", "prod-1")

	assert.Equal(t, 2, uc.TotalItems(ctx, "c1"))
	assert.Equal(t, int64(2000), uc.TotalPrice(ctx, "c1"))

	view := uc.Snapshot(ctx, "c1")
	items := 0
	var price int64
	for _, line := range view.Lines {
		items += line.Quantity
		price += line.Product.Price * int64(line.Quantity)
	}
	assert.Equal(t, items, view.TotalItems)
	assert.Equal(t, price, view.TotalPrice)
}

func TestHydration_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	catalog.gate = make(chan struct{})
	uc := newTestCartUC(newFakeSlotRepo(), catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 1))
	uc.RemoveFromCart(ctx, "c1", "prod-1")

	// Ответ гидрации приходит после удаления строки и не воскрешает её
	close(catalog.gate)
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, uc.Snapshot(ctx, "c1").Lines)
}

func TestHydration_FailureKeepsPlaceholder(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	catalog.err = e.ErrProductNotFound
	uc := newTestCartUC(newFakeSlotRepo(), catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 1))
	time.Sleep(50 * time.Millisecond)

	view := uc.Snapshot(ctx, "c1")
	require.Len(t, view.Lines, 1)
	assert.Equal(t, domain.PlaceholderName, view.Lines[0].Product.Name)
	assert.Equal(t, int64(0), view.Lines[0].Product.Price)
}

func TestPersistence_RoundTripThroughSlot(t *testing.T) {
	ctx := context.Background()
	slot := newFakeSlotRepo()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	uc := newTestCartUC(slot, catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 2))
	waitHydrated(t, uc, "c1", "prod-1")
	want := uc.Snapshot(ctx, "c1").Lines

	// Свежий стор, инициализированный из того же слота, видит идентичные строки
	fresh := newTestCartUC(slot, catalog)
	got := fresh.Snapshot(ctx, "c1").Lines
	assert.Equal(t, want, got)
}

func TestCorruptSlot_RecoversEmptyAndClears(t *testing.T) {
	ctx := context.Background()
	slot := newFakeSlotRepo()
	slot.corrupt["c1"] = true
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	uc := newTestCartUC(slot, catalog)

	assert.Empty(t, uc.Snapshot(ctx, "c1").Lines)
	assert.Equal(t, 1, slot.clears)

	// После восстановления корзина работает как обычно
	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 1))
	assert.Len(t, uc.Snapshot(ctx, "c1").Lines, 1)
}

func TestPersistFailure_MemoryStaysAuthoritative(t *testing.T) {
	ctx := context.Background()
	slot := newFakeSlotRepo()
	slot.saveErr = e.ErrInternalServerError
	uc := newTestCartUC(slot, newFakeCatalog())

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 3))

	view := uc.Snapshot(ctx, "c1")
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Quantity)
}

func TestClearCart_ResetsSlot(t *testing.T) {
	ctx := context.Background()
	slot := newFakeSlotRepo()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	uc := newTestCartUC(slot, catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 2))
	uc.ClearCart(ctx, "c1")

	assert.Empty(t, uc.Snapshot(ctx, "c1").Lines)
	slot.mu.Lock()
	_, ok := slot.data["c1"]
	slot.mu.Unlock()
	assert.False(t, ok)
}

func TestSetOpen_NotPersisted(t *testing.T) {
	ctx := context.Background()
	slot := newFakeSlotRepo()
	uc := newTestCartUC(slot, newFakeCatalog())

	uc.SetOpen(ctx, "c1", true)
	assert.True(t, uc.Snapshot(ctx, "c1").IsOpen)

	fresh := newTestCartUC(slot, newFakeCatalog())
	assert.False(t, fresh.Snapshot(ctx, "c1").IsOpen)
}

func TestEndToEnd_AddThenHydrate(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	catalog.gate = make(chan struct{})
	uc := newTestCartUC(newFakeSlotRepo(), catalog)

	uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 2))

	view := uc.Snapshot(ctx, "c1")
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, domain.PlaceholderName, view.Lines[0].Product.Name)

	close(catalog.gate)
	waitHydrated(t, uc, "c1", "prod-1")

	view = uc.Snapshot(ctx, "c1")
	require.Len(t, view.Lines, 1)
	line := view.Lines[0]
	assert.Equal(t, "Widget", line.Product.Name)
	assert.Equal(t, int64(1000), line.Product.Price)
	assert.Equal(t, "x", line.Product.ImageURL)
	assert.Equal(t, "tools", line.Product.Category)
	assert.True(t, line.Product.ShowPrice)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, int64(2000), uc.TotalPrice(ctx, "c1"))
}

func TestConcurrentAdds_MergeIntoSingleLine(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	catalog.cards["prod-1"] = widgetCard()
	uc := newTestCartUC(newFakeSlotRepo(), catalog)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.AddToCart(ctx, usecase.NewAddToCartReq("c1", "prod-1", 1))
		}()
	}
	wg.Wait()

	view := uc.Snapshot(ctx, "c1")
	require.Len(t, view.Lines, 1)
	assert.Equal(t, n, view.Lines[0].Quantity)
}
