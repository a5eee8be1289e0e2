package usecase

import (
	"time"

	"github.com/einspot/storefront/internal/domain"
	"github.com/google/uuid"
)

// CART USECASE

// AddToCartReq — запрос на добавление товара в корзину.
type AddToCartReq struct {
	CartID    string
	ProductID string
	Quantity  int
}

// CartView — консистентный снимок корзины для потребителей UI.
type CartView struct {
	Lines      []domain.CartLine
	TotalItems int
	TotalPrice int64
	IsOpen     bool
}

// Типы событий активности корзины.
const (
	CartEventItemAdded      = "cart_item_added"
	CartEventItemRemoved    = "cart_item_removed"
	CartEventQuantityChange = "cart_quantity_changed"
	CartEventCleared        = "cart_cleared"
)

// CartEvent — событие активности корзины для фида аналитики.
type CartEvent struct {
	EventID   string `json:"eventId"`
	CartID    string `json:"cartId"`
	Type      string `json:"type"`
	ProductID string `json:"productId,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// CATALOG USECASE

// ProductCard — DTO карточки товара для витрины и гидрации корзины.
type ProductCard struct {
	ID        string
	Name      string
	Price     int64
	ImageURL  string
	Category  string
	ShowPrice bool
}

// ProductCardRow — строка карточки из БД: изображение ещё представлено
// ключом объекта в S3, а не подписанной ссылкой.
type ProductCardRow struct {
	ID        string
	Name      string
	Price     int64
	ImageKey  string
	Category  string
	ShowPrice bool
}

// RegisterProductReq — запрос на регистрацию товара в каталоге.
type RegisterProductReq struct {
	Name         string
	CategoryName string
	Price        int64
	ImageKey     string
	ShowPrice    bool
}

// RegisterProductRes — результат регистрации товара.
type RegisterProductRes struct {
	Product   *domain.Product
	NoChanges bool
}

// MAPPERS

func NewAddToCartReq(cartID string, productID string, quantity int) *AddToCartReq {
	return &AddToCartReq{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
}

func NewCartView(lines []domain.CartLine, totalItems int, totalPrice int64, isOpen bool) *CartView {
	return &CartView{
		Lines:      lines,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
		IsOpen:     isOpen,
	}
}

func NewCartEvent(cartID string, eventType string, productID string, quantity int) *CartEvent {
	return &CartEvent{
		EventID:   uuid.NewString(),
		CartID:    cartID,
		Type:      eventType,
		ProductID: productID,
		Quantity:  quantity,
		Timestamp: time.Now().UnixNano(),
	}
}

func NewProductCard(id string, name string, price int64, imageURL string, category string, showPrice bool) *ProductCard {
	return &ProductCard{
		ID:        id,
		Name:      name,
		Price:     price,
		ImageURL:  imageURL,
		Category:  category,
		ShowPrice: showPrice,
	}
}

func NewRegisterProductReq(name string, category string, price int64, imageKey string, showPrice bool) *RegisterProductReq {
	return &RegisterProductReq{
		Name:         name,
		CategoryName: category,
		Price:        price,
		ImageKey:     imageKey,
		ShowPrice:    showPrice,
	}
}

func NewRegisterProductRes(product *domain.Product, noChanges bool) *RegisterProductRes {
	return &RegisterProductRes{
		Product:   product,
		NoChanges: noChanges,
	}
}

// ToSnapshot переводит карточку товара в снимок для строки корзины.
func (c *ProductCard) ToSnapshot() domain.ProductSnapshot {
	return domain.ProductSnapshot{
		ID:        c.ID,
		Name:      c.Name,
		Price:     c.Price,
		ImageURL:  c.ImageURL,
		Category:  c.Category,
		ShowPrice: c.ShowPrice,
	}
}
