package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/einspot/storefront/internal/domain"
	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CartLineResponse — строка корзины в ответе API.
type CartLineResponse struct {
	LineID    string              `json:"lineId"`
	ProductID string              `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Product   ProductCardResponse `json:"product"`
}

// ProductCardResponse — карточка товара в ответе API.
type ProductCardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"imageUrl"`
	Category  string `json:"category"`
	ShowPrice bool   `json:"showPrice"`
}

// CartResponse — снимок корзины в ответе API.
type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	TotalItems int                `json:"totalItems"`
	TotalPrice int64              `json:"totalPrice"`
	IsOpen     bool               `json:"isOpen"`
	Message    string             `json:"message,omitempty"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func NewCartResponse(view *usecase.CartView, message string) *CartResponse {
	lines := make([]CartLineResponse, 0, len(view.Lines))
	for _, line := range view.Lines {
		lines = append(lines, toCartLineResponse(line))
	}

	return &CartResponse{
		Lines:      lines,
		TotalItems: view.TotalItems,
		TotalPrice: view.TotalPrice,
		IsOpen:     view.IsOpen,
		Message:    message,
	}
}

func toCartLineResponse(line domain.CartLine) CartLineResponse {
	return CartLineResponse{
		LineID:    line.LineID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Product: ProductCardResponse{
			ID:        line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			ImageURL:  line.Product.ImageURL,
			Category:  line.Product.Category,
			ShowPrice: line.Product.ShowPrice,
		},
	}
}

func toProductCardResponse(card *usecase.ProductCard) ProductCardResponse {
	return ProductCardResponse{
		ID:        card.ID,
		Name:      card.Name,
		Price:     card.Price,
		ImageURL:  card.ImageURL,
		Category:  card.Category,
		ShowPrice: card.ShowPrice,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrEmptyCartID):
		return http.StatusBadRequest, e.ErrEmptyCartID.Error()
	case errors.Is(err, e.ErrEmptyProductID):
		return http.StatusBadRequest, e.ErrEmptyProductID.Error()
	case errors.Is(err, e.ErrInvalidQuantity):
		return http.StatusBadRequest, e.ErrInvalidQuantity.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusBadRequest, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrPriceMustBePositive):
		return http.StatusBadRequest, e.ErrPriceMustBePositive.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePriceToCents converts a string like "599.99" or "600" to int64 cents.
// Returns error if:
// - invalid format
// - more than 2 decimal places
// - negative value
// - exceeds reasonable limit
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("price is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	// Reject negative
	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	// Enforce max value (1B in cents)
	maxPrice := decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	// Check decimal places
	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	// Convert to cents: multiply by 100 and round
	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	return cents.IntPart(), nil
}
