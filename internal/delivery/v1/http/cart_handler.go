package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/e"
	"github.com/einspot/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// getCart
//
//	@Summary		Снимок корзины
//	@Description	Возвращает строки корзины, итоги и состояние панели
//	@Tags			cart
//	@Produce		json
//	@Param			cartID	path		string	true	"ID корзины"
//	@Success		200		{object}	CartResponse
//	@Router			/cart/{cartID} [get]
func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := cartIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view := h.cartUsecase.Snapshot(r.Context(), cartID)
	WriteSuccess(w, http.StatusOK, NewCartResponse(view, ""))
}

// addItem
//
//	@Summary		Добавление товара в корзину
//	@Description	Вставляет строку с заглушкой или сливает количество с существующей строкой
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			cartID	path		string			true	"ID корзины"
//	@Param			body	body		addItemRequest	true	"Товар и количество"
//	@Success		200		{object}	CartResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/cart/{cartID}/items [post]
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	const defaultQuantity = 1

	cartID, err := cartIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if strings.TrimSpace(req.ProductID) == "" {
		WriteError(w, e.ErrEmptyProductID)
		return
	}

	quantity := defaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	h.cartUsecase.AddToCart(r.Context(), usecase.NewAddToCartReq(cartID, req.ProductID, quantity))

	view := h.cartUsecase.Snapshot(r.Context(), cartID)
	WriteSuccess(w, http.StatusOK, NewCartResponse(view, ""))
}

// updateItemQuantity
//
//	@Summary		Изменение количества товара
//	@Description	Заменяет количество; неположительное значение удаляет строку
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			cartID		path		string					true	"ID корзины"
//	@Param			productID	path		string					true	"ID товара"
//	@Param			body		body		updateQuantityRequest	true	"Новое количество"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/cart/{cartID}/items/{productID} [put]
func (h *CartHandler) updateItemQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, err := cartIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	productID := chi.URLParam(r, "productID")
	if productID == "" {
		WriteError(w, e.ErrEmptyProductID)
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	h.cartUsecase.UpdateQuantity(r.Context(), cartID, productID, req.Quantity)

	view := h.cartUsecase.Snapshot(r.Context(), cartID)
	WriteSuccess(w, http.StatusOK, NewCartResponse(view, ""))
}

// removeItem
//
//	@Summary		Удаление товара из корзины
//	@Description	Удаляет все строки с указанным товаром; отсутствующий товар не считается ошибкой
//	@Tags			cart
//	@Produce		json
//	@Param			cartID		path		string	true	"ID корзины"
//	@Param			productID	path		string	true	"ID товара"
//	@Success		200			{object}	CartResponse
//	@Router			/cart/{cartID}/items/{productID} [delete]
func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := cartIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	productID := chi.URLParam(r, "productID")
	if productID == "" {
		WriteError(w, e.ErrEmptyProductID)
		return
	}

	h.cartUsecase.RemoveFromCart(r.Context(), cartID, productID)

	view := h.cartUsecase.Snapshot(r.Context(), cartID)
	WriteSuccess(w, http.StatusOK, NewCartResponse(view, "Item removed from cart"))
}

// clearCart
//
//	@Summary		Очистка корзины
//	@Tags			cart
//	@Produce		json
//	@Param			cartID	path		string	true	"ID корзины"
//	@Success		200		{object}	CartResponse
//	@Router			/cart/{cartID} [delete]
func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := cartIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.cartUsecase.ClearCart(r.Context(), cartID)

	view := h.cartUsecase.Snapshot(r.Context(), cartID)
	WriteSuccess(w, http.StatusOK, NewCartResponse(view, "Cart cleared"))
}

// openCart
//
//	@Summary	Открытие панели корзины
//	@Tags		cart
//	@Param		cartID	path	string	true	"ID корзины"
//	@Success	204
//	@Router		/cart/{cartID}/open [post]
func (h *CartHandler) openCart(w http.ResponseWriter, r *http.Request) {
	h.setOpen(w, r, true)
}

// closeCart
//
//	@Summary	Закрытие панели корзины
//	@Tags		cart
//	@Param		cartID	path	string	true	"ID корзины"
//	@Success	204
//	@Router		/cart/{cartID}/close [post]
func (h *CartHandler) closeCart(w http.ResponseWriter, r *http.Request) {
	h.setOpen(w, r, false)
}

func (h *CartHandler) setOpen(w http.ResponseWriter, r *http.Request, open bool) {
	cartID, err := cartIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.cartUsecase.SetOpen(r.Context(), cartID, open)
	w.WriteHeader(http.StatusNoContent)
}

func cartIDFromRequest(r *http.Request) (string, error) {
	cartID := chi.URLParam(r, "cartID")
	if strings.TrimSpace(cartID) == "" {
		return "", e.ErrEmptyCartID
	}

	return cartID, nil
}
