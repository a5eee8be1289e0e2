package http

import (
	"encoding/json"
	"net/http"

	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/e"
	"github.com/einspot/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

type registerProductRequest struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     string `json:"price"` // Десятичная строка, например "599.99"
	ImageKey  string `json:"imageKey,omitempty"`
	ShowPrice *bool  `json:"showPrice,omitempty"`
}

// registerProduct
//
//	@Summary		Регистрация товара
//	@Description	Идемпотентно создает товар и его категорию
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	map[string]interface{}	"Успешное создание"
//	@Failure		400	{object}	ErrorResponse			"Ошибка валидации"
//	@Router			/products [post]
func (h *CatalogHandler) registerProduct(w http.ResponseWriter, r *http.Request) {
	var req registerProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if req.Name == "" || req.Category == "" || req.Price == "" {
		WriteError(w, e.ErrMissingFields)
		return
	}

	priceCents, err := parsePriceToCents(req.Price)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	showPrice := true
	if req.ShowPrice != nil {
		showPrice = *req.ShowPrice
	}

	res, err := h.catalogUsecase.RegisterProduct(r.Context(), usecase.NewRegisterProductReq(
		req.Name, req.Category, priceCents, req.ImageKey, showPrice,
	))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"ProductID": res.Product.ID,
	})
}

// getProductCard
//
//	@Summary	Карточка товара
//	@Tags		products
//	@Produce	json
//	@Param		productID	path		string	true	"ID товара"
//	@Success	200			{object}	ProductCardResponse
//	@Failure	404			{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{productID} [get]
func (h *CatalogHandler) getProductCard(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		WriteError(w, e.ErrEmptyProductID)
		return
	}

	card, err := h.catalogUsecase.GetProductCard(r.Context(), productID)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductCardResponse(card))
}
