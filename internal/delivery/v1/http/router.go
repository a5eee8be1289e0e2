package http

import (
	_ "github.com/einspot/storefront/docs" // Импорт сгенерированных файлов
	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(cartUC usecase.CartUC, catalogUC usecase.CatalogUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		cartHandler := NewCartHandler(cartUC, r.logger)
		registerCartRoutes(v1, cartHandler)

		catalogHandler := NewCatalogHandler(catalogUC, r.logger)
		registerCatalogRoutes(v1, catalogHandler)
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart/{cartID}", func(cart chi.Router) {
		cart.Get("/", h.getCart)
		cart.Delete("/", h.clearCart)
		cart.Post("/open", h.openCart)
		cart.Post("/close", h.closeCart)

		cart.Route("/items", func(items chi.Router) {
			items.Post("/", h.addItem)
			items.Put("/{productID}", h.updateItemQuantity)
			items.Delete("/{productID}", h.removeItem)
		})
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", h.registerProduct)
		pr.Get("/{productID}", h.getProductCard)
	})
}
