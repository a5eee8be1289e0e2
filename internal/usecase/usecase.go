package usecase

import "context"

type CartUC interface {
	AddToCart(ctx context.Context, req *AddToCartReq)
	RemoveFromCart(ctx context.Context, cartID string, productID string)
	UpdateQuantity(ctx context.Context, cartID string, productID string, quantity int)
	ClearCart(ctx context.Context, cartID string)
	SetOpen(ctx context.Context, cartID string, open bool)
	Snapshot(ctx context.Context, cartID string) *CartView
	TotalItems(ctx context.Context, cartID string) int
	TotalPrice(ctx context.Context, cartID string) int64
}

type CatalogUC interface {
	RegisterProduct(ctx context.Context, req *RegisterProductReq) (*RegisterProductRes, error)
	GetProductCard(ctx context.Context, productID string) (*ProductCard, error)
}
