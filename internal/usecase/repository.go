package usecase

import (
	"context"

	"github.com/einspot/storefront/internal/domain"
)

// CartSlotRepository — долговременный слот корзины: весь массив строк
// перезаписывается целиком при каждой мутации.
type CartSlotRepository interface {
	Load(ctx context.Context, cartID string) ([]domain.CartLine, error)
	Save(ctx context.Context, cartID string, lines []domain.CartLine) error
	Clear(ctx context.Context, cartID string) error
}

type ProductRepository interface {
	Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductCardRow(ctx context.Context, productID string) (*ProductCardRow, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

// CardCacheRepository — кэш карточек товаров с TTL.
type CardCacheRepository interface {
	GetProductCard(ctx context.Context, productID string) (*ProductCard, error)
	SetProductCard(ctx context.Context, card *ProductCard) error
	DeleteProductCards(ctx context.Context, productIDs []string) error
}
