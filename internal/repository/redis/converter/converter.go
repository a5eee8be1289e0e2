package converter

import (
	"github.com/einspot/storefront/internal/domain"
	"github.com/einspot/storefront/internal/usecase"
)

// CartLineConverter переводит строки корзины в модели слота и обратно.
type CartLineConverter struct{}

func NewCartLineConverter() CartLineConverter {
	return CartLineConverter{}
}

func (CartLineConverter) ToRedisModel(line domain.CartLine) CartLineRedisModel {
	return CartLineRedisModel{
		LineID:    line.LineID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Product: ProductSnapshotRedisModel{
			ID:        line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			ImageURL:  line.Product.ImageURL,
			Category:  line.Product.Category,
			ShowPrice: line.Product.ShowPrice,
		},
	}
}

func (CartLineConverter) ToEntity(model CartLineRedisModel) domain.CartLine {
	return domain.CartLine{
		LineID:    model.LineID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		Product: domain.ProductSnapshot{
			ID:        model.Product.ID,
			Name:      model.Product.Name,
			Price:     model.Product.Price,
			ImageURL:  model.Product.ImageURL,
			Category:  model.Product.Category,
			ShowPrice: model.Product.ShowPrice,
		},
	}
}

func (c CartLineConverter) ToArrRedisModel(lines []domain.CartLine) []CartLineRedisModel {
	models := make([]CartLineRedisModel, 0, len(lines))
	for _, line := range lines {
		models = append(models, c.ToRedisModel(line))
	}
	return models
}

func (c CartLineConverter) ToArrEntity(models []CartLineRedisModel) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(models))
	for _, model := range models {
		lines = append(lines, c.ToEntity(model))
	}
	return lines
}

// ProductCardConverter переводит карточки товаров в кэш-модели и обратно.
type ProductCardConverter struct{}

func NewProductCardConverter() ProductCardConverter {
	return ProductCardConverter{}
}

func (ProductCardConverter) ToRedisModel(card *usecase.ProductCard) *ProductCardRedisModel {
	return &ProductCardRedisModel{
		ID:        card.ID,
		Name:      card.Name,
		Price:     card.Price,
		ImageURL:  card.ImageURL,
		Category:  card.Category,
		ShowPrice: card.ShowPrice,
	}
}

func (ProductCardConverter) ToUseCase(model *ProductCardRedisModel) *usecase.ProductCard {
	return &usecase.ProductCard{
		ID:        model.ID,
		Name:      model.Name,
		Price:     model.Price,
		ImageURL:  model.ImageURL,
		Category:  model.Category,
		ShowPrice: model.ShowPrice,
	}
}
