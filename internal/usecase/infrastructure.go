package usecase

import "context"

// CatalogReader — коллаборатор гидрации: выдаёт карточку товара по его ID.
type CatalogReader interface {
	GetProductCard(ctx context.Context, productID string) (*ProductCard, error)
}

// EventProducer публикует события активности корзины.
// Публикация не должна блокировать и не должна влиять на результат мутации.
type EventProducer interface {
	PublishAsync(event *CartEvent)
}

// ImagesInfra выдаёт публичные ссылки на изображения товаров.
type ImagesInfra interface {
	PresignedImageURL(ctx context.Context, objectKey string) (string, error)
}
