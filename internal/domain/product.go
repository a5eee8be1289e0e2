package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID         string // uuid
	Name       string
	Price      int64 // Цена хранится в центах
	CategoryID int64
	ImageKey   string // Ключ изображения в S3, пустой если изображения нет
	ShowPrice  bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	IsArchived bool
}

func NewProduct(id string, name string, price int64, categoryID int64, imageKey string, showPrice bool) *Product {
	return &Product{
		ID:         id,
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
		ImageKey:   imageKey,
		ShowPrice:  showPrice,
	}
}
