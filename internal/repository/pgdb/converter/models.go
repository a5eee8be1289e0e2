package converter

import "time"

type ProductModel struct {
	ID         string
	Name       string
	Price      int64
	CategoryID int64
	ImageKey   *string
	ShowPrice  bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	IsArchived bool
}

type CategoryModel struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	IsActive  bool
}
