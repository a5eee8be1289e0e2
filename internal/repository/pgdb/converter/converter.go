package converter

import "github.com/einspot/storefront/internal/domain"

// ProductConverter переводит модели БД в доменные сущности и обратно.
type ProductConverter struct{}

func NewProductConverter() ProductConverter {
	return ProductConverter{}
}

func (ProductConverter) ToEntity(m *ProductModel) *domain.Product {
	imageKey := ""
	if m.ImageKey != nil {
		imageKey = *m.ImageKey
	}

	return &domain.Product{
		ID:         m.ID,
		Name:       m.Name,
		Price:      m.Price,
		CategoryID: m.CategoryID,
		ImageKey:   imageKey,
		ShowPrice:  m.ShowPrice,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		IsArchived: m.IsArchived,
	}
}

// CategoryConverter переводит модели категорий в доменные сущности.
type CategoryConverter struct{}

func NewCategoryConverter() CategoryConverter {
	return CategoryConverter{}
}

func (CategoryConverter) ToEntity(m *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		IsActive:  m.IsActive,
	}
}
