package pgdb

import (
	"context"
	"errors"

	"github.com/einspot/storefront/internal/domain"
	"github.com/einspot/storefront/internal/repository/pgdb/converter"
	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/e"
	"github.com/einspot/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или обновляет товар по уникальному имени.
// Запись обновляется только при изменении цены, категории, изображения или флага цены.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// VALUES ($1..$6) id, name, price, category_id, image_key, show_price
	query := `
		WITH upsert AS (
		INSERT INTO products (id, name, price, category_id, image_key, show_price)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		ON CONFLICT (name)
		DO UPDATE SET
			price = EXCLUDED.price,
			category_id = EXCLUDED.category_id,
			image_key = EXCLUDED.image_key,
			show_price = EXCLUDED.show_price,
			updated_at = NOW()
		WHERE
			products.price IS DISTINCT FROM EXCLUDED.price OR
			products.category_id IS DISTINCT FROM EXCLUDED.category_id OR
			products.image_key IS DISTINCT FROM EXCLUDED.image_key OR
			products.show_price IS DISTINCT FROM EXCLUDED.show_price
		RETURNING
			id, name, price, category_id, image_key, show_price, created_at, updated_at, is_archived
		)
		SELECT
			id, name, price, category_id, image_key, show_price, created_at, updated_at, is_archived
		FROM upsert

		UNION ALL

		SELECT
			id, name, price, category_id, image_key, show_price, created_at, updated_at, is_archived
		FROM products
		WHERE name = $2
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query,
		product.ID, product.Name, product.Price, product.CategoryID, product.ImageKey, product.ShowPrice,
	).Scan(
		&model.ID, &model.Name, &model.Price, &model.CategoryID,
		&model.ImageKey, &model.ShowPrice, &model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// GetProductCardRow возвращает карточку товара с названием категории.
func (p *ProductRepo) GetProductCardRow(ctx context.Context, productID string) (*usecase.ProductCardRow, error) {
	query := `
		SELECT pr.id, pr.name, pr.price, COALESCE(pr.image_key, ''), cat.name, pr.show_price
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = $1 AND NOT pr.is_archived
	`

	var row usecase.ProductCardRow
	err := p.pool.QueryRow(ctx, query, productID).
		Scan(&row.ID, &row.Name, &row.Price, &row.ImageKey, &row.Category, &row.ShowPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &row, nil
}
