package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digiflydk/orderfly-cart/internal/domain/product"
)

const (
	getProductsByIDsSQL = `SELECT id, brand_id, category_id, name, price, image_url
		FROM products WHERE id = ANY($1)`

	listProductsByCategoriesSQL = `SELECT id, brand_id, category_id, name, price, image_url
		FROM products WHERE category_id = ANY($1) ORDER BY name`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a repository using the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetByIDs fetches the products with the given ids in a single query.
// Missing ids are simply absent from the result.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return products, nil
}

// ListByCategories fetches every product belonging to the given categories.
func (r *ProductRepository) ListByCategories(ctx context.Context, categoryIDs []string) ([]product.Product, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, listProductsByCategoriesSQL, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("listing products by categories: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("listing products by categories: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.BrandID, &p.CategoryID, &p.Name, &p.Price, &p.ImageURL)
	return p, err
}
