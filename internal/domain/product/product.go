// Package product defines the menu catalog types consumed by upsell offer
// resolution. Catalog editing lives in the back office and is out of scope.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a menu item available for purchase at a brand's locations.
type Product struct {
	ID         string
	BrandID    string
	CategoryID string
	Name       string
	Price      decimal.Decimal
	ImageURL   string
}

// Category groups menu items for display and for category-scoped triggers.
type Category struct {
	ID      string
	BrandID string
	Name    string
}

// Repository defines read operations against the menu catalog.
type Repository interface {
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	ListByCategories(ctx context.Context, categoryIDs []string) ([]Product, error)
}
