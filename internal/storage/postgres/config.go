package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digiflydk/orderfly-cart/internal/domain/pricing"
)

const (
	getBrandSQL = `SELECT id, name, bag_fee, admin_fee, admin_fee_type, vat_percentage
		FROM brands WHERE id = $1`

	getLocationSQL = `SELECT id, brand_id, name, delivery_fee
		FROM locations WHERE id = $1`
)

var _ pricing.ConfigRepository = (*ConfigRepository)(nil)

// ConfigRepository loads brand and location pricing configuration from
// PostgreSQL.
type ConfigRepository struct {
	pool *pgxpool.Pool
}

// NewConfigRepository returns a repository using the given pool.
func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{pool: pool}
}

// GetBrand loads a brand's pricing configuration.
func (r *ConfigRepository) GetBrand(ctx context.Context, id string) (*pricing.BrandConfig, error) {
	rows, err := r.pool.Query(ctx, getBrandSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting brand %q: %w", id, err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBrand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pricing.ErrBrandNotFound
		}
		return nil, fmt.Errorf("getting brand %q: %w", id, err)
	}
	return &b, nil
}

// GetLocation loads a location's pricing configuration.
func (r *ConfigRepository) GetLocation(ctx context.Context, id string) (*pricing.LocationConfig, error) {
	rows, err := r.pool.Query(ctx, getLocationSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting location %q: %w", id, err)
	}

	l, err := pgx.CollectExactlyOneRow(rows, scanLocation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pricing.ErrLocationNotFound
		}
		return nil, fmt.Errorf("getting location %q: %w", id, err)
	}
	return &l, nil
}

func scanBrand(row pgx.CollectableRow) (pricing.BrandConfig, error) {
	var (
		b       pricing.BrandConfig
		feeType string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.BagFee, &b.AdminFee, &feeType, &b.VATPercentage); err != nil {
		return pricing.BrandConfig{}, err
	}
	b.AdminFeeType = pricing.AdminFeeType(feeType)
	return b, nil
}

func scanLocation(row pgx.CollectableRow) (pricing.LocationConfig, error) {
	var l pricing.LocationConfig
	err := row.Scan(&l.ID, &l.BrandID, &l.Name, &l.DeliveryFee)
	return l, err
}
