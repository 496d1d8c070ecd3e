package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
)

const (
	listActiveDiscountsSQL = `SELECT id, name, discount_type, discount_method, discount_value,
		min_order_value, offer_category
		FROM standard_discounts
		WHERE brand_id = $1 AND location_id = $2 AND $3 = ANY(delivery_types) AND active = TRUE
		ORDER BY created_at, id`

	findVoucherByCodeSQL = `SELECT code, discount_method, discount_value, min_order_value
		FROM vouchers
		WHERE brand_id = $1 AND UPPER(code) = UPPER($2) AND active = TRUE`
)

var _ discount.StandardRepository = (*StandardDiscountRepository)(nil)

// StandardDiscountRepository implements discount.StandardRepository backed
// by PostgreSQL.
type StandardDiscountRepository struct {
	pool *pgxpool.Pool
}

// NewStandardDiscountRepository returns a repository using the given pool.
func NewStandardDiscountRepository(pool *pgxpool.Pool) *StandardDiscountRepository {
	return &StandardDiscountRepository{pool: pool}
}

// ListActive returns the active automatic discounts for a brand, location,
// and delivery type, in creation order. The order is what downstream
// tie-breaking preserves.
func (r *StandardDiscountRepository) ListActive(ctx context.Context, brandID, locationID, deliveryType string) ([]discount.Standard, error) {
	rows, err := r.pool.Query(ctx, listActiveDiscountsSQL, brandID, locationID, deliveryType)
	if err != nil {
		return nil, fmt.Errorf("listing discounts for brand %q location %q: %w", brandID, locationID, err)
	}

	standards, err := pgx.CollectRows(rows, scanStandard)
	if err != nil {
		return nil, fmt.Errorf("listing discounts for brand %q location %q: %w", brandID, locationID, err)
	}
	return standards, nil
}

func scanStandard(row pgx.CollectableRow) (discount.Standard, error) {
	var (
		d             discount.Standard
		kind, method  string
		value, minVal decimal.Decimal
	)
	if err := row.Scan(&d.ID, &d.Name, &kind, &method, &value, &minVal, &d.OfferCategory); err != nil {
		return discount.Standard{}, err
	}
	d.Kind = discount.Kind(kind)
	d.Method = discount.Method(method)
	d.Value = value
	d.MinOrderValue = minVal
	return d, nil
}

var _ discount.VoucherRepository = (*VoucherRepository)(nil)

// VoucherRepository implements discount.VoucherRepository backed by
// PostgreSQL.
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository returns a repository using the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// FindByCode looks up an active voucher by its code (case-insensitive)
// within a brand. Returns discount.ErrInvalidVoucher when no match exists.
func (r *VoucherRepository) FindByCode(ctx context.Context, brandID, code string) (*discount.Voucher, error) {
	rows, err := r.pool.Query(ctx, findVoucherByCodeSQL, brandID, code)
	if err != nil {
		return nil, fmt.Errorf("finding voucher by code %q: %w", code, err)
	}

	v, err := pgx.CollectExactlyOneRow(rows, scanVoucher)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrInvalidVoucher
		}
		return nil, fmt.Errorf("finding voucher by code %q: %w", code, err)
	}
	return &v, nil
}

func scanVoucher(row pgx.CollectableRow) (discount.Voucher, error) {
	var (
		v      discount.Voucher
		method string
	)
	if err := row.Scan(&v.Code, &method, &v.Value, &v.MinOrderValue); err != nil {
		return discount.Voucher{}, err
	}
	v.Method = discount.Method(method)
	return v, nil
}
