// Package pricing computes cart totals: subtotal, item and cart-level
// discounts, delivery/bag/admin fees, and VAT-inclusive back-calculation.
//
// Compute is a pure function of a Snapshot, so recomputing after every cart
// mutation is cheap and always reproducible.
package pricing

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
)

// AdminFeeType selects how a brand's admin fee is computed.
type AdminFeeType string

const (
	AdminFeeFixed      AdminFeeType = "fixed"
	AdminFeePercentage AdminFeeType = "percentage"
)

// defaultVATRate applies when a brand has no VAT percentage configured.
var defaultVATRate = decimal.NewFromInt(25)

// BrandConfig is the pricing-relevant slice of a brand's configuration.
type BrandConfig struct {
	ID            string
	Name          string
	BagFee        decimal.Decimal
	AdminFee      decimal.Decimal
	AdminFeeType  AdminFeeType
	VATPercentage decimal.Decimal
}

// LocationConfig is the pricing-relevant slice of a location's configuration.
type LocationConfig struct {
	ID          string
	BrandID     string
	Name        string
	DeliveryFee decimal.Decimal
}

// Sentinel errors for missing configuration records.
var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrLocationNotFound = errors.New("location not found")
)

// ConfigRepository loads brand and location pricing configuration.
type ConfigRepository interface {
	GetBrand(ctx context.Context, id string) (*BrandConfig, error)
	GetLocation(ctx context.Context, id string) (*LocationConfig, error)
}

// Snapshot bundles every input the totals computation depends on. Building a
// Snapshot and calling Compute is the only way totals are derived.
type Snapshot struct {
	State     cart.State
	Standards []discount.Standard
	Brand     BrandConfig
	Location  LocationConfig

	// Locked overrides the per-line eligibility predicate for cart-level
	// discounts. When nil, the line's own Locked flag is used.
	Locked func(cart.Item) bool
}

func (s Snapshot) isLocked(it cart.Item) bool {
	if s.Locked != nil {
		return s.Locked(it)
	}
	return it.Locked
}
