// Package upsell implements checkout-intent offer matching: campaigns with
// trigger conditions, schedule windows, and already-in-cart suppression.
package upsell

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
)

// TriggerType enumerates the supported trigger conditions.
type TriggerType string

const (
	// TriggerCartValueOver fires when the cart total strictly exceeds a threshold.
	TriggerCartValueOver TriggerType = "cart_value_over"
	// TriggerProductInCart fires when a specific product is in the cart.
	TriggerProductInCart TriggerType = "product_in_cart"
	// TriggerCategoryInCart fires when any item of a category is in the cart.
	TriggerCategoryInCart TriggerType = "category_in_cart"
)

// Trigger is a single condition of a campaign. ReferenceID carries the
// product or category id; Threshold carries the cart-value bound. Only the
// field matching Type is meaningful.
type Trigger struct {
	Type        TriggerType
	ReferenceID string
	Threshold   decimal.Decimal
}

// OfferType enumerates how a campaign's offered products are declared.
type OfferType string

const (
	// OfferProducts offers an explicit list of products.
	OfferProducts OfferType = "product"
	// OfferCategories offers every product in the named categories.
	OfferCategories OfferType = "category"
)

// Campaign is an upsell authored in the back office. Campaigns are
// brand+location scoped and never deleted automatically; Views and
// Conversions only ever grow.
type Campaign struct {
	ID         string
	BrandID    string
	LocationID string
	Name       string

	// Triggers are OR-combined: any single matching condition fires the
	// campaign.
	Triggers []Trigger

	OfferType        OfferType
	OfferProductIDs  []string
	OfferCategoryIDs []string

	// DiscountMethod and DiscountValue price the offered item itself.
	DiscountMethod discount.Method
	DiscountValue  decimal.Decimal

	Schedule Schedule
	Active   bool

	Views       int64
	Conversions int64
}

// Repository provides campaign lookup and counter increments. The increments
// must be atomic read-modify-write operations in the backing store so
// concurrent shoppers hitting the same campaign never lose updates.
type Repository interface {
	ListActive(ctx context.Context, brandID, locationID string) ([]Campaign, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementConversions(ctx context.Context, id string) error
}
