// Package discount implements cart-level discount resolution: automatic
// standard discounts, voucher codes, and free-delivery eligibility.
package discount

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Method enumerates how a discount value is interpreted.
type Method string

const (
	// MethodPercentage discounts a percentage of the discountable subtotal.
	MethodPercentage Method = "percentage"
	// MethodFixed discounts a fixed monetary amount capped at the subtotal.
	MethodFixed Method = "fixed_amount"
)

// Kind enumerates what a standard discount applies to.
type Kind string

const (
	// KindCart discounts the cart total.
	KindCart Kind = "cart"
	// KindFreeDelivery waives the delivery fee.
	KindFreeDelivery Kind = "free_delivery"
)

// ErrInvalidVoucher is returned when a voucher code is not found or inactive.
var ErrInvalidVoucher = errors.New("invalid voucher code")

// Standard is an automatic discount rule scoped to a brand, location, and
// delivery type. It applies without user action once the cart qualifies.
type Standard struct {
	ID            string
	Name          string
	Kind          Kind
	Method        Method
	Value         decimal.Decimal
	MinOrderValue decimal.Decimal

	// OfferCategory marks the discount as promotionally surfaced in the
	// storefront's offers section. It does not affect resolution.
	OfferCategory bool
}

// Voucher is a customer-entered discount code. At most one is applied to a
// cart at a time.
type Voucher struct {
	Code          string
	Method        Method
	Value         decimal.Decimal
	MinOrderValue decimal.Decimal
}

// Applied is a resolved discount: the winning rule's display name and the
// concrete amount it removes from the cart total.
type Applied struct {
	Name   string
	Amount decimal.Decimal
}

// StandardRepository lists the active automatic discounts for a storefront
// context. Implementations scope by brand, location, and delivery type.
type StandardRepository interface {
	ListActive(ctx context.Context, brandID, locationID, deliveryType string) ([]Standard, error)
}

// VoucherRepository looks up voucher codes. FindByCode returns
// ErrInvalidVoucher when no active voucher matches.
type VoucherRepository interface {
	FindByCode(ctx context.Context, brandID, code string) (*Voucher, error)
}
