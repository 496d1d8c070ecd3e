package discount

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Selection is the outcome of cart-level discount resolution. At most one of
// Automatic and Voucher is non-nil: cart-level discounts never combine.
type Selection struct {
	Automatic *Applied
	Voucher   *Applied
}

// Amount returns the winning discount amount, or zero when nothing won.
func (s Selection) Amount() decimal.Decimal {
	switch {
	case s.Automatic != nil:
		return s.Automatic.Amount
	case s.Voucher != nil:
		return s.Voucher.Amount
	default:
		return decimal.Zero
	}
}

// Name returns the winning discount's display name, or "".
func (s Selection) Name() string {
	switch {
	case s.Automatic != nil:
		return s.Automatic.Name
	case s.Voucher != nil:
		return s.Voucher.Name
	default:
		return ""
	}
}

// Select resolves the cart-level discount for the given discountable
// subtotal: the best qualifying automatic cart discount competes against the
// applied voucher, and the larger amount wins outright. On an exact tie the
// automatic discount wins. The voucher stays attached to the cart either
// way; losing only means it contributes nothing this recompute.
//
// Among automatic discounts with equal amounts the first in input order wins.
// The input order is whatever the repository returned, so the tie-break is
// stable per fetch but not defined across fetches.
func Select(discountable decimal.Decimal, standards []Standard, voucher *Voucher) Selection {
	best := bestAutomatic(discountable, standards)

	if voucher != nil && discountable.GreaterThanOrEqual(voucher.MinOrderValue) {
		if amount, ok := amountFor(voucher.Method, voucher.Value, discountable); ok {
			if best == nil || amount.GreaterThan(best.Amount) {
				return Selection{Voucher: &Applied{Name: voucher.Code, Amount: amount}}
			}
		}
	}

	if best == nil {
		return Selection{}
	}
	return Selection{Automatic: best}
}

// bestAutomatic picks the qualifying cart discount with the largest computed
// amount. Rules of the wrong kind, below their minimum order value, or with
// an unknown method are filtered out rather than reported as errors.
func bestAutomatic(discountable decimal.Decimal, standards []Standard) *Applied {
	var best *Applied
	for _, d := range standards {
		if d.Kind != KindCart {
			continue
		}
		if discountable.LessThan(d.MinOrderValue) {
			continue
		}
		amount, ok := amountFor(d.Method, d.Value, discountable)
		if !ok {
			continue
		}
		if best == nil || amount.GreaterThan(best.Amount) {
			best = &Applied{Name: d.Name, Amount: amount}
		}
	}
	return best
}

// FreeDeliveryQualifies reports whether any active free-delivery discount is
// satisfied by the given basis (subtotal after item-level discounts). It is
// evaluated independently of which cart-level discount won.
func FreeDeliveryQualifies(basis decimal.Decimal, standards []Standard) bool {
	for _, d := range standards {
		if d.Kind != KindFreeDelivery {
			continue
		}
		if basis.GreaterThanOrEqual(d.MinOrderValue) {
			return true
		}
	}
	return false
}

// amountFor computes the discount amount for a method and value against the
// given basis. Unknown methods report ok=false and the rule is skipped.
// Amounts are never negative and fixed amounts never exceed the basis.
func amountFor(method Method, value, basis decimal.Decimal) (decimal.Decimal, bool) {
	switch method {
	case MethodPercentage:
		return floorAtZero(basis.Mul(value).Div(hundred)), true
	case MethodFixed:
		return floorAtZero(decimal.Min(value, basis)), true
	default:
		return decimal.Zero, false
	}
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
