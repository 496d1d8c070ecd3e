package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
)

var hundred = decimal.NewFromInt(100)

// freeDeliveryLabel is the display name used when a free-delivery discount
// waives the delivery fee.
const freeDeliveryLabel = "Free delivery"

// Totals is the derived pricing of a cart, recomputed on every state change
// and consumed verbatim by the checkout UI and the order payload.
type Totals struct {
	Subtotal            decimal.Decimal
	ItemDiscount        decimal.Decimal
	CartDiscount        *discount.Applied
	VoucherDiscount     *discount.Applied
	FreeDeliveryApplied bool
	DeliveryFee         decimal.Decimal
	BagFee              decimal.Decimal
	AdminFee            decimal.Decimal
	CartTotal           decimal.Decimal
	CheckoutTotal       decimal.Decimal
	VATAmount           decimal.Decimal
	ItemCount           int

	// FinalDiscountLabel joins the names of all applied discounts with " + ".
	// FinalDiscountAmount is the summed saving: item discounts plus the
	// winning cart-level discount plus the waived delivery fee. It is not
	// re-derived from the label.
	FinalDiscountLabel  string
	FinalDiscountAmount decimal.Decimal
}

// PaymentDetails is the shape persisted on the order and displayed by the
// confirmation and admin order-detail views without recomputation.
type PaymentDetails struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ItemDiscountTotal decimal.Decimal `json:"itemDiscountTotal"`
	CartDiscountTotal decimal.Decimal `json:"cartDiscountTotal"`
	DeliveryFee       decimal.Decimal `json:"deliveryFee"`
	BagFee            decimal.Decimal `json:"bagFee"`
	AdminFee          decimal.Decimal `json:"adminFee"`
	VATAmount         decimal.Decimal `json:"vatAmount"`
}

// PaymentDetails projects the totals into the order payload shape.
func (t Totals) PaymentDetails() PaymentDetails {
	return PaymentDetails{
		Subtotal:          t.Subtotal,
		ItemDiscountTotal: t.ItemDiscount,
		CartDiscountTotal: t.cartLevelAmount(),
		DeliveryFee:       t.DeliveryFee,
		BagFee:            t.BagFee,
		AdminFee:          t.AdminFee,
		VATAmount:         t.VATAmount,
	}
}

func (t Totals) cartLevelAmount() decimal.Decimal {
	switch {
	case t.CartDiscount != nil:
		return t.CartDiscount.Amount
	case t.VoucherDiscount != nil:
		return t.VoucherDiscount.Amount
	default:
		return decimal.Zero
	}
}

// Compute derives the full totals for a snapshot. It is a pure function:
// identical snapshots produce identical totals.
func Compute(s Snapshot) Totals {
	if len(s.State.Items) == 0 {
		return Totals{
			Subtotal:      decimal.Zero.Round(2),
			ItemDiscount:  decimal.Zero.Round(2),
			DeliveryFee:   decimal.Zero.Round(2),
			BagFee:        decimal.Zero.Round(2),
			AdminFee:      decimal.Zero.Round(2),
			CartTotal:     decimal.Zero.Round(2),
			CheckoutTotal: decimal.Zero.Round(2),
			VATAmount:     decimal.Zero.Round(2),

			FinalDiscountAmount: decimal.Zero.Round(2),
		}
	}

	subtotal := decimal.Zero
	itemDiscount := decimal.Zero
	discountable := decimal.Zero
	for _, it := range s.State.Items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		base := it.BaseUnitPrice().Mul(qty)
		subtotal = subtotal.Add(base)
		itemDiscount = itemDiscount.Add(base.Sub(it.LineTotal()))
		if !s.isLocked(it) {
			discountable = discountable.Add(base)
		}
	}

	sel := discount.Select(discountable, s.Standards, s.State.Voucher)

	cartTotal := floorAtZero(subtotal.Sub(itemDiscount).Sub(sel.Amount()))

	// Free delivery qualifies against the subtotal net of item-level
	// discounts, independently of which cart-level discount won.
	freeDelivery := s.State.DeliveryType == cart.DeliveryTypeDelivery &&
		discount.FreeDeliveryQualifies(subtotal.Sub(itemDiscount), s.Standards)

	deliveryFee := decimal.Zero
	if s.State.DeliveryType == cart.DeliveryTypeDelivery && !freeDelivery {
		deliveryFee = s.Location.DeliveryFee
	}

	bagFee := decimal.Zero
	if s.State.IncludeBagFee && s.Brand.BagFee.IsPositive() {
		bagFee = s.Brand.BagFee
	}

	adminFee := computeAdminFee(s.Brand, cartTotal)

	checkoutTotal := floorAtZero(cartTotal.Add(deliveryFee).Add(bagFee).Add(adminFee))

	t := Totals{
		Subtotal:            subtotal.Round(2),
		ItemDiscount:        itemDiscount.Round(2),
		CartDiscount:        roundApplied(sel.Automatic),
		VoucherDiscount:     roundApplied(sel.Voucher),
		FreeDeliveryApplied: freeDelivery,
		DeliveryFee:         deliveryFee.Round(2),
		BagFee:              bagFee.Round(2),
		AdminFee:            adminFee.Round(2),
		CartTotal:           cartTotal.Round(2),
		CheckoutTotal:       checkoutTotal.Round(2),
		VATAmount:           vatAmount(checkoutTotal, s.Brand.VATPercentage),
		ItemCount:           s.State.ItemCount(),
	}
	t.FinalDiscountLabel, t.FinalDiscountAmount = finalDiscount(t, s.Location.DeliveryFee)
	return t
}

// computeAdminFee applies the brand's admin fee to the discounted cart total.
// The fee is computed on the cart total, not the checkout total, so there is
// no circularity with the fees it joins. Unknown fee types charge nothing.
func computeAdminFee(brand BrandConfig, cartTotal decimal.Decimal) decimal.Decimal {
	if !brand.AdminFee.IsPositive() {
		return decimal.Zero
	}
	switch brand.AdminFeeType {
	case AdminFeeFixed:
		return brand.AdminFee
	case AdminFeePercentage:
		return floorAtZero(cartTotal).Mul(brand.AdminFee).Div(hundred)
	default:
		return decimal.Zero
	}
}

// vatAmount back-calculates the VAT component of a VAT-inclusive total:
// total * rate / (100 + rate). VAT is informational, never added on top.
func vatAmount(checkoutTotal, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		rate = defaultVATRate
	}
	return checkoutTotal.Mul(rate).Div(hundred.Add(rate)).Round(2)
}

// finalDiscount builds the human-readable summary of every applied discount
// and the total saving. The amount is summed directly from the components,
// not re-derived from the label parts.
func finalDiscount(t Totals, fullDeliveryFee decimal.Decimal) (string, decimal.Decimal) {
	var parts []string
	amount := t.ItemDiscount

	if t.CartDiscount != nil {
		parts = append(parts, t.CartDiscount.Name)
		amount = amount.Add(t.CartDiscount.Amount)
	}
	if t.VoucherDiscount != nil {
		parts = append(parts, t.VoucherDiscount.Name)
		amount = amount.Add(t.VoucherDiscount.Amount)
	}
	if t.FreeDeliveryApplied {
		parts = append(parts, freeDeliveryLabel)
		amount = amount.Add(fullDeliveryFee)
	}

	return strings.Join(parts, " + "), amount.Round(2)
}

func roundApplied(a *discount.Applied) *discount.Applied {
	if a == nil {
		return nil
	}
	return &discount.Applied{Name: a.Name, Amount: a.Amount.Round(2)}
}

func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
