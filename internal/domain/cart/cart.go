// Package cart holds the cart state value object and its mutation actions.
//
// A cart is always mutated by copying: every action returns a new State,
// leaving the receiver untouched. Derived totals are computed elsewhere
// (internal/domain/pricing) as a pure function of State, so two carts with
// identical contents always price identically.
package cart

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
)

// DeliveryType selects which fees and discounts apply to a cart session.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

// ItemType tags a cart line as a single product or a combo meal.
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeCombo   ItemType = "combo"
)

// Sentinel errors for cart mutations.
var (
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrPriceAboveBase  = errors.New("price must not exceed base price")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Topping is a single add-on applied once per unit of the line item.
type Topping struct {
	Name  string
	Price decimal.Decimal
}

// ComboSelection records the sub-products chosen for one group of a combo.
type ComboSelection struct {
	GroupName  string
	ProductIDs []string
}

// Item is one line in the cart. BasePrice is the undiscounted unit price;
// Price is the effective unit price after any item-level discount computed
// upstream. Price never exceeds BasePrice.
type Item struct {
	LineID          string
	ID              string
	ItemType        ItemType
	Name            string
	BasePrice       decimal.Decimal
	Price           decimal.Decimal
	Quantity        int
	Toppings        []Topping
	ComboSelections []ComboSelection
	CategoryID      string
	BrandID         string

	// Locked excludes the line from cart-level discount stacking, e.g. when
	// the item is already on a fixed promotional price.
	Locked bool
}

// signature identifies lines that can be merged on add: same source product
// or combo plus the same toppings in the same order.
func (it Item) signature() string {
	var b strings.Builder
	b.WriteString(it.ID)
	for _, t := range it.Toppings {
		fmt.Fprintf(&b, "|%s:%s", t.Name, t.Price.String())
	}
	return b.String()
}

// UnitPrice returns the effective price of one unit including toppings.
func (it Item) UnitPrice() decimal.Decimal {
	p := it.Price
	for _, t := range it.Toppings {
		p = p.Add(t.Price)
	}
	return p
}

// BaseUnitPrice returns the undiscounted price of one unit including toppings.
func (it Item) BaseUnitPrice() decimal.Decimal {
	p := it.BasePrice
	for _, t := range it.Toppings {
		p = p.Add(t.Price)
	}
	return p
}

// LineTotal returns the effective price of the whole line.
func (it Item) LineTotal() decimal.Decimal {
	return it.UnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Validate checks the line invariants shared by all mutations.
func (it Item) Validate() error {
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if it.Price.GreaterThan(it.BasePrice) {
		return ErrPriceAboveBase
	}
	return nil
}

// State is the full cart for one session. All mutation methods are
// copy-on-write and leave the receiver unmodified.
//
// Voucher is the code currently attached to the cart. Whether it actually
// discounts anything is decided at recompute time; attaching a voucher never
// removes a better automatic discount.
type State struct {
	ID            string
	BrandID       string
	LocationID    string
	DeliveryType  DeliveryType
	Items         []Item
	Voucher       *discount.Voucher
	IncludeBagFee bool
}

// clone returns a deep enough copy for copy-on-write mutation: the item
// slice is duplicated, item payloads (toppings, selections) are shared since
// actions never modify them in place.
func (s State) clone() State {
	out := s
	out.Items = make([]Item, len(s.Items))
	copy(out.Items, s.Items)
	if s.Voucher != nil {
		v := *s.Voucher
		out.Voucher = &v
	}
	return out
}

// AddItem appends a line to the cart, merging quantities with an existing
// line when the product id and toppings signature match.
func (s State) AddItem(item Item) (State, error) {
	if err := item.Validate(); err != nil {
		return s, err
	}

	out := s.clone()
	sig := item.signature()
	for i, existing := range out.Items {
		if existing.signature() == sig {
			out.Items[i].Quantity += item.Quantity
			return out, nil
		}
	}
	out.Items = append(out.Items, item)
	return out, nil
}

// UpdateQuantity sets the quantity of the identified line. A quantity of
// zero removes the line.
func (s State) UpdateQuantity(lineID string, quantity int) (State, error) {
	if quantity < 0 {
		return s, ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(lineID)
	}

	out := s.clone()
	for i := range out.Items {
		if out.Items[i].LineID == lineID {
			out.Items[i].Quantity = quantity
			return out, nil
		}
	}
	return s, ErrLineNotFound
}

// RemoveItem deletes the identified line from the cart.
func (s State) RemoveItem(lineID string) (State, error) {
	out := s.clone()
	for i := range out.Items {
		if out.Items[i].LineID == lineID {
			out.Items = append(out.Items[:i], out.Items[i+1:]...)
			return out, nil
		}
	}
	return s, ErrLineNotFound
}

// ApplyVoucher attaches a voucher code to the cart, replacing any previous
// one. At most one voucher is applied at a time.
func (s State) ApplyVoucher(v discount.Voucher) State {
	out := s.clone()
	out.Voucher = &v
	return out
}

// RemoveVoucher detaches the applied voucher, if any.
func (s State) RemoveVoucher() State {
	out := s.clone()
	out.Voucher = nil
	return out
}

// SetDeliveryType switches the cart between delivery and pickup.
func (s State) SetDeliveryType(dt DeliveryType) State {
	out := s.clone()
	out.DeliveryType = dt
	return out
}

// SetBagFee toggles whether the brand's bag fee is charged.
func (s State) SetBagFee(include bool) State {
	out := s.clone()
	out.IncludeBagFee = include
	return out
}

// Clear empties the cart after order placement or a brand/location switch.
// The delivery type and fee toggle survive; items and voucher do not.
func (s State) Clear() State {
	out := s.clone()
	out.Items = nil
	out.Voucher = nil
	return out
}

// ItemCount returns the total number of units across all lines.
func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// ContainsProduct reports whether a line sourced from the given product or
// combo id is present in the cart.
func (s State) ContainsProduct(id string) bool {
	for _, it := range s.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// ContainsCategory reports whether any line belongs to the given category.
func (s State) ContainsCategory(categoryID string) bool {
	for _, it := range s.Items {
		if it.CategoryID == categoryID {
			return true
		}
	}
	return false
}
