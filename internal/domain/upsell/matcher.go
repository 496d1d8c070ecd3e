package upsell

import (
	"github.com/shopspring/decimal"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
	"github.com/digiflydk/orderfly-cart/internal/domain/product"
)

// Snapshot is the cart view the matcher evaluates: the lines and the current
// cart total at checkout-intent time.
type Snapshot struct {
	State     cart.State
	CartTotal decimal.Decimal
}

// Match is a fired campaign together with the products left to offer after
// suppression.
type Match struct {
	Campaign Campaign
	Offered  []product.Product
}

// Triggered reports whether any of the campaign's trigger conditions holds
// for the snapshot. Conditions are OR-combined; an unknown trigger type
// never matches.
func (c Campaign) Triggered(snap Snapshot) bool {
	for _, t := range c.Triggers {
		switch t.Type {
		case TriggerCartValueOver:
			if snap.CartTotal.GreaterThan(t.Threshold) {
				return true
			}
		case TriggerProductInCart:
			if snap.State.ContainsProduct(t.ReferenceID) {
				return true
			}
		case TriggerCategoryInCart:
			if snap.State.ContainsCategory(t.ReferenceID) {
				return true
			}
		}
	}
	return false
}

// suppress removes offered products already present in the cart. A customer
// is never upsold something they already have.
func suppress(offered []product.Product, state cart.State) []product.Product {
	kept := make([]product.Product, 0, len(offered))
	for _, p := range offered {
		if !state.ContainsProduct(p.ID) {
			kept = append(kept, p)
		}
	}
	return kept
}
