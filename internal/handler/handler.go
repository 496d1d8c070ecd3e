// Package handler exposes the cart pricing engine over HTTP.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
	"github.com/digiflydk/orderfly-cart/internal/domain/pricing"
	"github.com/digiflydk/orderfly-cart/internal/domain/upsell"
	"github.com/digiflydk/orderfly-cart/internal/rulecache"
	"github.com/digiflydk/orderfly-cart/internal/session"
)

// Handler wires the cart session store, the pricing inputs, and the upsell
// service into HTTP endpoints. Every cart endpoint responds with the full
// recomputed totals, so the client never derives prices itself.
type Handler struct {
	sessions *session.Store
	rules    *rulecache.Cache
	vouchers discount.VoucherRepository
	configs  pricing.ConfigRepository
	upsells  *upsell.Service
}

// New constructs a Handler with the required dependencies.
func New(
	sessions *session.Store,
	rules *rulecache.Cache,
	vouchers discount.VoucherRepository,
	configs pricing.ConfigRepository,
	upsells *upsell.Service,
) *Handler {
	return &Handler{
		sessions: sessions,
		rules:    rules,
		vouchers: vouchers,
		configs:  configs,
		upsells:  upsells,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/carts", func(r chi.Router) {
		r.Post("/", h.createCart)
		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Post("/items", h.addItem)
			r.Patch("/items/{lineID}", h.updateItem)
			r.Delete("/items/{lineID}", h.removeItem)
			r.Put("/voucher", h.applyVoucher)
			r.Delete("/voucher", h.removeVoucher)
			r.Put("/delivery", h.setDeliveryType)
			r.Put("/bag-fee", h.setBagFee)
			r.Post("/checkout-intent", h.checkoutIntent)
		})
	})
	r.Post("/upsells/{upsellID}/conversion", h.recordConversion)

	return r
}
