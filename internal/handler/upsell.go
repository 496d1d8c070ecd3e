package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digiflydk/orderfly-cart/internal/domain/upsell"
)

// checkoutIntent runs the upsell matching pass over the current cart
// snapshot and returns at most one offer. A null upsell means checkout
// proceeds directly.
func (h *Handler) checkoutIntent(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Get(chi.URLParam(r, "cartID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	totals, err := h.computeTotals(r.Context(), state)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	match, err := h.upsells.MatchCheckoutIntent(r.Context(), upsell.Snapshot{
		State:     state,
		CartTotal: totals.CartTotal,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutIntentResponse{Upsell: toUpsellOfferJSON(match)})
}

// recordConversion bumps the campaign's conversion counter after an accepted
// offer.
func (h *Handler) recordConversion(w http.ResponseWriter, r *http.Request) {
	if err := h.upsells.RecordConversion(r.Context(), chi.URLParam(r, "upsellID")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
