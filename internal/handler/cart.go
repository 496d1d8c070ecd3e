package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
	"github.com/digiflydk/orderfly-cart/internal/domain/pricing"
)

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dt := cart.DeliveryType(req.DeliveryType)
	if dt == "" {
		dt = cart.DeliveryTypeDelivery
	}
	if dt != cart.DeliveryTypeDelivery && dt != cart.DeliveryTypePickup {
		writeError(w, http.StatusUnprocessableEntity, "deliveryType must be delivery or pickup")
		return
	}

	// Reject unknown storefront contexts up front so every later recompute
	// can rely on the config existing.
	if _, err := h.configs.GetBrand(r.Context(), req.BrandID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	loc, err := h.configs.GetLocation(r.Context(), req.LocationID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if loc.BrandID != req.BrandID {
		writeError(w, http.StatusUnprocessableEntity, "location does not belong to brand")
		return
	}

	state := h.sessions.Create(cart.State{
		BrandID:       req.BrandID,
		LocationID:    req.LocationID,
		DeliveryType:  dt,
		IncludeBagFee: true,
	})
	h.respondCart(w, r, state, http.StatusCreated)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Get(chi.URLParam(r, "cartID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, state, http.StatusOK)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lineID := uuid.New().String()
	state, err := h.sessions.Update(chi.URLParam(r, "cartID"), func(s cart.State) (cart.State, error) {
		return s.AddItem(req.toItem(lineID, s.BrandID))
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, state, http.StatusOK)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lineID := chi.URLParam(r, "lineID")
	state, err := h.sessions.Update(chi.URLParam(r, "cartID"), func(s cart.State) (cart.State, error) {
		return s.UpdateQuantity(lineID, req.Quantity)
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, state, http.StatusOK)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")
	state, err := h.sessions.Update(chi.URLParam(r, "cartID"), func(s cart.State) (cart.State, error) {
		return s.RemoveItem(lineID)
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, state, http.StatusOK)
}

func (h *Handler) applyVoucher(w http.ResponseWriter, r *http.Request) {
	var req applyVoucherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	current, err := h.sessions.Get(chi.URLParam(r, "cartID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	voucher, err := h.vouchers.FindByCode(r.Context(), current.BrandID, req.Code)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	state, err := h.sessions.Update(current.ID, func(s cart.State) (cart.State, error) {
		return s.ApplyVoucher(*voucher), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, state, http.StatusOK)
}

func (h *Handler) removeVoucher(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Update(chi.URLParam(r, "cartID"), func(s cart.State) (cart.State, error) {
		return s.RemoveVoucher(), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, state, http.StatusOK)
}

func (h *Handler) setDeliveryType(w http.ResponseWriter, r *http.Request) {
	var req setDeliveryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dt := cart.DeliveryType(req.DeliveryType)
	if dt != cart.DeliveryTypeDelivery && dt != cart.DeliveryTypePickup {
		writeError(w, http.StatusUnprocessableEntity, "deliveryType must be delivery or pickup")
		return
	}

	state, err := h.sessions.Update(chi.URLParam(r, "cartID"), func(s cart.State) (cart.State, error) {
		return s.SetDeliveryType(dt), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, state, http.StatusOK)
}

func (h *Handler) setBagFee(w http.ResponseWriter, r *http.Request) {
	var req setBagFeeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.sessions.Update(chi.URLParam(r, "cartID"), func(s cart.State) (cart.State, error) {
		return s.SetBagFee(req.Include), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, state, http.StatusOK)
}

// respondCart recomputes the totals for the given state and writes the full
// cart payload. Recomputing on every response keeps the client's view
// consistent with the latest inputs without any client-side math.
func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, state cart.State, status int) {
	totals, err := h.computeTotals(r.Context(), state)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, status, toCartResponse(state, totals))
}

func (h *Handler) computeTotals(ctx context.Context, state cart.State) (pricing.Totals, error) {
	brand, err := h.configs.GetBrand(ctx, state.BrandID)
	if err != nil {
		return pricing.Totals{}, err
	}
	location, err := h.configs.GetLocation(ctx, state.LocationID)
	if err != nil {
		return pricing.Totals{}, err
	}

	// Discount refresh is fail-open: when no snapshot is available at all,
	// the cart prices without automatic discounts rather than failing.
	standards, err := h.rules.ListActive(ctx, state.BrandID, state.LocationID, string(state.DeliveryType))
	if err != nil {
		zctx.From(ctx).Warn("active discounts unavailable, pricing without them",
			zap.String("brand_id", state.BrandID),
			zap.Error(err),
		)
		standards = nil
	}

	return pricing.Compute(pricing.Snapshot{
		State:     state,
		Standards: standards,
		Brand:     *brand,
		Location:  *location,
	}), nil
}
