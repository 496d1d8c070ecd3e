package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
	"github.com/digiflydk/orderfly-cart/internal/domain/pricing"
	"github.com/digiflydk/orderfly-cart/internal/session"
)

// errorResponse is the uniform error body for all endpoints.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// writeDomainError maps domain errors to HTTP responses. Anything unmapped
// is logged and reported as a 500 without leaking internals.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "cart session not found")
	case errors.Is(err, cart.ErrLineNotFound):
		writeError(w, http.StatusNotFound, "cart line not found")
	case errors.Is(err, cart.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, cart.ErrInvalidQuantity.Error())
	case errors.Is(err, cart.ErrPriceAboveBase):
		writeError(w, http.StatusUnprocessableEntity, cart.ErrPriceAboveBase.Error())
	case errors.Is(err, discount.ErrInvalidVoucher):
		writeError(w, http.StatusUnprocessableEntity, discount.ErrInvalidVoucher.Error())
	case errors.Is(err, pricing.ErrBrandNotFound):
		writeError(w, http.StatusUnprocessableEntity, pricing.ErrBrandNotFound.Error())
	case errors.Is(err, pricing.ErrLocationNotFound):
		writeError(w, http.StatusUnprocessableEntity, pricing.ErrLocationNotFound.Error())
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
