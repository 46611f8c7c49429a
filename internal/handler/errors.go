package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/atelier-pos/internal/domain/cart"
	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/ledger"
	"github.com/xenking/atelier-pos/internal/domain/operator"
	"github.com/xenking/atelier-pos/internal/domain/sales"
	"github.com/xenking/atelier-pos/internal/domain/settings"
)

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps domain errors onto HTTP statuses. Every engine error is
// recoverable: the operator fixes the input and resubmits, so nothing here
// is ever a 500 unless the error is genuinely unknown.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var vErr *inventory.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, settings.ErrEmptyTitle),
		errors.Is(err, cart.ErrEmpty):
		status = http.StatusBadRequest
	case errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, inventory.ErrCategoryNotFound),
		errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, cart.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, inventory.ErrCategoryExists),
		errors.Is(err, inventory.ErrCategoryInUse),
		errors.Is(err, operator.ErrDeclined):
		status = http.StatusConflict
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrQuantityExceeded),
		errors.Is(err, sales.ErrInsufficientStock):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("unhandled error", zap.Error(err))
		respond(w, r, status, errorBody{Code: status, Message: "internal error"})
		return
	}
	respond(w, r, status, errorBody{Code: status, Message: err.Error()})
}
