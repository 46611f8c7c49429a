// Package handler exposes the engine over HTTP. It is the interactive layer:
// it decodes requests, delegates to the domain, and turns domain errors into
// user-visible responses.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/atelier-pos/internal/domain/cart"
	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/ledger"
	"github.com/xenking/atelier-pos/internal/domain/sales"
	"github.com/xenking/atelier-pos/internal/domain/settings"
)

// Handler wires the domain stores and services to HTTP routes.
type Handler struct {
	inv      *inventory.Store
	cart     *cart.Cart
	sales    *sales.Service
	ledger   *ledger.Store
	settings *settings.Store
}

// New constructs a Handler over the given domain dependencies.
func New(
	inv *inventory.Store,
	c *cart.Cart,
	salesSvc *sales.Service,
	led *ledger.Store,
	set *settings.Store,
) *Handler {
	return &Handler{
		inv:      inv,
		cart:     c,
		sales:    salesSvc,
		ledger:   led,
		settings: set,
	}
}

// Routes mounts every endpoint on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.listItems)
		r.Post("/", h.addItem)
		r.Put("/{id}", h.updateItem)
		r.Delete("/{id}", h.removeItem)
		r.Post("/{id}/adjust", h.adjustQuantity)
		r.Put("/{id}/quantity", h.setQuantity)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.addCategory)
		r.Put("/{name}", h.renameCategory)
		r.Delete("/{name}", h.removeCategory)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Post("/lines", h.addCartLine)
		r.Patch("/lines/{id}", h.updateCartLine)
		r.Delete("/lines/{id}", h.removeCartLine)
	})

	r.Post("/checkout", h.checkout)

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.listSales)
		r.Patch("/{id}", h.editSale)
		r.Delete("/{id}", h.deleteSale)
	})

	r.Get("/report/today", h.todayReport)
	r.Get("/report/export", h.exportCSV)

	r.Get("/title", h.getTitle)
	r.Put("/title", h.setTitle)

	return r
}

func respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond(w, r, http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: "malformed request body",
		})
		return false
	}
	return true
}
