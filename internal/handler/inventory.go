package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/pricing"
)

type itemRequest struct {
	Category  string         `json:"category"`
	Name      string         `json:"name"`
	Cost      int64          `json:"cost"`
	Price     int64          `json:"price"`
	Discounts []pricing.Tier `json:"discounts"`
}

func (req itemRequest) patch() inventory.ItemPatch {
	return inventory.ItemPatch{
		Category:  req.Category,
		Name:      req.Name,
		Cost:      req.Cost,
		Price:     req.Price,
		Discounts: req.Discounts,
	}
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.inv.Items())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.inv.AddItem(req.patch())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.inv.UpdateItem(chi.URLParam(r, "id"), req.patch())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, item)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.inv.RemoveItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusNoContent, nil)
}

func (h *Handler) adjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.inv.AdjustQuantity(id, req.Delta); err != nil {
		respondError(w, r, err)
		return
	}
	item, err := h.inv.Get(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, item)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.inv.SetQuantity(id, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	item, err := h.inv.Get(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, item)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.inv.Categories())
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.inv.AddCategory(req.Name); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, h.inv.Categories())
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.inv.RenameCategory(chi.URLParam(r, "name"), req.Name); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.inv.Categories())
}

func (h *Handler) removeCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.inv.RemoveCategory(r.Context(), chi.URLParam(r, "name")); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusNoContent, nil)
}
