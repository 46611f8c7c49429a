package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type cartLineResponse struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total int64              `json:"total"`
}

func (h *Handler) cartResponse() cartResponse {
	lines := h.cart.Lines()
	resp := cartResponse{
		Lines: make([]cartLineResponse, len(lines)),
		Total: h.cart.Total(),
	}
	for i, line := range lines {
		resp.Lines[i] = cartLineResponse{ItemID: line.ItemID, Qty: line.Qty}
	}
	return resp
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.cartResponse())
}

func (h *Handler) addCartLine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"itemId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.cart.AddLine(req.ItemID); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartResponse())
}

func (h *Handler) updateCartLine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.cart.UpdateLine(chi.URLParam(r, "id"), req.Delta); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartResponse())
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.RemoveLine(chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartResponse())
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sales.Commit(r.Context(), h.cart)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, rec)
}
