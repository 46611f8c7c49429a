package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.ledger.History())
}

type editSaleRequest struct {
	Changes []struct {
		ItemID string `json:"itemId"`
		Delta  int    `json:"delta"`
	} `json:"changes"`
}

// editSale applies a batch of line-quantity deltas to a working copy of the
// record and saves it through the reconciler's two-phase stock check.
func (h *Handler) editSale(w http.ResponseWriter, r *http.Request) {
	var req editSaleRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := h.sales.OpenDraft(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	for _, change := range req.Changes {
		draft.Adjust(change.ItemID, change.Delta)
	}
	if err := h.sales.SaveDraft(r.Context(), draft); err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := h.ledger.Get(draft.RecordID())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, rec)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.sales.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusNoContent, nil)
}

func (h *Handler) todayReport(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.ledger.StatsFor(time.Now()))
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("sales-report_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := h.ledger.ExportCSV(w); err != nil {
		zctx.From(r.Context()).Error("export csv", zap.Error(err))
	}
}

func (h *Handler) getTitle(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]string{"title": h.settings.Title()})
}

func (h *Handler) setTitle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.settings.SetTitle(req.Title); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, map[string]string{"title": h.settings.Title()})
}
