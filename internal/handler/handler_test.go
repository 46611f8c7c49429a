package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/atelier-pos/internal/domain/cart"
	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/ledger"
	"github.com/xenking/atelier-pos/internal/domain/pricing"
	"github.com/xenking/atelier-pos/internal/domain/sales"
	"github.com/xenking/atelier-pos/internal/domain/settings"
)

func newTestHandler(t *testing.T) (*Handler, *inventory.Store, *ledger.Store) {
	t.Helper()
	inv := inventory.NewStore([]inventory.Item{
		{ID: "postcard", Category: "paper", Name: "Postcard", Cost: 15, Price: 50, Quantity: 10,
			Discounts: []pricing.Tier{{Qty: 5, Price: 200}, {Qty: 3, Price: 130}}},
		{ID: "tote", Category: "goods", Name: "Tote bag", Cost: 100, Price: 350, Quantity: 2},
	}, []string{"paper", "goods", "paint"}, nil)
	led := ledger.NewStore(nil)
	c := cart.New(inv)
	svc := sales.NewService(inv, led, nil, nil)
	h := New(inv, c, svc, led, settings.NewStore("Watercolor Shop POS"))
	return h, inv, led
}

func doJSON(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestListItems(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []inventory.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "postcard", items[0].ID)
}

func TestAddItem_Validation(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := doJSON(t, h, http.MethodPost, "/items", map[string]any{"category": "paper"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutFlow(t *testing.T) {
	h, inv, led := newTestHandler(t)

	for range 8 {
		rec := doJSON(t, h, http.MethodPost, "/cart/lines", map[string]string{"itemId": "postcard"})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, h, http.MethodGet, "/cart", nil)
	var cartResp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartResp))
	assert.Equal(t, int64(330), cartResp.Total)

	rec = doJSON(t, h, http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale ledger.SaleRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	assert.Equal(t, int64(330), sale.Total)

	it, err := inv.Get("postcard")
	require.NoError(t, err)
	assert.Equal(t, 2, it.Quantity)
	assert.Len(t, led.Records(), 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := doJSON(t, h, http.MethodPost, "/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAdd_OutOfStock(t *testing.T) {
	h, inv, _ := newTestHandler(t)
	require.NoError(t, inv.SetQuantity("tote", 0))

	rec := doJSON(t, h, http.MethodPost, "/cart/lines", map[string]string{"itemId": "tote"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRenameCategory_Conflict(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := doJSON(t, h, http.MethodPut, "/categories/paper", map[string]string{"name": "goods"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteCategory_InUse(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := doJSON(t, h, http.MethodDelete, "/categories/paper", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/categories/paint", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEditSale_InsufficientStock(t *testing.T) {
	h, _, _ := newTestHandler(t)

	for range 8 {
		doJSON(t, h, http.MethodPost, "/cart/lines", map[string]string{"itemId": "postcard"})
	}
	rec := doJSON(t, h, http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sale ledger.SaleRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))

	rec = doJSON(t, h, http.MethodPatch, "/sales/"+sale.ID, map[string]any{
		"changes": []map[string]any{{"itemId": "postcard", "delta": 5}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/sales/"+sale.ID, map[string]any{
		"changes": []map[string]any{{"itemId": "postcard", "delta": -3}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated ledger.SaleRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, int64(200), updated.Total)
}

func TestDeleteSale_RestoresStock(t *testing.T) {
	h, inv, led := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/cart/lines", map[string]string{"itemId": "tote"})
	rec := doJSON(t, h, http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sale ledger.SaleRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))

	rec = doJSON(t, h, http.MethodDelete, "/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	it, err := inv.Get("tote")
	require.NoError(t, err)
	assert.Equal(t, 2, it.Quantity)
	assert.Empty(t, led.Records())
}

func TestExportCSV(t *testing.T) {
	h, _, _ := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/cart/lines", map[string]string{"itemId": "tote"})
	doJSON(t, h, http.MethodPost, "/checkout", nil)

	rec := doJSON(t, h, http.MethodGet, "/report/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "\ufeff"))
	assert.Contains(t, body, "Tote bag")
}

func TestTitle(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPut, "/title", map[string]string{"title": "Brush & Paper"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/title", nil)
	assert.JSONEq(t, `{"title":"Brush & Paper"}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodPut, "/title", map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	h, _, _ := newTestHandler(t)
	protected := APIKeyAuth("secret", "pepper")(h.Routes())

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("api_key", "secret")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	h, _, _ := newTestHandler(t)
	open := APIKeyAuth("", "pepper")(h.Routes())

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
