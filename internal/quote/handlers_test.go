package quote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()
	svc := newTestService(t)
	h := &Handler{Service: svc, Validate: validator.New()}
	r := chi.NewRouter()
	r.Post("/quotes/cart", h.CartQuote)
	r.Post("/quotes/checkout", h.CheckoutQuote)
	r.Get("/products/{id}/price", h.ProductPrice)
	r.Get("/delivery-options", h.DeliveryOptions)
	r.Post("/promos/apply", h.ApplyPromo)
	r.Delete("/promos", h.ClearPromo)
	return r, svc
}

func TestCartQuoteEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"items":[{"productId":"p-tee","quantity":2}],"promoCode":"SAVE10"}`
	req := httptest.NewRequest(http.MethodPost, "/quotes/cart", strings.NewReader(body))
	req.Header.Set(SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			AppliedPromo string `json:"appliedPromo"`
			Totals       struct {
				GrandTotal string `json:"grandTotal"`
			} `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "SAVE10", resp.Data.AppliedPromo)
	require.Equal(t, "116.64", resp.Data.Totals.GrandTotal)
}

func TestCartQuoteEndpointRejectsBadPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, body := range []string{
		`{`,
		`{"items":[]}`,
		`{"items":[{"productId":"p-tee","quantity":0}]}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/quotes/cart", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "payload %s", body)
	}
}

func TestCartQuoteEndpointUnknownProduct(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"items":[{"productId":"ghost","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/quotes/cart", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutQuoteEndpointRequiresDeliveryOption(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"items":[{"productId":"p-tee","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/quotes/checkout", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductPriceEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/products/p-tee/price", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/products/ghost/price", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeliveryOptionsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/delivery-options", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "express")
}

func TestApplyPromoEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/promos/apply", strings.NewReader(`{"code":"SAVE10"}`))
	req.Header.Set(SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	code, ok, err := svc.Ledger.Applied(req.Context(), "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "SAVE10", code)
}

func TestApplyPromoEndpointErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	// missing session
	req := httptest.NewRequest(http.MethodPost, "/promos/apply", strings.NewReader(`{"code":"SAVE10"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown code
	req = httptest.NewRequest(http.MethodPost, "/promos/apply", strings.NewReader(`{"code":"NOPE"}`))
	req.Header.Set(SessionHeader, "sess-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearPromoEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	require.NoError(t, svc.Ledger.Apply(ctx, "sess-1", "SAVE10"))

	req := httptest.NewRequest(http.MethodDelete, "/promos", nil)
	req.Header.Set(SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, ok, err := svc.Ledger.Applied(ctx, "sess-1")
	require.NoError(t, err)
	require.False(t, ok)
}
