package catalog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pricing-api/internal/money"
)

func newFeedRouter(t *testing.T) (*chi.Mux, *Store) {
	t.Helper()
	store := NewStore()
	h := &Handler{Store: store, Logger: zerolog.Nop()}
	r := chi.NewRouter()
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Get)
	r.Put("/admin/feeds/products", h.ReplaceFeed)
	return r, store
}

func TestReplaceFeedInstallsSnapshot(t *testing.T) {
	router, store := newFeedRouter(t)

	body := `[
		{"id":"p-1","categoryId":"apparel","basePrice":"19.99","stock":4},
		{"id":"p-2","categoryId":"home","price":"7.5","stockQty":2}
	]`
	req := httptest.NewRequest(http.MethodPut, "/admin/feeds/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, store.Len())
	p, ok := store.Get("p-2")
	require.True(t, ok)
	require.True(t, p.BasePrice.Equal(money.MustParse("7.5")))
	require.Equal(t, 2, p.Stock)
}

func TestReplaceFeedRejectsWholeBatchOnBadRecord(t *testing.T) {
	router, store := newFeedRouter(t)
	store.Replace([]Product{{ID: "keep", BasePrice: money.MustParse("1")}})

	body := `[
		{"id":"p-1","basePrice":"19.99"},
		{"id":"","basePrice":"5"}
	]`
	req := httptest.NewRequest(http.MethodPut, "/admin/feeds/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	// previous snapshot stays intact
	require.Equal(t, 1, store.Len())
	_, ok := store.Get("keep")
	require.True(t, ok)
}

func TestProductEndpoints(t *testing.T) {
	router, store := newFeedRouter(t)
	store.Replace([]Product{{ID: "p-1", BasePrice: money.MustParse("19.99")}})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "p-1")

	req = httptest.NewRequest(http.MethodGet, "/products/p-1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/products/nope", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
