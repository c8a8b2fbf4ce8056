package catalog

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pricing-api/internal/common"
)

// Handler exposes product listing plus the collaborator feed endpoint.
type Handler struct {
	Store  *Store
	Logger zerolog.Logger
}

// List returns the current product snapshot.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Store.List()})
}

// Get returns one product.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	p, ok := h.Store.Get(id)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": p})
}

// ReplaceFeed ingests a full product feed and swaps the snapshot. The feed is
// normalised up front; one bad record rejects the whole batch so a partial
// snapshot is never installed.
func (h *Handler) ReplaceFeed(w http.ResponseWriter, r *http.Request) {
	var records []FeedRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid feed payload", nil)
		return
	}
	products, err := NormalizeAll(records)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_FEED", err.Error(), nil)
		return
	}
	h.Store.Replace(products)
	h.Logger.Info().Int("products", len(products)).Msg("product feed replaced")
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]int{"ingested": len(products)}})
}
