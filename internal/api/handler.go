// Package api exposes the catalog administration and checkout session
// operations over HTTP. It is a thin surface: every route delegates to the
// domain packages and maps their sentinel errors to status codes.
package api

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/marketlane/checkout/internal/domain/catalog"
	"github.com/marketlane/checkout/internal/domain/order"
)

// Handler serves the pricing API. Catalog and Order are single-owner types
// with no internal locking, so one mutex serializes every operation — the
// handler is the mutual-exclusion wrapper around the shared catalog.
type Handler struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	orders  map[string]*order.Order
}

// NewHandler wraps the given catalog.
func NewHandler(c *catalog.Catalog) *Handler {
	return &Handler{
		catalog: c,
		orders:  make(map[string]*order.Order),
	}
}

// Routes returns the mux with all API routes registered.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/items", h.listItems)
	mux.HandleFunc("POST /api/items", h.registerItem)
	mux.HandleFunc("DELETE /api/items/{name}", h.unregisterItem)
	mux.HandleFunc("PUT /api/items/{name}/price", h.updatePrice)
	mux.HandleFunc("GET /api/items/{name}/price", h.priceItem)

	mux.HandleFunc("PUT /api/items/{name}/markdown", h.setMarkdown)
	mux.HandleFunc("DELETE /api/items/{name}/markdown", h.clearMarkdown)
	mux.HandleFunc("DELETE /api/markdowns", h.clearAllMarkdowns)

	mux.HandleFunc("PUT /api/items/{name}/special", h.setSpecial)
	mux.HandleFunc("DELETE /api/items/{name}/special", h.clearSpecial)
	mux.HandleFunc("DELETE /api/specials", h.clearAllSpecials)

	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("POST /api/orders/{id}/scan", h.scanItem)
	mux.HandleFunc("POST /api/orders/{id}/remove", h.removeItem)
	mux.HandleFunc("POST /api/orders/{id}/recompute", h.recomputeOrder)

	return mux
}

// newOrderID generates a session identifier.
func newOrderID() string {
	return uuid.New().String()
}
