package router

import (
	"net/http"
	"time"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	jwtSecret []byte,
	now func() time.Time,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/products", productHandler.List)

	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("DELETE /api/cart", cartHandler.Clear)
	mux.HandleFunc("POST /api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", cartHandler.EditItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", cartHandler.SetQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", cartHandler.RemoveItem)
	mux.HandleFunc("PUT /api/cart/customer", cartHandler.SetCustomer)

	mux.HandleFunc("GET /api/due-dates", orderHandler.DueDates)
	mux.HandleFunc("GET /api/orders", orderHandler.History)
	mux.HandleFunc("POST /api/orders", orderHandler.Place)

	// Apply middleware in order: Recovery -> CorrelationID -> Logging -> CORS -> BearerAuth
	var handler http.Handler = mux
	handler = middleware.BearerAuth(jwtSecret, now, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CorrelationID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
