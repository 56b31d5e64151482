package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Place handles POST /api/orders requests.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	identity, token, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	var req model.PlaceOrderRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	confirmation, err := h.service.PlaceOrder(r.Context(), identity, token, req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, confirmation)
}

// History handles GET /api/orders requests.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	_, token, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.service.History(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// DueDates handles GET /api/due-dates requests.
func (h *OrderHandler) DueDates(w http.ResponseWriter, r *http.Request) {
	_, token, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.DueDates(r.Context(), token))
}
