package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests for the authenticated caller.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Get(r.Context(), identity.Owner()))
}

// AddItem handles POST /api/cart/items requests. Quantity defaults to 1.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.ProductID <= 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "product_id is required", nil, h.logger)
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	resp, err := h.service.AddItem(r.Context(), identity.Owner(), req.ProductID, qty)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// EditItem handles PUT /api/cart/items/{id} requests from the edit dialog.
func (h *CartHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	id, err := productID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), nil, h.logger)
		return
	}

	var req model.EditItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.EditItem(r.Context(), identity.Owner(), identity.Role, id, req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetQuantity handles PATCH /api/cart/items/{id} requests from the stepper.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	id, err := productID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), nil, h.logger)
		return
	}

	var req model.SetQuantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.SetQuantity(r.Context(), identity.Owner(), id, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	id, err := productID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), nil, h.logger)
		return
	}

	resp, err := h.service.RemoveItem(r.Context(), identity.Owner(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetCustomer handles PUT /api/cart/customer requests.
func (h *CartHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	var req model.SetCustomerRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.SetCustomer(r.Context(), identity.Owner(), model.Customer{
		CustomerID: req.CustomerID,
		Name:       req.Name,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Clear(r.Context(), identity.Owner()))
}
