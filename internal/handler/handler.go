package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/auth"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response carrying the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, messages []string, logger zerolog.Logger) {
	correlationID := auth.CorrelationIDFrom(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("correlation_id", correlationID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		Messages:      messages,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps a service error onto an HTTP status and error code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var (
		validationErr *model.ValidationError
		domainErr     *model.DomainError
		networkErr    *model.NetworkError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, validationErr.Error(), validationErr.Messages, logger)
	case errors.Is(err, model.ErrUnauthenticated):
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrUnauthenticated.Error(), nil, logger)
	case errors.As(err, &domainErr):
		writeError(w, r, http.StatusNotFound, domainErr.Code, domainErr.Message, nil, logger)
	case errors.As(err, &networkErr):
		logger.Error().Err(err).Str("correlation_id", auth.CorrelationIDFrom(r.Context())).Msg("backend call failed")
		writeError(w, r, http.StatusBadGateway, model.ErrCodeUpstream, networkErr.Message, nil, logger)
	default:
		logger.Error().Err(err).Str("correlation_id", auth.CorrelationIDFrom(r.Context())).Msg("unexpected error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", nil, logger)
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", nil, logger)
		return false
	}
	return true
}

// productID reads the {id} path value.
func productID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return id, nil
}

// caller returns the authenticated identity and token, writing a 401 when
// the request carries none.
func caller(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (model.Identity, string, bool) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrUnauthenticated.Error(), nil, logger)
		return model.Identity{}, "", false
	}
	token, _ := auth.TokenFrom(r.Context())
	return identity, token, true
}
