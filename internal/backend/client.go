// Package backend is the HTTP client for the upstream REST backend that owns
// products, customers, orders and client configuration.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// CorrelationHeader carries the request correlation id to the backend.
const CorrelationHeader = "X-Correlation-ID"

const (
	genericFailure = "Backend request failed"
	maxBodyBytes   = 4 << 20
)

// Client calls the backend. Every call is a single attempt bounded by the
// client timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a backend client for baseURL.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("service", "backend").Logger(),
	}
}

// FetchProducts returns the full product catalogue.
func (c *Client) FetchProducts(ctx context.Context, token string) ([]model.Product, error) {
	var products []model.Product
	if err := c.getList(ctx, "fetch products", "/products", token, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListOrders returns the caller's order history.
func (c *Client) ListOrders(ctx context.Context, token string) ([]model.OrderSummary, error) {
	var orders []model.OrderSummary
	if err := c.getList(ctx, "list orders", "/orders", token, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetCustomer looks up a single customer.
func (c *Client) GetCustomer(ctx context.Context, token string, id int64) (*model.Customer, error) {
	path := "/customers/" + strconv.FormatInt(id, 10)
	raw, err := c.do(ctx, "get customer", http.MethodGet, path, token, nil, genericFailure)
	if err != nil {
		return nil, err
	}

	var customer model.Customer
	if err := decodeObject(raw, &customer); err != nil {
		return nil, &model.NetworkError{Op: "get customer", Message: "invalid response body", Err: err}
	}
	if customer.CustomerID == 0 {
		customer.CustomerID = id
	}
	return &customer, nil
}

// DueDateConfig returns the due-date configuration of licenseID. Absent
// fields are left nil for the caller to default.
func (c *Client) DueDateConfig(ctx context.Context, token, licenseID string) (*model.DueDateConfigResponse, error) {
	path := "/clients/" + url.PathEscape(licenseID) + "/due-config"
	raw, err := c.do(ctx, "due-date config", http.MethodGet, path, token, nil, genericFailure)
	if err != nil {
		return nil, err
	}

	var cfg model.DueDateConfigResponse
	if err := decodeObject(raw, &cfg); err != nil {
		return nil, &model.NetworkError{Op: "due-date config", Message: "invalid response body", Err: err}
	}
	return &cfg, nil
}

// orderEnvelope is the backend's order placement response.
type orderEnvelope struct {
	Success *bool           `json:"success"`
	OK      *bool           `json:"ok"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// PlaceOrder submits an order. A 2xx response whose body carries
// success=false or ok=false is treated as a rejection.
func (c *Client) PlaceOrder(ctx context.Context, token string, req model.OrderSubmissionRequest) (*model.OrderConfirmation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	raw, err := c.do(ctx, "place order", http.MethodPost, "/orders", token, body, model.MsgOrderFailed)
	if err != nil {
		return nil, err
	}

	var env orderEnvelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &model.NetworkError{Op: "place order", Message: "invalid response body", Err: err}
		}
	}

	if (env.Success != nil && !*env.Success) || (env.OK != nil && !*env.OK) {
		msg := firstNonEmpty(env.Message, env.Error, model.MsgOrderFailed)
		return nil, &model.NetworkError{Op: "place order", Status: http.StatusOK, Message: msg}
	}

	c.logger.Info().
		Int64("customer_id", req.CustomerID).
		Str("order_type", string(req.OrderType)).
		Int("lines", len(req.Products)).
		Msg("order accepted by backend")

	return &model.OrderConfirmation{Message: env.Message, Data: env.Data}, nil
}

func (c *Client) getList(ctx context.Context, op, path, token string, out interface{}) error {
	raw, err := c.do(ctx, op, http.MethodGet, path, token, nil, genericFailure)
	if err != nil {
		return err
	}
	if err := decodeList(raw, out); err != nil {
		return &model.NetworkError{Op: op, Message: "invalid response body", Err: err}
	}
	return nil
}

// do performs one request and returns the body of a 2xx response. Missing
// tokens fail before any network traffic.
func (c *Client) do(ctx context.Context, op, method, path, token string, body []byte, fallback string) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no token for %s", model.ErrUnauthenticated, op)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := auth.CorrelationIDFrom(ctx); id != "" {
		req.Header.Set(CorrelationHeader, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Msg("backend unreachable")
		return nil, &model.NetworkError{Op: op, Message: "backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &model.NetworkError{Op: op, Status: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	c.logger.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend call")

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: backend rejected token for %s (status %d)", model.ErrUnauthenticated, op, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &model.NetworkError{Op: op, Status: resp.StatusCode, Message: errorMessage(raw, fallback)}
	}

	return raw, nil
}

// errorMessage extracts "message" or "error" from a JSON error body.
func errorMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}
	return firstNonEmpty(body.Message, body.Error, fallback)
}

// decodeList accepts a bare JSON array or an object wrapping it in "data".
func decodeList(raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return err
		}
		trimmed = env.Data
	}
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	return json.Unmarshal(trimmed, out)
}

// decodeObject accepts a bare JSON object or one wrapped in "data".
func decodeObject(raw []byte, out interface{}) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	if len(env.Data) > 0 && env.Data[0] == '{' {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(raw, out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
