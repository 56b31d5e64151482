package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	Messages      []string `json:"messages,omitempty"`
	CorrelationID string   `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidation       = "VALIDATION_FAILED"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeItemNotInCart    = "ITEM_NOT_IN_CART"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// Validation messages shown to the user verbatim.
const (
	MsgInvalidPrice         = "Please enter a valid price"
	MsgInvalidQuantity      = "Please enter a valid quantity"
	MsgPriceOutOfRangeFmt   = "Price must be between %s and %s"
	MsgEmptyCart            = "Your cart is empty"
	MsgNoCustomer           = "Please select a customer"
	MsgInvalidDueDate       = "Please select a valid due date"
	MsgSubmissionInProgress = "Order submission already in progress"
	MsgOrderFailed          = "Failed to place order"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrItemNotInCart   = NewDomainError(ErrCodeItemNotInCart, "Item not in cart")
)

// ErrUnauthenticated is returned when the bearer token is missing, malformed,
// expired, or rejected by the backend.
var ErrUnauthenticated = errors.New("authentication required")

// ValidationError carries user-facing messages for input rejected locally.
type ValidationError struct {
	Messages []string
}

// NewValidationError creates a validation error from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NetworkError is a failed or rejected call to the backend.
// Status is zero when no response was received.
type NetworkError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
