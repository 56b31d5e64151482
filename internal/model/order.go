package model

import (
	"encoding/json"
	"time"
)

// OrderType is the delivery shift an order is placed for.
type OrderType string

const (
	OrderTypeAM OrderType = "AM"
	OrderTypePM OrderType = "PM"
)

// OrderSubmissionRequest is the payload sent to the order placement endpoint.
type OrderSubmissionRequest struct {
	CustomerID int64       `json:"customer_id"`
	OrderType  OrderType   `json:"order_type"`
	Products   []OrderLine `json:"products"`
	EnteredBy  string      `json:"entered_by"`
	DueOn      string      `json:"due_on"`
}

// OrderLine is a single product in an order submission.
type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	GSTRate   float64 `json:"gst_rate"`
}

// OrderConfirmation is what the backend returns for an accepted order.
type OrderConfirmation struct {
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// PlaceOrderRequest is the UI payload for placing the current cart.
type PlaceOrderRequest struct {
	DueOn string `json:"due_on"`
}

// OrderSummary is a row of the order history.
type OrderSummary struct {
	OrderID      int64     `json:"order_id"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	OrderType    OrderType `json:"order_type"`
	DueOn        string    `json:"due_on"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}
