package model

import "math"

// MaxQuantity bounds the quantity of a single line.
const MaxQuantity = math.MaxInt32

// LineItem is one product entry in a cart.
type LineItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	GSTRate   float64 `json:"gst_rate"`
}

// Customer is the customer an order is placed for.
type Customer struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
}

// Cart holds pending line items and the selected customer.
// Items are unique by ProductID and keep insertion order.
type Cart struct {
	Items    []LineItem `json:"items"`
	Customer *Customer  `json:"customer"`
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartResponse is the cart view returned to the UI.
type CartResponse struct {
	Items     []LineItem `json:"items"`
	Customer  *Customer  `json:"customer"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  *int  `json:"quantity,omitempty"`
}

// EditItemRequest carries raw user input from the edit dialog.
type EditItemRequest struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// SetQuantityRequest is the payload for a stepper quantity change.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetCustomerRequest is the payload for selecting the order's customer.
type SetCustomerRequest struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
}
