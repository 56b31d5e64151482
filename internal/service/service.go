package service

import (
	"context"

	"storefront/internal/model"
)

// CatalogService serves the product catalogue.
type CatalogService interface {
	// Products returns the full unmasked catalogue.
	Products(ctx context.Context) ([]model.Product, error)

	// List returns the catalogue filtered for display.
	List(ctx context.Context, filter model.CatalogFilter) (*model.CatalogResponse, error)

	// Lookup returns a single catalogue product.
	Lookup(ctx context.Context, id int64) (*model.Product, error)
}

// CartService manages each owner's persisted cart.
type CartService interface {
	Get(ctx context.Context, owner string) model.CartResponse

	// Snapshot returns the raw cart for order submission.
	Snapshot(ctx context.Context, owner string) model.Cart

	AddItem(ctx context.Context, owner string, productID int64, qty int) (model.CartResponse, error)
	RemoveItem(ctx context.Context, owner string, productID int64) (model.CartResponse, error)
	SetQuantity(ctx context.Context, owner string, productID int64, qty int) (model.CartResponse, error)

	// EditItem validates raw dialog input against the role's pricing policy
	// and the catalogue bounds before overwriting price and quantity.
	EditItem(ctx context.Context, owner, role string, productID int64, req model.EditItemRequest) (model.CartResponse, error)

	SetCustomer(ctx context.Context, owner string, customer model.Customer) (model.CartResponse, error)
	Clear(ctx context.Context, owner string) model.CartResponse

	// ClearOrdered removes the lines and customer of a placed order from the
	// cart, leaving anything added since the order was snapshotted.
	ClearOrdered(ctx context.Context, owner string, ordered model.Cart) model.CartResponse
}

// OrderService places orders and reads order history.
type OrderService interface {
	// DueDates returns the selectable due-date window.
	DueDates(ctx context.Context, token string) model.DueDateWindow

	// PlaceOrder submits the caller's cart and clears it on success.
	PlaceOrder(ctx context.Context, identity model.Identity, token string, req model.PlaceOrderRequest) (*model.OrderConfirmation, error)

	// History lists the caller's orders with customer names resolved.
	History(ctx context.Context, token string) ([]model.OrderSummary, error)
}
