package service

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/rs/zerolog"
)

// cartService implements CartService. Each mutation runs load, mutate and
// save under the owner's lock.
type cartService struct {
	store          *cart.Store
	catalog        CatalogService
	priceEditRoles []string
	locks          *ownerLocks
	logger         zerolog.Logger
}

// NewCartService creates a cart service. priceEditRoles lists the roles
// allowed to override line prices.
func NewCartService(store *cart.Store, catalog CatalogService, priceEditRoles []string, logger zerolog.Logger) CartService {
	return &cartService{
		store:          store,
		catalog:        catalog,
		priceEditRoles: priceEditRoles,
		locks:          newOwnerLocks(),
		logger:         logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, owner string) model.CartResponse {
	return cart.Response(s.Snapshot(ctx, owner))
}

func (s *cartService) Snapshot(ctx context.Context, owner string) model.Cart {
	unlock := s.locks.lock(owner)
	defer unlock()
	return s.store.Load(ctx, owner)
}

// AddItem adds qty of a catalogue product, merging with an existing line.
// The merged quantity may not exceed model.MaxQuantity.
func (s *cartService) AddItem(ctx context.Context, owner string, productID int64, qty int) (model.CartResponse, error) {
	if qty <= 0 || qty > model.MaxQuantity {
		return model.CartResponse{}, model.NewValidationError(model.MsgInvalidQuantity)
	}

	product, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return model.CartResponse{}, err
	}

	c, err := s.mutate(ctx, owner, func(c model.Cart) (model.Cart, error) {
		if !cart.CanAdd(c, productID, qty) {
			return c, model.NewValidationError(model.MsgInvalidQuantity)
		}
		return cart.AddItem(c, *product, qty), nil
	})
	if err != nil {
		return model.CartResponse{}, err
	}

	s.logger.Debug().
		Str("owner", owner).
		Int64("product_id", productID).
		Int("quantity", qty).
		Msg("item added")

	return cart.Response(c), nil
}

func (s *cartService) RemoveItem(ctx context.Context, owner string, productID int64) (model.CartResponse, error) {
	c, err := s.mutate(ctx, owner, func(c model.Cart) (model.Cart, error) {
		if _, ok := cart.Find(c, productID); !ok {
			return c, model.ErrItemNotInCart
		}
		return cart.RemoveItem(c, productID), nil
	})
	if err != nil {
		return model.CartResponse{}, err
	}
	return cart.Response(c), nil
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
func (s *cartService) SetQuantity(ctx context.Context, owner string, productID int64, qty int) (model.CartResponse, error) {
	c, err := s.mutate(ctx, owner, func(c model.Cart) (model.Cart, error) {
		if _, ok := cart.Find(c, productID); !ok {
			return c, model.ErrItemNotInCart
		}
		return cart.SetQuantity(c, productID, qty), nil
	})
	if err != nil {
		return model.CartResponse{}, err
	}
	return cart.Response(c), nil
}

// EditItem applies the edit dialog. Price input is ignored unless role may
// edit prices.
func (s *cartService) EditItem(ctx context.Context, owner, role string, productID int64, req model.EditItemRequest) (model.CartResponse, error) {
	policy := pricing.PolicyFor(role, s.priceEditRoles)

	products, err := s.catalog.Products(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Int64("product_id", productID).Msg("validating edit without catalogue bounds")
		products = nil
	}

	c, err := s.mutate(ctx, owner, func(c model.Cart) (model.Cart, error) {
		item, ok := cart.Find(c, productID)
		if !ok {
			return c, model.ErrItemNotInCart
		}

		product := model.Product{ID: item.ProductID, Name: item.Name, Price: item.Price}
		edit, messages := pricing.ParseEdit(product, req.Price, req.Quantity, policy.PriceEditAllowed, products)
		if len(messages) > 0 {
			return c, model.NewValidationError(messages...)
		}

		price := item.Price
		if policy.PriceEditAllowed {
			price = edit.Price
		}
		return cart.SetPriceAndQuantity(c, productID, price, edit.Quantity), nil
	})
	if err != nil {
		return model.CartResponse{}, err
	}

	s.logger.Debug().
		Str("owner", owner).
		Int64("product_id", productID).
		Bool("price_edit_allowed", policy.PriceEditAllowed).
		Msg("item edited")

	return cart.Response(c), nil
}

func (s *cartService) SetCustomer(ctx context.Context, owner string, customer model.Customer) (model.CartResponse, error) {
	if customer.CustomerID <= 0 {
		return model.CartResponse{}, model.NewValidationError(model.MsgNoCustomer)
	}

	c, _ := s.mutate(ctx, owner, func(c model.Cart) (model.Cart, error) {
		return cart.SetCustomer(c, &customer), nil
	})

	s.logger.Debug().Str("owner", owner).Int64("customer_id", customer.CustomerID).Msg("customer selected")
	return cart.Response(c), nil
}

// Clear empties the cart and deselects the customer.
func (s *cartService) Clear(ctx context.Context, owner string) model.CartResponse {
	c, _ := s.mutate(ctx, owner, func(model.Cart) (model.Cart, error) {
		return cart.Clear(), nil
	})
	s.logger.Debug().Str("owner", owner).Msg("cart cleared")
	return cart.Response(c)
}

// ClearOrdered removes what ordered contained from owner's cart, keeping
// anything added while the order was being submitted.
func (s *cartService) ClearOrdered(ctx context.Context, owner string, ordered model.Cart) model.CartResponse {
	c, _ := s.mutate(ctx, owner, func(c model.Cart) (model.Cart, error) {
		return cart.RemoveOrdered(c, ordered), nil
	})
	s.logger.Debug().Str("owner", owner).Int("remaining_items", len(c.Items)).Msg("ordered lines cleared")
	return cart.Response(c)
}

// mutate loads owner's cart, applies fn and saves the result. When fn fails
// nothing is saved.
func (s *cartService) mutate(ctx context.Context, owner string, fn func(model.Cart) (model.Cart, error)) (model.Cart, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	next, err := fn(s.store.Load(ctx, owner))
	if err != nil {
		return model.Cart{}, err
	}

	s.store.Save(ctx, owner, next)
	return next, nil
}
