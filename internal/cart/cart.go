// Package cart implements the cart value and its pure mutations. Every
// operation returns a new Cart and leaves its input untouched, so callers can
// hold a snapshot while a mutated copy is being persisted.
package cart

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Clear returns an empty cart with no customer selected.
func Clear() model.Cart {
	return model.Cart{Items: []model.LineItem{}}
}

// AddItem adds qty units of product. A product already in the cart has its
// quantity incremented instead of gaining a second line, capped at
// model.MaxQuantity.
func AddItem(c model.Cart, product model.Product, qty int) model.Cart {
	next := clone(c)
	for i := range next.Items {
		if next.Items[i].ProductID == product.ID {
			next.Items[i].Quantity = addQuantity(next.Items[i].Quantity, qty)
			return next
		}
	}

	next.Items = append(next.Items, model.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.SellingPrice(),
		Quantity:  qty,
		GSTRate:   product.GSTRate,
	})
	return next
}

// RemoveItem drops the line for productID, if any.
func RemoveItem(c model.Cart, productID int64) model.Cart {
	next := clone(c)
	items := next.Items[:0]
	for _, item := range next.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	next.Items = items
	return next
}

// SetQuantity replaces the quantity of productID. A quantity of zero or less
// removes the line.
func SetQuantity(c model.Cart, productID int64, qty int) model.Cart {
	if qty <= 0 {
		return RemoveItem(c, productID)
	}

	next := clone(c)
	for i := range next.Items {
		if next.Items[i].ProductID == productID {
			next.Items[i].Quantity = qty
		}
	}
	return next
}

// SetPriceAndQuantity overwrites both fields of productID. Callers validate
// the values first.
func SetPriceAndQuantity(c model.Cart, productID int64, price float64, qty int) model.Cart {
	next := clone(c)
	for i := range next.Items {
		if next.Items[i].ProductID == productID {
			next.Items[i].Price = price
			next.Items[i].Quantity = qty
		}
	}
	return next
}

// RemoveOrdered takes the lines of ordered out of c. Each ordered quantity is
// subtracted from the matching line and lines that reach zero are dropped, so
// anything added after ordered was taken stays in the cart. The customer is
// deselected only if it is still the one ordered for.
func RemoveOrdered(c, ordered model.Cart) model.Cart {
	next := clone(c)
	for _, done := range ordered.Items {
		for i := range next.Items {
			if next.Items[i].ProductID == done.ProductID {
				next.Items[i].Quantity -= done.Quantity
			}
		}
	}

	items := next.Items[:0]
	for _, item := range next.Items {
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}
	next.Items = items

	if next.Customer != nil && ordered.Customer != nil && next.Customer.CustomerID == ordered.Customer.CustomerID {
		next.Customer = nil
	}
	return next
}

// SetCustomer selects the customer the cart will be ordered for. Nil clears
// the selection.
func SetCustomer(c model.Cart, customer *model.Customer) model.Cart {
	next := clone(c)
	if customer == nil {
		next.Customer = nil
		return next
	}
	selected := *customer
	next.Customer = &selected
	return next
}

// Find returns the line for productID.
func Find(c model.Cart, productID int64) (model.LineItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return model.LineItem{}, false
}

// Total is the sum of price times quantity over all lines.
func Total(c model.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func ItemCount(c model.Cart) int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Response builds the UI view of c.
func Response(c model.Cart) model.CartResponse {
	items := c.Items
	if items == nil {
		items = []model.LineItem{}
	}
	return model.CartResponse{
		Items:     items,
		Customer:  c.Customer,
		Total:     Total(c).InexactFloat64(),
		ItemCount: ItemCount(c),
	}
}

// CanAdd reports whether qty more units of productID fit under
// model.MaxQuantity.
func CanAdd(c model.Cart, productID int64, qty int) bool {
	item, ok := Find(c, productID)
	if !ok {
		return qty <= model.MaxQuantity
	}
	return qty <= model.MaxQuantity-item.Quantity
}

func addQuantity(have, qty int) int {
	if qty > model.MaxQuantity-have {
		return model.MaxQuantity
	}
	return have + qty
}

func clone(c model.Cart) model.Cart {
	next := model.Cart{
		Items: make([]model.LineItem, len(c.Items), len(c.Items)+1),
	}
	copy(next.Items, c.Items)
	if c.Customer != nil {
		customer := *c.Customer
		next.Customer = &customer
	}
	return next
}
