// Package pricing validates line-item edits against catalogue price bounds and
// filters the catalogue for display.
package pricing

import (
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// AllFilter disables a brand or category filter.
const AllFilter = "All"

// Dialog input outside these bounds is rejected before any arithmetic.
const (
	maxInputLen = 32
	maxExponent = 12
)

// Policy holds the role capabilities that change pricing behaviour.
type Policy struct {
	PriceEditAllowed bool
}

// PolicyFor grants price editing when role is one of editRoles.
func PolicyFor(role string, editRoles []string) Policy {
	for _, r := range editRoles {
		if role != "" && strings.EqualFold(r, role) {
			return Policy{PriceEditAllowed: true}
		}
	}
	return Policy{}
}

// Edit is a validated line-item edit. Price is only meaningful when the
// policy allowed price editing.
type Edit struct {
	Price    float64
	Quantity int
}

// ResolveBounds returns the inclusive price range for product. Values from
// the catalogue entry with the same ID take precedence over the product's own.
func ResolveBounds(product model.Product, catalog []model.Product) (lower, upper decimal.Decimal) {
	entry, found := lookup(catalog, product.ID)

	lower = decimal.Zero
	switch {
	case found && entry.MinSellingPrice != nil:
		lower = decimal.NewFromFloat(*entry.MinSellingPrice)
	case product.MinSellingPrice != nil:
		lower = decimal.NewFromFloat(*product.MinSellingPrice)
	}

	switch {
	case found && entry.DiscountPrice != nil:
		upper = decimal.NewFromFloat(*entry.DiscountPrice)
	case product.DiscountPrice != nil:
		upper = decimal.NewFromFloat(*product.DiscountPrice)
	default:
		upper = decimal.NewFromFloat(product.Price)
	}

	return lower, upper
}

// ValidateEdit returns every problem with the edit dialog input. An empty
// result means the edit may be saved.
func ValidateEdit(product model.Product, newPrice, newQty string, priceEditAllowed bool, catalog []model.Product) []string {
	_, errs := ParseEdit(product, newPrice, newQty, priceEditAllowed, catalog)
	return errs
}

// ParseEdit validates like ValidateEdit and also returns the parsed values.
func ParseEdit(product model.Product, newPrice, newQty string, priceEditAllowed bool, catalog []model.Product) (Edit, []string) {
	var (
		edit Edit
		errs []string
	)

	if priceEditAllowed {
		price, ok := parseDecimal(newPrice)
		if !ok || !price.IsPositive() || price.InexactFloat64() <= 0 {
			errs = append(errs, model.MsgInvalidPrice)
		} else {
			lower, upper := ResolveBounds(product, catalog)
			if price.LessThan(lower) || price.GreaterThan(upper) {
				errs = append(errs, fmt.Sprintf(model.MsgPriceOutOfRangeFmt, lower.String(), upper.String()))
			}
			edit.Price = price.InexactFloat64()
		}
	}

	qty, ok := parseQuantity(newQty)
	if !ok {
		errs = append(errs, model.MsgInvalidQuantity)
	}
	edit.Quantity = qty

	return edit, errs
}

// parseQuantity accepts positive whole numbers, including forms like "2.0".
func parseQuantity(raw string) (int, bool) {
	qty, ok := parseDecimal(raw)
	if !ok || !qty.IsInteger() || !qty.IsPositive() {
		return 0, false
	}
	if qty.GreaterThan(decimal.NewFromInt(model.MaxQuantity)) {
		return 0, false
	}
	return int(qty.IntPart()), true
}

// parseDecimal parses dialog input, refusing overlong strings and exponents
// beyond maxExponent in either direction.
func parseDecimal(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxInputLen {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return decimal.Decimal{}, false
	}
	return d, true
}

// FilterCatalog keeps products whose name, brand or category contains term
// (case-insensitive) and that match brand and category exactly. AllFilter
// disables the corresponding axis. Masked products must already be removed.
func FilterCatalog(products []model.Product, term, brand, category string) []model.Product {
	needle := strings.ToLower(strings.TrimSpace(term))

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if brand != AllFilter && p.Brand != brand {
			continue
		}
		if category != AllFilter && p.Category != category {
			continue
		}
		if needle != "" && !matchesTerm(p, needle) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesTerm(p model.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}

// Brands lists the distinct brands in catalogue order, prefixed by AllFilter.
func Brands(products []model.Product) []string {
	return distinct(products, func(p model.Product) string { return p.Brand })
}

// Categories lists the distinct categories in catalogue order, prefixed by AllFilter.
func Categories(products []model.Product) []string {
	return distinct(products, func(p model.Product) string { return p.Category })
}

func distinct(products []model.Product, field func(model.Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	values := []string{AllFilter}
	for _, p := range products {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

func lookup(catalog []model.Product, id int64) (model.Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}
