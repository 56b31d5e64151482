package model

// ProductStatus controls whether a product is offered in the catalogue.
type ProductStatus string

const (
	// ProductStatusNone is an ordinary purchasable product.
	ProductStatusNone ProductStatus = "None"
	// ProductStatusInactive is offered but flagged as non-purchasable by the UI.
	ProductStatusInactive ProductStatus = "Inactive"
	// ProductStatusMask removes the product from the catalogue at load time.
	ProductStatusMask ProductStatus = "Mask"
)

// Product represents a catalogue product as served by the backend.
type Product struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Brand           string        `json:"brand"`
	Category        string        `json:"category"`
	Price           float64       `json:"price"`
	DiscountPrice   *float64      `json:"discountPrice,omitempty"`
	MinSellingPrice *float64      `json:"min_selling_price,omitempty"`
	GSTRate         float64       `json:"gst_rate"`
	EnableProduct   ProductStatus `json:"enable_product,omitempty"`
}

// SellingPrice returns the discount price when one is set, otherwise the list price.
func (p Product) SellingPrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice != 0 {
		return *p.DiscountPrice
	}
	return p.Price
}

// Masked reports whether the product must be hidden from the catalogue.
func (p Product) Masked() bool {
	return p.EnableProduct == ProductStatusMask
}

// CatalogFilter narrows the catalogue view. Empty Brand or Category means
// no filter on that axis.
type CatalogFilter struct {
	Search   string
	Brand    string
	Category string
}

// CatalogResponse is the filtered catalogue returned to the UI together with
// the brand and category choices of the full catalogue.
type CatalogResponse struct {
	Products   []Product `json:"products"`
	Brands     []string  `json:"brands"`
	Categories []string  `json:"categories"`
	Count      int       `json:"count"`
}
