package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"storefront/internal/catalog"
	"storefront/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

// Writes a sample catalogue snapshot for local runs with
// CATALOG_SNAPSHOT_PATH=data/catalog/catalog.json.gz. Product 4 is masked
// and must not appear in the served catalogue.
func main() {
	dataDir := "data/catalog"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []model.Product{
		{ID: 1, Name: "Toned Milk 500ml", Brand: "Amul", Category: "Dairy", Price: 30, DiscountPrice: floatPtr(28), MinSellingPrice: floatPtr(25), GSTRate: 5},
		{ID: 2, Name: "Butter 100g", Brand: "Amul", Category: "Dairy", Price: 58, MinSellingPrice: floatPtr(50), GSTRate: 12},
		{ID: 3, Name: "Whole Wheat Bread", Brand: "Britannia", Category: "Bakery", Price: 45},
		{ID: 4, Name: "Processed Cheese", Brand: "Amul", Category: "Dairy", Price: 120, EnableProduct: model.ProductStatusMask},
		{ID: 5, Name: "Marie Biscuits", Brand: "Britannia", Category: "Snacks", Price: 35, GSTRate: 18, EnableProduct: model.ProductStatusInactive},
	}

	filePath := filepath.Join(dataDir, catalog.SnapshotName)
	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}
	defer file.Close()

	if err := catalog.WriteSnapshot(file, products); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}

	fmt.Printf("Created %s with %d products (%d visible)\n", filePath, len(products), len(catalog.Visible(products)))
}
