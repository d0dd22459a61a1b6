// Package domain defines the catalog entities and their invariants.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// mrp and price marshal as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrNotFound is returned when a product does not exist in the store.
var ErrNotFound = errors.New("product not found")

// ErrConstraint is returned when the store rejects a write due to an
// integrity constraint (duplicate key, check violation).
var ErrConstraint = errors.New("constraint violation")

//go:generate go run github.com/hlubek/productcatalog/cmd/generator Product

// Product is a catalog entry, identified by its SKU.
//
// Color and Size are optional; the empty string means absent and is
// persisted as NULL.
type Product struct {
	SKU      string          `col:"sku" json:"sku"`
	Name     string          `col:"name" json:"name"`
	Brand    string          `col:"brand" json:"brand"`
	Color    string          `col:"color,omitempty" json:"color,omitempty"`
	Size     string          `col:"size,omitempty" json:"size,omitempty"`
	MRP      decimal.Decimal `col:"mrp" json:"mrp"`
	Price    decimal.Decimal `col:"price" json:"price"`
	Quantity int             `col:"quantity" json:"quantity"`
}

// Validate checks the field invariants enforced at ingestion time.
func (p Product) Validate() error {
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("sku must not be empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if strings.TrimSpace(p.Brand) == "" {
		return fmt.Errorf("brand must not be empty")
	}
	if p.MRP.IsNegative() {
		return fmt.Errorf("mrp must be non-negative")
	}
	if p.Price.GreaterThan(p.MRP) {
		return fmt.Errorf("price must be less than or equal to mrp")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity must be non-negative")
	}
	return nil
}
