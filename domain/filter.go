package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Filter holds the optional listing/search parameters. Zero-value fields
// impose no constraint; a product matches when all supplied fields match.
type Filter struct {
	SKU      string
	Brand    string
	Color    string
	Size     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// IsZero reports whether the filter constrains anything at all.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.SKU) == "" &&
		strings.TrimSpace(f.Brand) == "" &&
		strings.TrimSpace(f.Color) == "" &&
		strings.TrimSpace(f.Size) == "" &&
		f.MinPrice == nil && f.MaxPrice == nil
}

// Matches evaluates the filter as a pure predicate over a product.
//
// SKU matches on a case-insensitive substring. Brand, color and size also
// remove internal whitespace from both sides before comparing, so the query
// "Nike Air" matches a stored "NikeAir". Price bounds are inclusive.
func (f Filter) Matches(p Product) bool {
	if term := strings.TrimSpace(f.SKU); term != "" {
		if !strings.Contains(strings.ToLower(p.SKU), strings.ToLower(term)) {
			return false
		}
	}
	if !containsSquashed(p.Brand, f.Brand) {
		return false
	}
	if !containsSquashed(p.Color, f.Color) {
		return false
	}
	if !containsSquashed(p.Size, f.Size) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// Squash normalizes a term for whitespace-insensitive comparison: lowercased
// with all spaces removed.
func Squash(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func containsSquashed(stored, term string) bool {
	t := Squash(term)
	if t == "" {
		return true
	}
	return strings.Contains(Squash(stored), t)
}
