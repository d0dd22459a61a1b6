package repository

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/hlubek/productcatalog/domain"
)

// filterPredicates compiles a domain.Filter into conjunctive SQL predicates.
// The brand/color/size terms compare case-insensitively with internal
// whitespace removed on both sides, matching domain.Filter.Matches.
func filterPredicates(filter domain.Filter) []squirrel.Sqlizer {
	var preds []squirrel.Sqlizer
	if term := strings.TrimSpace(filter.SKU); term != "" {
		preds = append(preds, squirrel.ILike{"sku": "%" + term + "%"})
	}
	for _, f := range []struct {
		column string
		term   string
	}{
		{"brand", filter.Brand},
		{"color", filter.Color},
		{"size", filter.Size},
	} {
		if term := domain.Squash(f.term); term != "" {
			preds = append(preds, squirrel.Expr(
				"replace(lower("+f.column+"), ' ', '') LIKE ?",
				"%"+term+"%",
			))
		}
	}
	if filter.MinPrice != nil {
		preds = append(preds, squirrel.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		preds = append(preds, squirrel.LtOrEq{"price": *filter.MaxPrice})
	}
	return preds
}
