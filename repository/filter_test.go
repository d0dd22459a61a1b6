package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlubek/productcatalog/domain"
)

func TestFilterPredicatesEmptyFilter(t *testing.T) {
	assert.Empty(t, filterPredicates(domain.Filter{}))
	assert.Empty(t, filterPredicates(domain.Filter{Brand: "   ", SKU: "  "}))
}

func TestFilterPredicatesSKU(t *testing.T) {
	preds := filterPredicates(domain.Filter{SKU: " A1 "})
	require.Len(t, preds, 1)

	sqlStr, args, err := preds[0].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "sku ILIKE ?", sqlStr)
	assert.Equal(t, []interface{}{"%A1%"}, args)
}

func TestFilterPredicatesSquashWhitespaceAndCase(t *testing.T) {
	preds := filterPredicates(domain.Filter{Brand: "Nike Air"})
	require.Len(t, preds, 1)

	sqlStr, args, err := preds[0].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "replace(lower(brand), ' ', '') LIKE ?", sqlStr)
	assert.Equal(t, []interface{}{"%nikeair%"}, args)
}

func TestFilterPredicatesPriceBounds(t *testing.T) {
	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(500)
	preds := filterPredicates(domain.Filter{MinPrice: &min, MaxPrice: &max})
	require.Len(t, preds, 2)

	sqlStr, args, err := preds[0].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "price >= ?", sqlStr)
	require.Len(t, args, 1)
	assert.True(t, args[0].(decimal.Decimal).Equal(min))

	sqlStr, _, err = preds[1].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "price <= ?", sqlStr)
}

func TestFilterPredicatesAreConjunctive(t *testing.T) {
	min := decimal.NewFromInt(100)
	preds := filterPredicates(domain.Filter{SKU: "A", Brand: "nike", Color: "red", Size: "42", MinPrice: &min})
	assert.Len(t, preds, 5)
}
