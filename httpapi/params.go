package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hlubek/productcatalog/domain"
)

// parseFilter builds a domain.Filter from query parameters. Blank values
// impose no constraint, and non-numeric price bounds are treated as absent
// on both the interactive listing and the search endpoint.
func parseFilter(q url.Values) domain.Filter {
	filter := domain.Filter{
		SKU:   strings.TrimSpace(q.Get("sku")),
		Brand: strings.TrimSpace(q.Get("brand")),
		Color: strings.TrimSpace(q.Get("color")),
		Size:  strings.TrimSpace(q.Get("size")),
	}
	filter.MinPrice = decimalParam(q, "min_price")
	filter.MaxPrice = decimalParam(q, "max_price")
	return filter
}

func decimalParam(q url.Values, key string) *decimal.Decimal {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

// positiveIntParam reads an integer query parameter that must be >= 1 when
// present, falling back to def when absent.
func positiveIntParam(q url.Values, key string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}
