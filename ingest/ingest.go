// Package ingest implements the CSV bulk-load pipeline: parse, validate and
// normalize each row, upsert into the record store, and accumulate a
// per-row report. A failing row never aborts the batch.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/hlubek/productcatalog/domain"
)

var requiredColumns = []string{"sku", "name", "brand", "mrp", "price", "quantity"}

// MalformedInputError means the file as a whole could not be read as UTF-8
// CSV. No rows are processed.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("reading CSV file: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// MissingColumnsError means the header lacks required columns. No rows are
// processed.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// Store is the record store contract the pipeline writes to. Each call must
// be an independent atomic upsert keyed by SKU.
type Store interface {
	Upsert(ctx context.Context, product domain.Product) error
}

// Result reports the outcome of one ingested file. Failed holds one
// human-readable line per rejected row, in file order, each tagged with the
// 1-based file row number (the header is row 1).
type Result struct {
	Stored int      `json:"stored"`
	Failed []string `json:"failed"`
}

// Pipeline ingests CSV files into a Store.
type Pipeline struct {
	store Store
}

func NewPipeline(store Store) *Pipeline {
	return &Pipeline{store: store}
}

// Ingest processes a whole CSV file. It returns a fatal error only when the
// file itself is unreadable (MalformedInputError) or the header is missing
// required columns (MissingColumnsError); row-level failures are collected
// in the result instead. Rows repeating a SKU earlier in the batch simply
// overwrite it, and every committed row counts towards Stored.
func (p *Pipeline) Ingest(ctx context.Context, data []byte) (Result, error) {
	if !utf8.Valid(data) {
		return Result{}, &MalformedInputError{Err: errors.New("content is not valid UTF-8")}
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return Result{}, &MalformedInputError{Err: err}
	}
	if len(records) == 0 {
		return Result{}, &MalformedInputError{Err: errors.New("missing header row")}
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Result{}, &MissingColumnsError{Columns: missing}
	}

	result := Result{Failed: []string{}}
	for i, record := range records[1:] {
		rowNum := i + 2 // header is row 1
		product, err := parseRow(index, record)
		if err != nil {
			result.Failed = append(result.Failed, fmt.Sprintf("Row %d: invalid data format - %v", rowNum, err))
			continue
		}
		if err := p.store.Upsert(ctx, product); err != nil {
			if errors.Is(err, domain.ErrConstraint) {
				result.Failed = append(result.Failed, fmt.Sprintf("Row %d: database error - duplicate SKU or constraint violation", rowNum))
			} else {
				result.Failed = append(result.Failed, fmt.Sprintf("Row %d: %v", rowNum, err))
			}
			continue
		}
		result.Stored++
	}
	return result, nil
}

func parseRow(index map[string]int, record []string) (domain.Product, error) {
	product := domain.Product{
		SKU:   cell(index, record, "sku"),
		Name:  cell(index, record, "name"),
		Brand: cell(index, record, "brand"),
		Color: optionalCell(index, record, "color"),
		Size:  optionalCell(index, record, "size"),
	}

	var err error
	if product.MRP, err = parseMoney(cell(index, record, "mrp")); err != nil {
		return domain.Product{}, fmt.Errorf("mrp: %w", err)
	}
	if product.Price, err = parseMoney(cell(index, record, "price")); err != nil {
		return domain.Product{}, fmt.Errorf("price: %w", err)
	}
	if product.Quantity, err = parseQuantity(cell(index, record, "quantity")); err != nil {
		return domain.Product{}, fmt.Errorf("quantity: %w", err)
	}
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func cell(index map[string]int, record []string, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// optionalCell maps blank and "NaN" cells to the empty string, the absent
// marker for optional attributes.
func optionalCell(index map[string]int, record []string, column string) string {
	v := cell(index, record, column)
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

// parseMoney strips the ₹ currency symbol and thousands-separator commas
// before parsing a decimal amount.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errors.New("value is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseQuantity parses the cell as a float and truncates to an integer,
// so a quantity of "5.0" or "5.7" both load as 5.
func parseQuantity(s string) (int, error) {
	if s == "" {
		return 0, errors.New("value is empty")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return int(f), nil
}
