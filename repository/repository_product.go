// Package repository persists catalog products in PostgreSQL. All SQL is
// built with squirrel; the column list, insert values and row scanner are
// generated from the domain.Product col tags (see cmd/generator).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/hlubek/productcatalog/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	sku      TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	brand    TEXT NOT NULL,
	color    TEXT,
	size     TEXT,
	mrp      NUMERIC(12,2) NOT NULL CHECK (mrp >= 0),
	price    NUMERIC(12,2) NOT NULL,
	quantity INTEGER NOT NULL CHECK (quantity >= 0)
)`

// psql builds statements with Postgres placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ProductRepository is the record store for products, keyed by SKU.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Migrate creates the products table if it does not exist yet.
func (r *ProductRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating products table: %w", err)
	}
	return nil
}

// Upsert inserts the product or overwrites all mutable fields of the row
// with the same SKU. The write is a single atomic statement.
func (r *ProductRepository) Upsert(ctx context.Context, product domain.Product) error {
	updates := make([]string, 0, len(productColumns))
	for _, col := range productColumns {
		if col == "sku" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	_, err := psql.Insert("products").
		SetMap(productValues(product)).
		Suffix("ON CONFLICT (sku) DO UPDATE SET " + strings.Join(updates, ", ")).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", product.SKU, mapError(err))
	}
	return nil
}

// GetBySKU returns the product with the given SKU or domain.ErrNotFound.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (domain.Product, error) {
	row := psql.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"sku": sku}).
		RunWith(r.db).
		QueryRowContext(ctx)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("querying product %q: %w", sku, err)
	}
	return product, nil
}

// Select returns products matching the filter in SKU order. Pages are
// 1-based; a limit <= 0 disables pagination and returns all matches.
func (r *ProductRepository) Select(ctx context.Context, filter domain.Filter, page, limit int) ([]domain.Product, error) {
	query := psql.Select(productColumns...).
		From("products").
		OrderBy("sku")
	for _, pred := range filterPredicates(filter) {
		query = query.Where(pred)
	}
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query = query.Offset(uint64(page-1) * uint64(limit)).Limit(uint64(limit))
	}
	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

// Count returns the total number of products in the store.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := psql.Select("COUNT(*)").
		From("products").
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return count, nil
}

// mapError translates integrity violations (pq error class 23) into
// domain.ErrConstraint so callers can classify without importing pq.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && strings.HasPrefix(string(pqErr.Code), "23") {
		return fmt.Errorf("%w: %s", domain.ErrConstraint, pqErr.Message)
	}
	return err
}
