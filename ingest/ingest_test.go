package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlubek/productcatalog/domain"
)

// fakeStore records upserts in memory; failSKU injects store-level errors.
type fakeStore struct {
	products map[string]domain.Product
	upserts  int
	failSKU  map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[string]domain.Product), failSKU: make(map[string]error)}
}

func (s *fakeStore) Upsert(_ context.Context, p domain.Product) error {
	if err := s.failSKU[p.SKU]; err != nil {
		return err
	}
	s.products[p.SKU] = p
	s.upserts++
	return nil
}

func ingestString(t *testing.T, store Store, csv string) (Result, error) {
	t.Helper()
	return NewPipeline(store).Ingest(context.Background(), []byte(csv))
}

const header = "sku,name,brand,color,size,mrp,price,quantity\n"

func TestIngestStoresValidRows(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, header+
		"A1,Shoe,Nike,red,42,\"₹1,000\",900,5\n"+
		"B2,Shirt,Adidas,,,500,450,10\n")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stored)
	assert.Empty(t, result.Failed)

	a1 := store.products["A1"]
	assert.Equal(t, "Shoe", a1.Name)
	assert.Equal(t, "Nike", a1.Brand)
	assert.True(t, a1.MRP.Equal(decimal.NewFromInt(1000)), "mrp normalized from ₹1,000, got %s", a1.MRP)
	assert.True(t, a1.Price.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, 5, a1.Quantity)

	b2 := store.products["B2"]
	assert.Equal(t, "", b2.Color)
	assert.Equal(t, "", b2.Size)
}

func TestIngestReportsRowNumberOfFailedRows(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, header+
		"A1,Shoe,Nike,red,42,\"₹1,000\",900,5\n"+
		",X,Y,,,10,5,1\n")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stored)
	require.Len(t, result.Failed, 1)
	// header is file row 1, so the second data row is row 3
	assert.Contains(t, result.Failed[0], "Row 3")
	assert.Contains(t, result.Failed[0], "invalid data format")
	_, exists := store.products[""]
	assert.False(t, exists)
}

func TestIngestRejectsPriceAboveMRP(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, header+"A1,Shoe,Nike,,,100,200,5\n")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stored)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0], "Row 2")
	assert.Empty(t, store.products)
}

func TestIngestRejectsNegativeQuantity(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, header+"A1,Shoe,Nike,,,100,90,-1\n")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stored)
	require.Len(t, result.Failed, 1)
	assert.Empty(t, store.products)
}

func TestIngestTruncatesFractionalQuantity(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, header+"A1,Shoe,Nike,,,100,90,5.7\n")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, 5, store.products["A1"].Quantity)
}

func TestIngestTreatsNaNOptionalFieldsAsAbsent(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, header+"A1,Shoe,Nike,NaN,nan,100,90,1\n")
	require.NoError(t, err)

	require.Equal(t, 1, result.Stored)
	assert.Equal(t, "", store.products["A1"].Color)
	assert.Equal(t, "", store.products["A1"].Size)
}

func TestIngestTrimsStringFields(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, header+"  A1 , Shoe , Nike , red , 42 ,100,90,1\n")
	require.NoError(t, err)

	require.Equal(t, 1, result.Stored)
	p, ok := store.products["A1"]
	require.True(t, ok)
	assert.Equal(t, "Shoe", p.Name)
	assert.Equal(t, "red", p.Color)
}

func TestIngestWithoutOptionalColumns(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, "sku,name,brand,mrp,price,quantity\nA1,Shoe,Nike,100,90,1\n")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, "", store.products["A1"].Color)
}

func TestIngestMissingColumnsIsFatal(t *testing.T) {
	store := newFakeStore()
	_, err := ingestString(t, store, "sku,name,color\nA1,Shoe,red\n")

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"brand", "mrp", "price", "quantity"}, missing.Columns)
	assert.Equal(t, 0, store.upserts)
}

func TestIngestMalformedInputIsFatal(t *testing.T) {
	store := newFakeStore()

	var malformed *MalformedInputError
	_, err := NewPipeline(store).Ingest(context.Background(), []byte{0xff, 0xfe, 0xfd})
	require.ErrorAs(t, err, &malformed)

	// ragged rows abort the whole file, no partial report
	_, err = ingestString(t, store, header+"A1,Shoe\n")
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 0, store.upserts)
}

func TestIngestEmptyFileIsFatal(t *testing.T) {
	var malformed *MalformedInputError
	_, err := ingestString(t, newFakeStore(), "")
	require.ErrorAs(t, err, &malformed)
}

func TestIngestDuplicateSKUInBatchCountsTwiceAndLastWins(t *testing.T) {
	store := newFakeStore()
	result, err := ingestString(t, store, header+
		"A1,Shoe,Nike,,,100,90,1\n"+
		"A1,Boot,Nike,,,200,180,2\n")
	require.NoError(t, err)

	// each committed row counts towards Stored
	assert.Equal(t, 2, result.Stored)
	assert.Empty(t, result.Failed)
	assert.Equal(t, "Boot", store.products["A1"].Name)
	assert.Equal(t, 2, store.products["A1"].Quantity)
}

func TestIngestIsIdempotent(t *testing.T) {
	store := newFakeStore()
	file := header + "A1,Shoe,Nike,red,42,100,90,1\nB2,Shirt,Adidas,,,50,40,2\n"

	first, err := ingestString(t, store, file)
	require.NoError(t, err)
	snapshot := map[string]domain.Product{}
	for k, v := range store.products {
		snapshot[k] = v
	}

	second, err := ingestString(t, store, file)
	require.NoError(t, err)

	assert.Equal(t, first.Stored, second.Stored)
	assert.Empty(t, second.Failed)
	assert.Equal(t, snapshot, store.products)
}

func TestIngestClassifiesConstraintErrors(t *testing.T) {
	store := newFakeStore()
	store.failSKU["A1"] = fmt.Errorf("upserting product: %w", domain.ErrConstraint)
	result, err := ingestString(t, store, header+
		"A1,Shoe,Nike,,,100,90,1\n"+
		"B2,Shirt,Adidas,,,50,40,2\n")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stored)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0], "Row 2: database error")
}

func TestIngestClassifiesUnexpectedErrors(t *testing.T) {
	store := newFakeStore()
	store.failSKU["A1"] = errors.New("connection reset")
	result, err := ingestString(t, store, header+"A1,Shoe,Nike,,,100,90,1\n")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stored)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Row 2: connection reset", result.Failed[0])
}

func TestIngestContinuesAfterStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failSKU["A1"] = errors.New("boom")
	result, err := ingestString(t, store, header+
		"A1,Shoe,Nike,,,100,90,1\n"+
		"B2,Shirt,Adidas,,,50,40,2\n")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stored)
	require.Len(t, result.Failed, 1)
	_, ok := store.products["B2"]
	assert.True(t, ok)
}
