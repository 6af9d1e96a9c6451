package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsparadise/kp-erp/internal/woo"
)

// fakeCatalog is a scripted Catalog with a SKU index and an id index.
type fakeCatalog struct {
	bySKU   map[string][]woo.Product
	byID    map[int64]woo.Product
	updated map[int64]woo.ProductUpdate
	failPut error
}

func newFakeCatalog(products ...woo.Product) *fakeCatalog {
	f := &fakeCatalog{
		bySKU:   make(map[string][]woo.Product),
		byID:    make(map[int64]woo.Product),
		updated: make(map[int64]woo.ProductUpdate),
	}
	for _, p := range products {
		f.byID[p.ID] = p
		if p.SKU != "" {
			f.bySKU[p.SKU] = append(f.bySKU[p.SKU], p)
		}
	}
	return f
}

func (f *fakeCatalog) ProductsBySKU(_ context.Context, sku string) ([]woo.Product, error) {
	return f.bySKU[sku], nil
}

func (f *fakeCatalog) Product(_ context.Context, id int64) (*woo.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id int64, update woo.ProductUpdate) (*woo.Product, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, errors.New("no such product")
	}
	f.updated[id] = update
	if update.Name != "" {
		p.Name = update.Name
	}
	return &p, nil
}

func TestApply_ResolvesBySKUOnly(t *testing.T) {
	// The payload's only identifying field is the SKU; the target must be
	// that product's numeric id.
	catalog := newFakeCatalog(woo.Product{ID: 77, SKU: "KC12345", Name: "Onesie"})
	applier := NewApplier(catalog)

	result := applier.Apply(context.Background(), `{"sku":"KC12345","name":"Onesie Blue","price":"15.99","stock_quantity":"75"}`)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, int64(77), result.ProductID)

	update := catalog.updated[77]
	assert.Equal(t, "Onesie Blue", update.Name)
	assert.Equal(t, "15.99", update.RegularPrice)
	require.NotNil(t, update.StockQuantity)
	assert.Equal(t, 75, *update.StockQuantity)
	require.NotNil(t, update.ManageStock)
	assert.True(t, *update.ManageStock)
}

func TestApply_SKUWinsOverNumericID(t *testing.T) {
	catalog := newFakeCatalog(
		woo.Product{ID: 1, SKU: "KC1", Name: "By id"},
		woo.Product{ID: 2, SKU: "KC2", Name: "By sku"},
	)
	applier := NewApplier(catalog)

	result := applier.Apply(context.Background(), `{"sku":"KC2","id":1,"name":"x"}`)
	require.True(t, result.Success, result.Message)
	assert.Equal(t, int64(2), result.ProductID)
}

func TestApply_NumericIDFallback(t *testing.T) {
	catalog := newFakeCatalog(woo.Product{ID: 9, SKU: "KC9", Name: "Nine"})
	applier := NewApplier(catalog)

	result := applier.Apply(context.Background(), `{"id":9,"price":12.5}`)
	require.True(t, result.Success, result.Message)
	assert.Equal(t, int64(9), result.ProductID)
	assert.Equal(t, "12.5", catalog.updated[9].RegularPrice)
}

func TestApply_ProductIDStringTreatedAsSKU(t *testing.T) {
	catalog := newFakeCatalog(woo.Product{ID: 5, SKU: "KC12345", Name: "Onesie"})
	applier := NewApplier(catalog)

	result := applier.Apply(context.Background(), `{"product_id":"KC12345","stock_quantity":75}`)
	require.True(t, result.Success, result.Message)
	assert.Equal(t, int64(5), result.ProductID)
}

func TestApply_DistinctFailureMessages(t *testing.T) {
	catalog := newFakeCatalog(woo.Product{ID: 1, SKU: "KC1", Name: "One"})
	applier := NewApplier(catalog)

	cases := []struct {
		name     string
		payload  string
		contains string
	}{
		{"malformed JSON", `not json {`, "not valid JSON"},
		{"no identifier", `{"name":"x","price":"1.00"}`, "no product identifier"},
		{"unknown SKU", `{"sku":"GONE-1"}`, `No catalog product matches SKU "GONE-1"`},
		{"unknown id", `{"id":404}`, "No catalog product matches id 404"},
		{"unknown product_id", `{"product_id":"GONE-2"}`, `No catalog product matches identifier "GONE-2"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := applier.Apply(context.Background(), tc.payload)
			assert.False(t, result.Success)
			assert.Contains(t, result.Message, tc.contains)
		})
	}
}

func TestApply_UpstreamWriteFailure(t *testing.T) {
	catalog := newFakeCatalog(woo.Product{ID: 1, SKU: "KC1", Name: "One"})
	catalog.failPut = errors.New("update product 1: HTTP 500 from store API")
	applier := NewApplier(catalog)

	result := applier.Apply(context.Background(), `{"sku":"KC1","name":"y"}`)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Failed to update product 1")
}
