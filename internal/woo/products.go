package woo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// SearchPageSize is the page size of locally paginated search results.
const SearchPageSize = 20

// ProductsQuery filters the product list page.
type ProductsQuery struct {
	Page        int
	Status      string // publish, draft, pending, private; empty or "any" for all
	StockStatus string
	OrderBy     string
	Order       string
	Search      string // free text; matched against name/description AND exact SKU
}

// ProductPage is one page of products plus the overall pagination facts.
type ProductPage struct {
	Products   []Product
	Page       int
	TotalPages int
	Total      int
}

// Products returns one page of the catalog. With a search term the
// two-query merge in SearchCatalog is used and pagination is computed
// locally; otherwise the store's own pagination headers are authoritative.
func (c *Client) Products(ctx context.Context, q ProductsQuery) (*ProductPage, error) {
	if q.Search != "" {
		return c.SearchCatalog(ctx, q.Search, q.Page)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(SearchPageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("status", ProductStatusAny)
	if q.Status != "" && q.Status != "all" && q.Status != ProductStatusAny {
		params.Set("status", q.Status)
	}
	if q.StockStatus != "" {
		params.Set("stock_status", q.StockStatus)
	}
	if q.OrderBy != "" {
		params.Set("orderby", q.OrderBy)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}

	resp, err := c.Get(ctx, "products", params)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch products: %s", resp.Error)
	}

	var products []Product
	if err := resp.Decode(&products); err != nil {
		return nil, err
	}
	return &ProductPage{
		Products:   products,
		Page:       page,
		TotalPages: resp.TotalPages,
		Total:      resp.Total,
	}, nil
}

// SearchCatalog runs the merged two-query search: the store API has no
// combined filter, so a name/description search and an exact-SKU search are
// issued separately and unioned. Duplicates are collapsed by product id,
// keeping the first-encountered copy; ordering is the insertion order of the
// concatenation (name results first, SKU results appended). The merged set
// is paginated locally because neither sub-query's headers reflect the
// merged cardinality.
func (c *Client) SearchCatalog(ctx context.Context, term string, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	nameParams := url.Values{}
	nameParams.Set("per_page", strconv.Itoa(drainPageSize))
	nameParams.Set("status", ProductStatusAny)
	nameParams.Set("search", term)
	nameResp, err := c.Get(ctx, "products", nameParams)
	if err != nil {
		return nil, err
	}
	if !nameResp.Success {
		return nil, fmt.Errorf("search products: %s", nameResp.Error)
	}
	var byName []Product
	if err := nameResp.Decode(&byName); err != nil {
		return nil, err
	}

	bySKU, err := c.ProductsBySKU(ctx, term)
	if err != nil {
		return nil, err
	}

	merged := mergeProducts(byName, bySKU)

	total := len(merged)
	totalPages := (total + SearchPageSize - 1) / SearchPageSize
	start := (page - 1) * SearchPageSize
	if start > total {
		start = total
	}
	end := start + SearchPageSize
	if end > total {
		end = total
	}

	return &ProductPage{
		Products:   merged[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// mergeProducts unions two result sets, deduplicating by product id. The
// first-encountered copy wins; the same id yields the same record upstream
// except during sanitization lag, where first-wins keeps the merge stable.
func mergeProducts(sets ...[]Product) []Product {
	seen := make(map[int64]bool)
	var merged []Product
	for _, set := range sets {
		for _, p := range set {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged = append(merged, p)
		}
	}
	return merged
}

// ProductsBySKU returns the products matching an exact SKU. The store does
// not guarantee SKU uniqueness, hence the slice.
func (c *Client) ProductsBySKU(ctx context.Context, sku string) ([]Product, error) {
	if sku == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("sku", sku)
	params.Set("per_page", strconv.Itoa(drainPageSize))
	resp, err := c.Get(ctx, "products", params)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch product by SKU %s: %s", sku, resp.Error)
	}
	var products []Product
	if err := resp.Decode(&products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single product by its numeric id; nil when the store
// reports 404.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	resp, err := c.Get(ctx, fmt.Sprintf("products/%d", id), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == 404 {
		return nil, nil
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch product %d: %s", id, resp.Error)
	}
	var p Product
	if err := resp.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct writes the given fields to the store and returns the updated
// record.
func (c *Client) UpdateProduct(ctx context.Context, id int64, update ProductUpdate) (*Product, error) {
	resp, err := c.Put(ctx, fmt.Sprintf("products/%d", id), update)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("update product %d: %s", id, resp.Error)
	}
	var p Product
	if err := resp.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AllProducts drains every page of the catalog, for the export actions.
func (c *Client) AllProducts(ctx context.Context) ([]Product, error) {
	return DrainPages(ctx, func(ctx context.Context, page int) ([]Product, int, error) {
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(drainPageSize))
		params.Set("page", strconv.Itoa(page))
		resp, err := c.Get(ctx, "products", params)
		if err != nil {
			return nil, 0, err
		}
		if !resp.Success {
			return nil, 0, fmt.Errorf("fetch products page %d: %s", page, resp.Error)
		}
		var products []Product
		if err := resp.Decode(&products); err != nil {
			return nil, 0, err
		}
		return products, resp.TotalPages, nil
	})
}

// ProductCounts holds the dashboard's catalog size figures.
type ProductCounts struct {
	All       int
	Published int
	Draft     int
}

// Counts fetches the all/published/draft product counts concurrently. The
// three probes are independent and commutative; each reads only the
// x-wp-total header of a per_page=1 request.
func (c *Client) Counts(ctx context.Context) (*ProductCounts, error) {
	counts := &ProductCounts{}
	g, ctx := errgroup.WithContext(ctx)

	fetch := func(status string, dst *int) func() error {
		return func() error {
			params := url.Values{}
			params.Set("status", status)
			params.Set("per_page", "1")
			resp, err := c.Get(ctx, "products", params)
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("count products (%s): %s", status, resp.Error)
			}
			*dst = resp.Total
			return nil
		}
	}

	g.Go(fetch(ProductStatusAny, &counts.All))
	g.Go(fetch(ProductStatusPublish, &counts.Published))
	g.Go(fetch(ProductStatusDraft, &counts.Draft))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
