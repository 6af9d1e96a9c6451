package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kidsparadise/kp-erp/internal/woo"
)

// Catalog is the slice of the store client the applier needs.
type Catalog interface {
	ProductsBySKU(ctx context.Context, sku string) ([]woo.Product, error)
	Product(ctx context.Context, id int64) (*woo.Product, error)
	UpdateProduct(ctx context.Context, id int64, update woo.ProductUpdate) (*woo.Product, error)
}

// ApplyResult reports the outcome of pushing corrected data to the store.
// Every failure mode carries its own human-readable message; callers show
// Message directly and never see a panic or a bare error.
type ApplyResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ProductID int64  `json:"productId,omitempty"`
}

// Applier resolves a corrected payload against the catalog and writes the
// mapped fields back.
type Applier struct {
	catalog Catalog
}

// NewApplier creates an applier over the given catalog.
func NewApplier(catalog Catalog) *Applier {
	return &Applier{catalog: catalog}
}

// flexValue accepts a JSON string or number; the assistant is not
// consistent about which it emits for prices, quantities and identifiers.
type flexValue string

func (f *flexValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexValue(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexValue(n.String())
	return nil
}

// correctedPayload is the loosely-typed shape the assistant emits.
type correctedPayload struct {
	SKU           string    `json:"sku"`
	ID            flexValue `json:"id"`
	ProductID     flexValue `json:"product_id"`
	Name          string    `json:"name"`
	ProductName   string    `json:"productName"`
	Price         flexValue `json:"price"`
	RegularPrice  flexValue `json:"regular_price"`
	StockQuantity flexValue `json:"stock_quantity"`
}

// Apply parses the corrected product JSON, resolves its identifier against
// the catalog and pushes the mapped fields. Identifier precedence is fixed:
// SKU string first, the numeric id second, a SKU-shaped product_id last.
func (a *Applier) Apply(ctx context.Context, correctedJSON string) ApplyResult {
	var payload correctedPayload
	if err := json.Unmarshal([]byte(correctedJSON), &payload); err != nil {
		return ApplyResult{Message: "The corrected product data is not valid JSON."}
	}

	target, failure := a.resolve(ctx, payload)
	if failure != "" {
		return ApplyResult{Message: failure}
	}

	update := buildUpdate(payload)
	updated, err := a.catalog.UpdateProduct(ctx, target.ID, update)
	if err != nil {
		return ApplyResult{Message: fmt.Sprintf("Failed to update product %d: %v", target.ID, err)}
	}

	return ApplyResult{
		Success:   true,
		Message:   fmt.Sprintf("Product %q (#%d) updated from corrected data.", updated.Name, updated.ID),
		ProductID: updated.ID,
	}
}

// resolve finds the catalog product the corrected payload refers to.
// Returns the product, or a user-facing failure message.
func (a *Applier) resolve(ctx context.Context, payload correctedPayload) (*woo.Product, string) {
	// SKU lookup first: the merchant-facing key wins over the numeric id.
	if sku := strings.TrimSpace(payload.SKU); sku != "" {
		matches, err := a.catalog.ProductsBySKU(ctx, sku)
		if err != nil {
			return nil, fmt.Sprintf("Catalog lookup for SKU %q failed: %v", sku, err)
		}
		if len(matches) > 0 {
			return &matches[0], ""
		}
		return nil, fmt.Sprintf("No catalog product matches SKU %q.", sku)
	}

	// Numeric id fallback.
	if id, ok := asID(payload.ID); ok {
		p, err := a.catalog.Product(ctx, id)
		if err != nil {
			return nil, fmt.Sprintf("Catalog lookup for id %d failed: %v", id, err)
		}
		if p != nil {
			return p, ""
		}
		return nil, fmt.Sprintf("No catalog product matches id %d.", id)
	}

	// Vendor feeds put the SKU in product_id; try it as a numeric id
	// first, then as a SKU string.
	if payload.ProductID != "" {
		if id, ok := asID(payload.ProductID); ok {
			p, err := a.catalog.Product(ctx, id)
			if err != nil {
				return nil, fmt.Sprintf("Catalog lookup for id %d failed: %v", id, err)
			}
			if p != nil {
				return p, ""
			}
		} else {
			matches, err := a.catalog.ProductsBySKU(ctx, string(payload.ProductID))
			if err != nil {
				return nil, fmt.Sprintf("Catalog lookup for SKU %q failed: %v", string(payload.ProductID), err)
			}
			if len(matches) > 0 {
				return &matches[0], ""
			}
		}
		return nil, fmt.Sprintf("No catalog product matches identifier %q.", string(payload.ProductID))
	}

	return nil, "The corrected data carries no product identifier (sku, id or product_id)."
}

// buildUpdate maps the fixed field set onto a store write: name, price to
// regular_price, and stock quantity with stock management enabled.
func buildUpdate(payload correctedPayload) woo.ProductUpdate {
	update := woo.ProductUpdate{}

	switch {
	case payload.Name != "":
		update.Name = payload.Name
	case payload.ProductName != "":
		update.Name = payload.ProductName
	}

	price := payload.RegularPrice
	if price == "" {
		price = payload.Price
	}
	if price != "" {
		update.RegularPrice = string(price)
	}

	if payload.StockQuantity != "" {
		if qty, err := strconv.Atoi(string(payload.StockQuantity)); err == nil {
			manage := true
			update.StockQuantity = &qty
			update.ManageStock = &manage
		}
	}

	return update
}

// asID interprets a flexValue as a positive numeric product id.
func asID(v flexValue) (int64, bool) {
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
