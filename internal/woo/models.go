package woo

import "strconv"

// Product publish statuses (wc/v3 `status` field).
const (
	ProductStatusPublish = "publish"
	ProductStatusDraft   = "draft"
	ProductStatusPending = "pending"
	ProductStatusPrivate = "private"
	ProductStatusAny     = "any"
)

// Stock statuses (wc/v3 `stock_status` field).
const (
	StockInStock     = "instock"
	StockOutOfStock  = "outofstock"
	StockOnBackorder = "onbackorder"
)

// Order statuses (wc/v3 `status` field).
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusOnHold     = "on-hold"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
	OrderStatusFailed     = "failed"
	OrderStatusAny        = "any"
)

// OrderStatuses lists every assignable order status, in the order the edit
// form presents them.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusOnHold,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusRefunded,
	OrderStatusFailed,
}

// ProductImage is one attached image of a product.
type ProductImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Product is the store's product record. Identity key is ID; SKU is the
// merchant-facing secondary key, treated as unique even though the store
// does not guarantee it. Monetary fields stay decimal strings.
type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	SKU           string         `json:"sku"`
	Status        string         `json:"status"`
	Price         string         `json:"price"`
	RegularPrice  string         `json:"regular_price"`
	StockQuantity *int           `json:"stock_quantity"`
	StockStatus   string         `json:"stock_status"`
	ManageStock   bool           `json:"manage_stock"`
	TotalSales    int            `json:"total_sales"`
	Images        []ProductImage `json:"images"`
	DateCreated   string         `json:"date_created"`
}

// PriceAmount converts the decimal price string for display or aggregation.
// Never used for writes back to the store.
func (p *Product) PriceAmount() float64 {
	f, _ := strconv.ParseFloat(p.Price, 64)
	return f
}

// Stock returns the stock quantity, 0 when the store does not track it.
func (p *Product) Stock() int {
	if p.StockQuantity == nil {
		return 0
	}
	return *p.StockQuantity
}

// ProductUpdate is the writable subset of a product, sent on PUT.
// Pointer fields are omitted when nil so unset fields stay untouched.
type ProductUpdate struct {
	Name          string `json:"name,omitempty"`
	SKU           string `json:"sku,omitempty"`
	RegularPrice  string `json:"regular_price,omitempty"`
	StockQuantity *int   `json:"stock_quantity,omitempty"`
	ManageStock   *bool  `json:"manage_stock,omitempty"`
}

// Address is a billing or shipping block on an order.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Name joins first and last name for display.
func (a *Address) Name() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

// LineItem is one product line on an order.
type LineItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     string  `json:"total"`
}

// Order is the store's order record. Only the status is ever written back.
type Order struct {
	ID          int64      `json:"id"`
	Status      string     `json:"status"`
	Currency    string     `json:"currency"`
	Total       string     `json:"total"`
	DateCreated string     `json:"date_created"`
	Billing     Address    `json:"billing"`
	Shipping    Address    `json:"shipping"`
	LineItems   []LineItem `json:"line_items"`
}

// TotalAmount converts the decimal total string for display or aggregation.
func (o *Order) TotalAmount() float64 {
	f, _ := strconv.ParseFloat(o.Total, 64)
	return f
}

// Customer is the store's customer record, read-only in this dashboard.
type Customer struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	TotalSpent  string `json:"total_spent"`
	OrdersCount int    `json:"orders_count"`
}

// Name joins first and last name for display.
func (c *Customer) Name() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// TotalSpentAmount converts the decimal total-spent string for display.
func (c *Customer) TotalSpentAmount() float64 {
	f, _ := strconv.ParseFloat(c.TotalSpent, 64)
	return f
}
