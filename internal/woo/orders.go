package woo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// OrdersQuery filters an order range load. After/Before are ISO8601
// datetimes passed straight to the store; empty values are omitted.
type OrdersQuery struct {
	Status string
	After  string
	Before string
}

// Orders drains every page of orders matching the query, in page order.
// Used by the order list and the dashboard revenue aggregation.
func (c *Client) Orders(ctx context.Context, q OrdersQuery) ([]Order, error) {
	base := url.Values{}
	base.Set("per_page", strconv.Itoa(drainPageSize))
	if q.Status != "" && q.Status != OrderStatusAny {
		base.Set("status", q.Status)
	}
	if q.After != "" {
		base.Set("after", q.After)
	}
	if q.Before != "" {
		base.Set("before", q.Before)
	}

	return DrainPages(ctx, func(ctx context.Context, page int) ([]Order, int, error) {
		params := url.Values{}
		for k, v := range base {
			params[k] = v
		}
		params.Set("page", strconv.Itoa(page))
		resp, err := c.Get(ctx, "orders", params)
		if err != nil {
			return nil, 0, err
		}
		if !resp.Success {
			return nil, 0, fmt.Errorf("fetch orders page %d: %s", page, resp.Error)
		}
		var orders []Order
		if err := resp.Decode(&orders); err != nil {
			return nil, 0, err
		}
		return orders, resp.TotalPages, nil
	})
}

// Order fetches a single order by id; nil when the store reports 404.
func (c *Client) Order(ctx context.Context, id int64) (*Order, error) {
	resp, err := c.Get(ctx, fmt.Sprintf("orders/%d", id), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == 404 {
		return nil, nil
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch order %d: %s", id, resp.Error)
	}
	var o Order
	if err := resp.Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderStatus writes a new status to the store, the only order field
// this dashboard ever changes.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string) (*Order, error) {
	resp, err := c.Put(ctx, fmt.Sprintf("orders/%d", id), map[string]string{"status": status})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("update order %d: %s", id, resp.Error)
	}
	var o Order
	if err := resp.Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}
