package woo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Customers returns the store's registered customers, read-only.
func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(drainPageSize))
	resp, err := c.Get(ctx, "customers", params)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch customers: %s", resp.Error)
	}
	var customers []Customer
	if err := resp.Decode(&customers); err != nil {
		return nil, err
	}
	return customers, nil
}
