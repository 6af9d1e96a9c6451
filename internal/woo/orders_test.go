package woo

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrders_DrainsRangeWithFilters(t *testing.T) {
	var seenAfter, seenBefore, seenStatus string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		seenAfter, seenBefore, seenStatus = q.Get("after"), q.Get("before"), q.Get("status")
		page, _ := strconv.Atoi(q.Get("page"))
		orders := []Order{
			{ID: int64(page*10 + 1), Status: OrderStatusCompleted, Total: "100.00"},
			{ID: int64(page*10 + 2), Status: OrderStatusCompleted, Total: "50.50"},
		}
		w.Header().Set("X-WP-TotalPages", "2")
		json.NewEncoder(w).Encode(orders)
	})

	orders, err := c.Orders(context.Background(), OrdersQuery{
		Status: OrderStatusCompleted,
		After:  "2026-01-01T00:00:00",
		Before: "2026-01-31T23:59:59",
	})
	require.NoError(t, err)
	require.Len(t, orders, 4)
	assert.Equal(t, int64(11), orders[0].ID)
	assert.Equal(t, int64(22), orders[3].ID)

	assert.Equal(t, "2026-01-01T00:00:00", seenAfter)
	assert.Equal(t, "2026-01-31T23:59:59", seenBefore)
	assert.Equal(t, OrderStatusCompleted, seenStatus)
}

func TestOrders_AnyStatusOmitsFilter(t *testing.T) {
	var hasStatus bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hasStatus = r.URL.Query().Has("status")
		w.Header().Set("X-WP-TotalPages", "1")
		w.Write([]byte(`[]`))
	})

	_, err := c.Orders(context.Background(), OrdersQuery{Status: OrderStatusAny})
	require.NoError(t, err)
	assert.False(t, hasStatus)
}

func TestOrder_TotalAmountParsesDecimalString(t *testing.T) {
	o := Order{Total: "1234.56"}
	assert.InDelta(t, 1234.56, o.TotalAmount(), 0.001)

	o = Order{Total: "not-a-number"}
	assert.Zero(t, o.TotalAmount())
}

func TestUpdateOrderStatus_PutsStatusOnly(t *testing.T) {
	var path string
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"id":42,"status":"processing"}`))
	})

	o, err := c.UpdateOrderStatus(context.Background(), 42, OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusProcessing, o.Status)
	assert.Equal(t, "/wp-json/wc/v3/orders/42", path)
	assert.Equal(t, map[string]string{"status": "processing"}, body)
}

func TestUpdateOrderStatus_UpstreamFailureSurfacesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"rest_invalid_param","message":"Invalid parameter: status"}`))
	})

	_, err := c.UpdateOrderStatus(context.Background(), 42, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid parameter: status")
}
