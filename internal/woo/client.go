// Package woo is the WooCommerce REST API client used by every page of the
// dashboard. The upstream store is the sole source of truth: this package
// never buffers writes and holds no state beyond the immutable client
// configuration built at startup.
package woo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kidsparadise/kp-erp/internal/config"
)

const apiVersionPath = "/wp-json/wc/v3"

// Client is a thin HTTP client bound to one store, authenticating with the
// consumer key pair as query-string parameters.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string
}

// NewClient creates a client from the store configuration. The base URL may
// be the bare site URL; the wc/v3 prefix is appended when absent.
func NewClient(cfg config.StoreConfig) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if !strings.Contains(base, "/wp-json") {
		base += apiVersionPath
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: base,
		key:     cfg.ConsumerKey,
		secret:  cfg.ConsumerSecret,
	}
}

// Response is the outcome of one API call. Non-2xx statuses are not Go
// errors: the call site checks Success and degrades or reports as needed.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	Total      int // x-wp-total, 0 when absent
	TotalPages int // x-wp-totalpages, 0 when absent
	Success    bool
	Error      string
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Get performs a GET on a resource path (e.g. "products", "orders/42") with
// the given query parameters.
func (c *Client) Get(ctx context.Context, resource string, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, resource, params, nil)
}

// Put performs a PUT on a resource path with a JSON body.
func (c *Client) Put(ctx context.Context, resource string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, resource, nil, body)
}

func (c *Client) do(ctx context.Context, method, resource string, params url.Values, body any) (*Response, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimPrefix(resource, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	q := u.Query()
	for k, vals := range params {
		for _, v := range vals {
			q.Add(k, v)
		}
	}
	// Query-string authentication: the store is expected to serve over HTTPS.
	q.Set("consumer_key", c.key)
	q.Set("consumer_secret", c.secret)
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    resp.Header.Clone(),
		Total:      headerInt(resp.Header, "X-WP-Total"),
		TotalPages: headerInt(resp.Header, "X-WP-TotalPages"),
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
	}
	if !response.Success {
		response.Error = upstreamError(resp.StatusCode, respBody)
	}
	return response, nil
}

// headerInt parses a numeric header, returning 0 when absent or malformed.
func headerInt(h http.Header, name string) int {
	v := h.Get(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// upstreamError extracts the store's error message when the body carries the
// standard {code, message} error shape, falling back to the raw status.
func upstreamError(status int, body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d from store API", status)
}
