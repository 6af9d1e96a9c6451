// Package apierrors provides structured API error codes and responses.
// All codes are namespaced (e.g., "core:unauthorized", "sync:bad_verdict").
package apierrors

import "net/http"

// Core and domain error codes - registered automatically at init.
const (
	// Authentication & Authorization
	CodeUnauthorized = "core:unauthorized"
	CodeForbidden    = "core:forbidden"
	CodeInvalidToken = "core:invalid_token"

	// Request errors
	CodeInvalidRequest = "core:invalid_request"
	CodeInvalidID      = "core:invalid_id"

	// Resource errors
	CodeNotFound = "core:not_found"

	// Server errors
	CodeInternalError = "core:internal_error"

	// Catalog (products/orders/customers via the upstream store)
	CodeCatalogUnavailable = "catalog:upstream_unavailable"
	CodeProductNotFound    = "catalog:product_not_found"
	CodeUpdateFailed       = "catalog:update_failed"
	CodeExportFailed       = "catalog:export_failed"
	CodeOrderNotFound      = "orders:order_not_found"

	// Data-sync assistant
	CodeSyncDisabled    = "sync:not_configured"
	CodeSyncBadVerdict  = "sync:bad_verdict"
	CodeSyncBadPayload  = "sync:bad_payload"
	CodeSyncUnresolved  = "sync:unresolved_product"
	CodeSyncApplyFailed = "sync:apply_failed"
)

var registered = []ErrorCode{
	{Code: CodeUnauthorized, Message: "Authentication required", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeForbidden, Message: "Unauthorized", HTTPStatus: http.StatusForbidden},
	{Code: CodeInvalidToken, Message: "Invalid or expired session", HTTPStatus: http.StatusUnauthorized},

	{Code: CodeInvalidRequest, Message: "Invalid request body", HTTPStatus: http.StatusBadRequest},
	{Code: CodeInvalidID, Message: "Invalid ID format", HTTPStatus: http.StatusBadRequest},

	{Code: CodeNotFound, Message: "Resource not found", HTTPStatus: http.StatusNotFound},

	{Code: CodeInternalError, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError},

	{Code: CodeCatalogUnavailable, Message: "Store API is unavailable", HTTPStatus: http.StatusBadGateway},
	{Code: CodeProductNotFound, Message: "Product not found", HTTPStatus: http.StatusNotFound},
	{Code: CodeUpdateFailed, Message: "Failed to update the store record", HTTPStatus: http.StatusBadGateway},
	{Code: CodeExportFailed, Message: "Export failed", HTTPStatus: http.StatusInternalServerError},
	{Code: CodeOrderNotFound, Message: "Order not found", HTTPStatus: http.StatusNotFound},

	{Code: CodeSyncDisabled, Message: "Data-sync assistant is not configured", HTTPStatus: http.StatusServiceUnavailable},
	{Code: CodeSyncBadVerdict, Message: "Assistant returned an unusable verdict", HTTPStatus: http.StatusBadGateway},
	{Code: CodeSyncBadPayload, Message: "Corrected product data is not valid JSON", HTTPStatus: http.StatusBadRequest},
	{Code: CodeSyncUnresolved, Message: "Corrected data does not match any catalog product", HTTPStatus: http.StatusNotFound},
	{Code: CodeSyncApplyFailed, Message: "Failed to apply the corrected data", HTTPStatus: http.StatusBadGateway},
}

func init() {
	for _, e := range registered {
		Registry.Register(e)
	}
}
