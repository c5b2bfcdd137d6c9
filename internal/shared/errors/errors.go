package errors

import (
	"encoding/json"
	"net/http"
)

// Canonical error codes shared by the HTTP handlers.
const (
	CodeBadRequest      = "bad_request"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeTooLarge        = "payload_too_large"
	CodeTooManyRequests = "too_many_requests"
	CodeInternal        = "internal"
)

// ErrorResponse represents the canonical error envelope returned by the service.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// ToStatusCode maps a domain specific error code to an HTTP status for default responses.
func ToStatusCode(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case "unauthorized":
		return http.StatusUnauthorized
	case "forbidden":
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Write encodes resp with the status derived from its code.
func Write(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ToStatusCode(resp.Code))
	_ = json.NewEncoder(w).Encode(resp)
}
