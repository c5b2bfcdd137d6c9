package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWrite_UsesCodeStatus(t *testing.T) {
	tests := map[string]int{
		CodeBadRequest:      http.StatusBadRequest,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeTooLarge:        http.StatusRequestEntityTooLarge,
		CodeTooManyRequests: http.StatusTooManyRequests,
		CodeInternal:        http.StatusInternalServerError,
	}
	for code, status := range tests {
		rec := httptest.NewRecorder()
		Write(rec, ErrorResponse{Code: code, Message: "m", RequestID: "req-1"})
		if rec.Code != status {
			t.Fatalf("code %s: expected %d, got %d", code, status, rec.Code)
		}
		var body ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != code || body.RequestID != "req-1" {
			t.Fatalf("unexpected body %+v", body)
		}
	}
}
