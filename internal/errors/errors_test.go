package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"wrapped conflict", fmt.Errorf("product 7: %w", ErrInsufficientStock), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"validation", ErrEmptyOrder, http.StatusBadRequest, "EMPTY_ORDER"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"too large", ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_DoesNotLeakDriverErrors(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("ERROR: relation \"orders\" does not exist"))
	assert.Equal(t, "internal server error", httpErr.Message)
	assert.Equal(t, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}, httpErr.ToErrorResponse())
}

func TestMapErrorToHTTP_KeepsWrappedMessage(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("not enough stock for Netflix Premium: %w", ErrInsufficientStock))
	assert.Equal(t, "not enough stock for Netflix Premium: insufficient stock", httpErr.Message)
}
