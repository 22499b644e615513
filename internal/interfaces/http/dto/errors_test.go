package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"fixation conflict", ErrCodeBasePriceAlreadyFixed, http.StatusConflict},
		{"missing base price", ErrCodeNoBasePriceFixed, http.StatusUnprocessableEntity},
		{"no matching rule", ErrCodeNoMatchingRule, http.StatusUnprocessableEntity},
		{"ownership violation", ErrCodeOwnershipViolation, http.StatusUnprocessableEntity},
		{"unconfirmed remainder", ErrCodeUnconfirmedRemainder, http.StatusUnprocessableEntity},
		{"insufficient balance", ErrCodeInsufficientBalance, http.StatusUnprocessableEntity},
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"already exists", ErrCodeAlreadyExists, http.StatusConflict},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"idempotency key", ErrCodeInvalidIdempotencyKey, http.StatusBadRequest},
		{"mapped INVALID code keeps its status", ErrCodeInvalidAllocation, http.StatusUnprocessableEntity},
		{"unmapped INVALID code is bad input", "INVALID_AMOUNT", http.StatusBadRequest},
		{"unmapped constructor code", "INVALID_WORK_KIND", http.StatusBadRequest},
		{"unknown code", "SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "reason", Message: "This field is required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-123", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "reason", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
