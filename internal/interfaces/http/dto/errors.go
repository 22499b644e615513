package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeValidation   = "ERR_VALIDATION"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Financial engine error codes. These match the domain error codes verbatim;
// handlers pass them through so clients can branch on stable identifiers.
const (
	ErrCodeNoMatchingRule         = "NO_MATCHING_RULE"
	ErrCodeInvalidRuleDefinition  = "INVALID_RULE_DEFINITION"
	ErrCodeBasePriceAlreadyFixed  = "BASE_PRICE_ALREADY_FIXED"
	ErrCodeNoBasePriceFixed       = "NO_BASE_PRICE_FIXED"
	ErrCodeOwnershipViolation     = "OWNERSHIP_VIOLATION"
	ErrCodeInvalidAllocation      = "INVALID_ALLOCATION"
	ErrCodeAllocationExceedsDue   = "ALLOCATION_EXCEEDS_UNPAID"
	ErrCodeAllocationExceedsTotal = "ALLOCATION_EXCEEDS_TENDERED"
	ErrCodeUnconfirmedRemainder   = "UNCONFIRMED_REMAINDER"
	ErrCodeInsufficientBalance    = "INSUFFICIENT_BALANCE"
	ErrCodeBalanceInactive        = "BALANCE_INACTIVE"
	ErrCodeClientInactive         = "CLIENT_INACTIVE"
	ErrCodeInvalidIdempotencyKey  = "INVALID_IDEMPOTENCY_KEY"
	ErrCodeCurrencyMismatch       = "CURRENCY_MISMATCH"
	ErrCodeClientMismatch         = "CLIENT_MISMATCH"
	ErrCodeNoteRequired           = "NOTE_REQUIRED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Pricing conflicts are 409: the request was well-formed but collides
	// with committed state.
	ErrCodeBasePriceAlreadyFixed: http.StatusConflict,
	ErrCodeNoBasePriceFixed:      http.StatusUnprocessableEntity,
	ErrCodeNoMatchingRule:        http.StatusUnprocessableEntity,
	ErrCodeInvalidRuleDefinition: http.StatusUnprocessableEntity,

	// Allocation and balance violations are 422: valid syntax, impossible
	// business operation.
	ErrCodeOwnershipViolation:     http.StatusUnprocessableEntity,
	ErrCodeInvalidAllocation:      http.StatusUnprocessableEntity,
	ErrCodeAllocationExceedsDue:   http.StatusUnprocessableEntity,
	ErrCodeAllocationExceedsTotal: http.StatusUnprocessableEntity,
	ErrCodeUnconfirmedRemainder:   http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance:    http.StatusUnprocessableEntity,
	ErrCodeBalanceInactive:        http.StatusUnprocessableEntity,
	ErrCodeClientInactive:         http.StatusUnprocessableEntity,

	ErrCodeInvalidIdempotencyKey: http.StatusBadRequest,
	ErrCodeCurrencyMismatch:      http.StatusUnprocessableEntity,
	ErrCodeClientMismatch:        http.StatusUnprocessableEntity,
	ErrCodeNoteRequired:          http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	// Entity constructors reject illegal field values with INVALID_* codes;
	// those are all client input problems.
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
