package shared

// DomainError represents a domain-level error with a stable machine code.
// The code is what callers dispatch on; the message is for humans.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)

// Financial invariant errors. These indicate a money operation was rejected
// before any state change; the transaction is rolled back and nothing persists.
var (
	ErrNoMatchingRule         = NewDomainError("NO_MATCHING_RULE", "No pricing rule matches the work attributes")
	ErrInvalidRuleDefinition  = NewDomainError("INVALID_RULE_DEFINITION", "Pricing rule defines neither base price nor a usable per-unit price")
	ErrBasePriceAlreadyFixed  = NewDomainError("BASE_PRICE_ALREADY_FIXED", "A base price has already been fixed for this work")
	ErrNoBasePriceFixed       = NewDomainError("NO_BASE_PRICE_FIXED", "No base price has been fixed for this work")
	ErrOwnershipViolation     = NewDomainError("OWNERSHIP_VIOLATION", "Work does not exist or belongs to another client")
	ErrInvalidAllocation      = NewDomainError("INVALID_ALLOCATION", "Allocation override is not valid")
	ErrAllocationExceedsDue   = NewDomainError("ALLOCATION_EXCEEDS_UNPAID", "Allocation exceeds the work's remaining due")
	ErrAllocationExceedsTotal = NewDomainError("ALLOCATION_EXCEEDS_TENDERED", "Allocated total exceeds the tendered amount")
	ErrUnconfirmedRemainder   = NewDomainError("UNCONFIRMED_REMAINDER", "Unallocated remainder requires explicit balance confirmation")
	ErrInsufficientBalance    = NewDomainError("INSUFFICIENT_BALANCE", "Insufficient client balance")
	ErrBalanceInactive        = NewDomainError("BALANCE_INACTIVE", "Client balance feature is not active")
)
