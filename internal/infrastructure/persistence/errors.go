package persistence

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether the error is a unique constraint
// violation. Repositories map these onto domain sentinels so services can
// treat the database constraint as the authority for exactly-once inserts.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	// Driver-agnostic fallback for drivers that do not expose typed errors,
	// such as the sqlite driver used in tests.
	msg := err.Error()
	return strings.Contains(msg, uniqueViolationCode) ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
