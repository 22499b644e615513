package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"price_group": true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"received_at":  true,
	"amount_total": true,
	"method":       true,
}

// MovementSortFields contains allowed sort fields for balance movements
var MovementSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"amount_change": true,
	"type":          true,
}
