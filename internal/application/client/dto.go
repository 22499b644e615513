package client

import (
	"time"

	"github.com/dentallab/backend/internal/domain/client"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditBalanceRequest adds money to a client's balance
type CreditBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note" binding:"max=500"`
}

// ApplyBalanceRequest spends balance money against a work
type ApplyBalanceRequest struct {
	WorkID uuid.UUID       `json:"work_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AdjustBalanceRequest is a signed manual correction with a mandatory note
type AdjustBalanceRequest struct {
	Change decimal.Decimal `json:"change" binding:"required"`
	Note   string          `json:"note" binding:"required,min=1,max=500"`
}

// BalanceResponse is the cached balance of a client
type BalanceResponse struct {
	ClientID uuid.UUID       `json:"client_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Active   bool            `json:"active"`
}

// MovementResponse is one ledger row in API responses
type MovementResponse struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	AmountChange decimal.Decimal `json:"amount_change"`
	Currency     string          `json:"currency"`
	PaymentID    *uuid.UUID      `json:"payment_id,omitempty"`
	WorkID       *uuid.UUID      `json:"work_id,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LedgerResponse is a page of movements plus the ledger total
type LedgerResponse struct {
	ClientID    uuid.UUID          `json:"client_id"`
	LedgerTotal decimal.Decimal    `json:"ledger_total"`
	Movements   []MovementResponse `json:"movements"`
	Total       int64              `json:"total"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
}

// IntegrityResponse compares the cached balance against the ledger sum
type IntegrityResponse struct {
	ClientID     uuid.UUID       `json:"client_id"`
	CachedAmount decimal.Decimal `json:"cached_amount"`
	LedgerAmount decimal.Decimal `json:"ledger_amount"`
	Consistent   bool            `json:"consistent"`
}

// ToBalanceResponse converts a domain balance to its API shape
func ToBalanceResponse(b *client.ClientBalance) BalanceResponse {
	return BalanceResponse{
		ClientID: b.ClientID,
		Amount:   b.Amount,
		Currency: string(b.Currency),
		Active:   b.Active,
	}
}

// ToMovementResponse converts a domain movement to its API shape
func ToMovementResponse(m *client.BalanceMovement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		Type:         string(m.Type),
		AmountChange: m.AmountChange,
		Currency:     string(m.Currency),
		PaymentID:    m.PaymentID,
		WorkID:       m.WorkID,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt,
	}
}
