package billing

import (
	"fmt"
	"time"

	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationInput is one explicit per-work allocation in a request
type AllocationInput struct {
	WorkID uuid.UUID       `json:"work_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PreviewPaymentRequest asks how a tendered amount would be distributed.
// Allocations are optional: when absent the automatic strategy fills works
// in ascending work-id order; when present every listed work is allocated
// exactly the given amount and unlisted works get nothing.
type PreviewPaymentRequest struct {
	ClientID    uuid.UUID         `json:"client_id" binding:"required"`
	Amount      decimal.Decimal   `json:"amount" binding:"required"`
	WorkIDs     []uuid.UUID       `json:"work_ids" binding:"required,min=1"`
	Allocations []AllocationInput `json:"allocations"`
}

// RegisterPaymentRequest commits a previewed payment. The idempotency key
// makes retries safe: the same key can never register two payments.
type RegisterPaymentRequest struct {
	ClientID               uuid.UUID         `json:"client_id" binding:"required"`
	Amount                 decimal.Decimal   `json:"amount" binding:"required"`
	WorkIDs                []uuid.UUID       `json:"work_ids" binding:"required,min=1"`
	Allocations            []AllocationInput `json:"allocations"`
	Method                 string            `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CARD CHECK"`
	Reference              string            `json:"reference" binding:"max=200"`
	Notes                  string            `json:"notes" binding:"max=1000"`
	IdempotencyKey         string            `json:"idempotency_key" binding:"required,min=8,max=64"`
	MoveRemainderToBalance bool              `json:"move_remainder_to_balance"`
}

// PlanLineResponse is the per-work breakdown of a preview
type PlanLineResponse struct {
	WorkID         uuid.UUID       `json:"work_id"`
	Price          decimal.Decimal `json:"price"`
	AlreadyPaid    decimal.Decimal `json:"already_paid"`
	Unpaid         decimal.Decimal `json:"unpaid"`
	MaxAllocatable decimal.Decimal `json:"max_allocatable"`
	Allocated      decimal.Decimal `json:"allocated"`
}

// PreviewPaymentResponse is the full allocation plan for a tendered amount
type PreviewPaymentResponse struct {
	ClientID                    uuid.UUID          `json:"client_id"`
	PaymentAmount               decimal.Decimal    `json:"payment_amount"`
	Lines                       []PlanLineResponse `json:"lines"`
	TotalAllocated              decimal.Decimal    `json:"total_allocated"`
	RemainingUnallocated        decimal.Decimal    `json:"remaining_unallocated"`
	RequiresBalanceConfirmation bool               `json:"requires_balance_confirmation"`
	Warnings                    []string           `json:"warnings"`
}

// AllocationResponse is one committed allocation row
type AllocationResponse struct {
	ID            uuid.UUID       `json:"id"`
	WorkID        uuid.UUID       `json:"work_id"`
	AmountApplied decimal.Decimal `json:"amount_applied"`
}

// PaymentResponse represents a registered payment in API responses
type PaymentResponse struct {
	ID                 uuid.UUID            `json:"id"`
	ClientID           uuid.UUID            `json:"client_id"`
	Amount             decimal.Decimal      `json:"amount"`
	Currency           string               `json:"currency"`
	Method             string               `json:"method"`
	Status             string               `json:"status"`
	Reference          string               `json:"reference,omitempty"`
	Notes              string               `json:"notes,omitempty"`
	ReceivedAt         time.Time            `json:"received_at"`
	IdempotencyKey     string               `json:"idempotency_key"`
	Allocations        []AllocationResponse `json:"allocations"`
	RemainderToBalance decimal.Decimal      `json:"remainder_to_balance"`
	CreatedAt          time.Time            `json:"created_at"`
}

// WorkBalanceResponse is the financial projection of one work
type WorkBalanceResponse struct {
	WorkID    uuid.UUID       `json:"work_id"`
	Price     decimal.Decimal `json:"price"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
}

// ToPreviewResponse converts an allocation plan to its API shape. Warnings
// flag conditions the caller should surface before committing; the slice is
// always present, empty when there is nothing to flag.
func ToPreviewResponse(clientID uuid.UUID, amount decimal.Decimal, plan *billing.Plan) PreviewPaymentResponse {
	lines := make([]PlanLineResponse, 0, len(plan.Lines))
	warnings := make([]string, 0)
	for _, l := range plan.Lines {
		lines = append(lines, PlanLineResponse{
			WorkID:         l.WorkID,
			Price:          l.Price,
			AlreadyPaid:    l.AlreadyPaid,
			Unpaid:         l.Unpaid,
			MaxAllocatable: l.MaxAllocatable,
			Allocated:      l.Allocated,
		})
		if l.Unpaid.IsZero() {
			warnings = append(warnings, fmt.Sprintf("work %s is already fully paid and receives nothing", l.WorkID))
		}
	}
	if plan.RequiresBalanceConfirmation {
		warnings = append(warnings, fmt.Sprintf("%s exceeds the selected dues; registration must confirm moving the remainder to the client balance", plan.RemainingUnallocated))
	}
	return PreviewPaymentResponse{
		ClientID:                    clientID,
		PaymentAmount:               amount,
		Lines:                       lines,
		TotalAllocated:              plan.TotalAllocated,
		RemainingUnallocated:        plan.RemainingUnallocated,
		RequiresBalanceConfirmation: plan.RequiresBalanceConfirmation,
		Warnings:                    warnings,
	}
}

// ToPaymentResponse converts a payment and its allocations to the API shape
func ToPaymentResponse(p *billing.Payment, allocations []*billing.PaymentAllocation) PaymentResponse {
	allocs := make([]AllocationResponse, 0, len(allocations))
	total := decimal.Zero
	for _, a := range allocations {
		allocs = append(allocs, AllocationResponse{
			ID:            a.ID,
			WorkID:        a.WorkID,
			AmountApplied: a.AmountApplied,
		})
		total = total.Add(a.AmountApplied)
	}
	return PaymentResponse{
		ID:                 p.ID,
		ClientID:           p.ClientID,
		Amount:             p.AmountTotal,
		Currency:           string(p.Currency),
		Method:             string(p.Method),
		Status:             string(p.Status),
		Reference:          p.Reference,
		Notes:              p.Notes,
		ReceivedAt:         p.ReceivedAt,
		IdempotencyKey:     p.IdempotencyKey,
		Allocations:        allocs,
		RemainderToBalance: p.AmountTotal.Sub(total),
		CreatedAt:          p.CreatedAt,
	}
}

func allocationOverrides(inputs []AllocationInput) map[uuid.UUID]decimal.Decimal {
	if len(inputs) == 0 {
		return nil
	}
	overrides := make(map[uuid.UUID]decimal.Decimal, len(inputs))
	for _, in := range inputs {
		overrides[in.WorkID] = overrides[in.WorkID].Add(in.Amount)
	}
	return overrides
}
