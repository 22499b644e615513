package models

import (
	"time"

	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment domain entity.
// The unique index on idempotency_key is the authority for exactly-once
// registration: a second commit under the same key fails the insert.
type PaymentModel struct {
	BaseModel
	ClientID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	AmountTotal    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Currency       valueobject.Currency  `gorm:"type:varchar(3);not null;default:'EUR'"`
	Method         billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference      string                `gorm:"type:varchar(200)"`
	Notes          string                `gorm:"type:text"`
	ReceivedAt     time.Time             `gorm:"not null"`
	Status         billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'REGISTERED'"`
	IdempotencyKey string                `gorm:"type:varchar(64);not null;uniqueIndex:idx_payment_idempotency_key"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseEntity:     m.BaseModel.ToDomain(),
		ClientID:       m.ClientID,
		AmountTotal:    m.AmountTotal,
		Currency:       m.Currency,
		Method:         m.Method,
		Reference:      m.Reference,
		Notes:          m.Notes,
		ReceivedAt:     m.ReceivedAt,
		Status:         m.Status,
		IdempotencyKey: m.IdempotencyKey,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ClientID = p.ClientID
	m.AmountTotal = p.AmountTotal
	m.Currency = p.Currency
	m.Method = p.Method
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.ReceivedAt = p.ReceivedAt
	m.Status = p.Status
	m.IdempotencyKey = p.IdempotencyKey
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentAllocationModel is the persistence model for the PaymentAllocation
// domain entity.
type PaymentAllocationModel struct {
	BaseModel
	PaymentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	WorkID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AmountApplied decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain PaymentAllocation entity.
func (m *PaymentAllocationModel) ToDomain() *billing.PaymentAllocation {
	return &billing.PaymentAllocation{
		BaseEntity:    m.BaseModel.ToDomain(),
		PaymentID:     m.PaymentID,
		WorkID:        m.WorkID,
		AmountApplied: m.AmountApplied,
	}
}

// FromDomain populates the persistence model from a domain PaymentAllocation entity.
func (m *PaymentAllocationModel) FromDomain(a *billing.PaymentAllocation) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PaymentID = a.PaymentID
	m.WorkID = a.WorkID
	m.AmountApplied = a.AmountApplied
}

// PaymentAllocationModelFromDomain creates a new persistence model from a domain PaymentAllocation entity.
func PaymentAllocationModelFromDomain(a *billing.PaymentAllocation) *PaymentAllocationModel {
	m := &PaymentAllocationModel{}
	m.FromDomain(a)
	return m
}
