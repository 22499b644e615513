package models

import (
	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	AggregateModel
	Name       string `gorm:"type:varchar(200);not null"`
	Email      string `gorm:"type:varchar(200);index"`
	Phone      string `gorm:"type:varchar(50)"`
	PriceGroup string `gorm:"type:varchar(50);not null"`
	Active     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *client.Client {
	return &client.Client{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		PriceGroup:        m.PriceGroup,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *client.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.PriceGroup = c.PriceGroup
	m.Active = c.Active
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *client.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// ClientBalanceModel is the persistence model for the ClientBalance domain
// entity. One row per client; the unique index makes lazy creation under
// concurrency safe.
type ClientBalanceModel struct {
	AggregateModel
	ClientID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_balance_client"`
	Amount   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Currency valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Active   bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClientBalanceModel) TableName() string {
	return "client_balances"
}

// ToDomain converts the persistence model to a domain ClientBalance entity.
func (m *ClientBalanceModel) ToDomain() *client.ClientBalance {
	return &client.ClientBalance{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClientID:          m.ClientID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain ClientBalance entity.
func (m *ClientBalanceModel) FromDomain(b *client.ClientBalance) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ClientID = b.ClientID
	m.Amount = b.Amount
	m.Currency = b.Currency
	m.Active = b.Active
}

// ClientBalanceModelFromDomain creates a new persistence model from a domain ClientBalance entity.
func ClientBalanceModelFromDomain(b *client.ClientBalance) *ClientBalanceModel {
	m := &ClientBalanceModel{}
	m.FromDomain(b)
	return m
}

// BalanceMovementModel is the persistence model for the BalanceMovement
// domain entity. Movements are append-only; the ledger is the source of
// truth for the cached balance amount.
type BalanceMovementModel struct {
	BaseModel
	ClientID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type         client.MovementType  `gorm:"type:varchar(20);not null"`
	AmountChange decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	PaymentID    *uuid.UUID           `gorm:"type:uuid;index"`
	WorkID       *uuid.UUID           `gorm:"type:uuid;index"`
	Note         string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BalanceMovementModel) TableName() string {
	return "balance_movements"
}

// ToDomain converts the persistence model to a domain BalanceMovement entity.
func (m *BalanceMovementModel) ToDomain() *client.BalanceMovement {
	return &client.BalanceMovement{
		BaseEntity:   m.BaseModel.ToDomain(),
		ClientID:     m.ClientID,
		Type:         m.Type,
		AmountChange: m.AmountChange,
		Currency:     m.Currency,
		PaymentID:    m.PaymentID,
		WorkID:       m.WorkID,
		Note:         m.Note,
	}
}

// FromDomain populates the persistence model from a domain BalanceMovement entity.
func (m *BalanceMovementModel) FromDomain(mv *client.BalanceMovement) {
	m.FromDomainBaseEntity(mv.BaseEntity)
	m.ClientID = mv.ClientID
	m.Type = mv.Type
	m.AmountChange = mv.AmountChange
	m.Currency = mv.Currency
	m.PaymentID = mv.PaymentID
	m.WorkID = mv.WorkID
	m.Note = mv.Note
}

// BalanceMovementModelFromDomain creates a new persistence model from a domain BalanceMovement entity.
func BalanceMovementModelFromDomain(mv *client.BalanceMovement) *BalanceMovementModel {
	m := &BalanceMovementModel{}
	m.FromDomain(mv)
	return m
}
