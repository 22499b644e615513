package models

import (
	"time"

	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingRuleModel is the persistence model for the PricingRule domain entity.
// Rules form the immutable price list; rows are only ever inserted.
type PricingRuleModel struct {
	BaseModel
	Family         string               `gorm:"type:varchar(100);not null;index:idx_rule_lookup,priority:1"`
	Type           string               `gorm:"type:varchar(100);not null;index:idx_rule_lookup,priority:2"`
	PriceGroup     string               `gorm:"type:varchar(50);not null;index:idx_rule_lookup,priority:3"`
	Constitution   string               `gorm:"type:varchar(100)"`
	Technique      string               `gorm:"type:varchar(100)"`
	CoreMaterialID *uuid.UUID           `gorm:"type:uuid"`
	BasePrice      *decimal.Decimal     `gorm:"type:decimal(18,4)"`
	PricePerUnit   *decimal.Decimal     `gorm:"type:decimal(18,4)"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	ValidFrom      time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// ToDomain converts the persistence model to a domain PricingRule entity.
func (m *PricingRuleModel) ToDomain() *pricing.PricingRule {
	return &pricing.PricingRule{
		BaseEntity:     m.BaseModel.ToDomain(),
		Family:         m.Family,
		Type:           m.Type,
		PriceGroup:     m.PriceGroup,
		Constitution:   m.Constitution,
		Technique:      m.Technique,
		CoreMaterialID: m.CoreMaterialID,
		BasePrice:      m.BasePrice,
		PricePerUnit:   m.PricePerUnit,
		Currency:       m.Currency,
		ValidFrom:      m.ValidFrom,
	}
}

// FromDomain populates the persistence model from a domain PricingRule entity.
func (m *PricingRuleModel) FromDomain(r *pricing.PricingRule) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Family = r.Family
	m.Type = r.Type
	m.PriceGroup = r.PriceGroup
	m.Constitution = r.Constitution
	m.Technique = r.Technique
	m.CoreMaterialID = r.CoreMaterialID
	m.BasePrice = r.BasePrice
	m.PricePerUnit = r.PricePerUnit
	m.Currency = r.Currency
	m.ValidFrom = r.ValidFrom
}

// PricingRuleModelFromDomain creates a new persistence model from a domain PricingRule entity.
func PricingRuleModelFromDomain(r *pricing.PricingRule) *PricingRuleModel {
	m := &PricingRuleModel{}
	m.FromDomain(r)
	return m
}

// FixedBasePriceModel is the persistence model for the FixedBasePrice domain
// entity. The unique index on work_id is the authority for the one-time
// fixation guarantee.
type FixedBasePriceModel struct {
	BaseModel
	WorkID     uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_fixed_price_work"`
	Amount     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency   valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	PriceGroup string               `gorm:"type:varchar(50);not null"`
	RuleID     uuid.UUID            `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (FixedBasePriceModel) TableName() string {
	return "fixed_base_prices"
}

// ToDomain converts the persistence model to a domain FixedBasePrice entity.
func (m *FixedBasePriceModel) ToDomain() *pricing.FixedBasePrice {
	// The currency column is not null, so construction cannot fail here.
	amount, _ := valueobject.NewMoney(m.Amount, m.Currency)
	return &pricing.FixedBasePrice{
		BaseEntity: m.BaseModel.ToDomain(),
		WorkID:     m.WorkID,
		Amount:     amount,
		PriceGroup: m.PriceGroup,
		RuleID:     m.RuleID,
	}
}

// FromDomain populates the persistence model from a domain FixedBasePrice entity.
func (m *FixedBasePriceModel) FromDomain(p *pricing.FixedBasePrice) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.WorkID = p.WorkID
	m.Amount = p.Amount.Amount()
	m.Currency = p.Amount.Currency()
	m.PriceGroup = p.PriceGroup
	m.RuleID = p.RuleID
}

// FixedBasePriceModelFromDomain creates a new persistence model from a domain FixedBasePrice entity.
func FixedBasePriceModelFromDomain(p *pricing.FixedBasePrice) *FixedBasePriceModel {
	m := &FixedBasePriceModel{}
	m.FromDomain(p)
	return m
}

// PriceOverrideModel is the persistence model for the PriceOverride domain
// entity. Overrides are append-only; rows are never updated or deleted.
type PriceOverrideModel struct {
	BaseModel
	FixedBasePriceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Adjustment       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason           string          `gorm:"type:text;not null"`
	CreatedBy        *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PriceOverrideModel) TableName() string {
	return "price_overrides"
}

// ToDomain converts the persistence model to a domain PriceOverride entity.
func (m *PriceOverrideModel) ToDomain() *pricing.PriceOverride {
	return &pricing.PriceOverride{
		BaseEntity:       m.BaseModel.ToDomain(),
		FixedBasePriceID: m.FixedBasePriceID,
		Adjustment:       m.Adjustment,
		Reason:           m.Reason,
		CreatedBy:        m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain PriceOverride entity.
func (m *PriceOverrideModel) FromDomain(o *pricing.PriceOverride) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.FixedBasePriceID = o.FixedBasePriceID
	m.Adjustment = o.Adjustment
	m.Reason = o.Reason
	m.CreatedBy = o.CreatedBy
}

// PriceOverrideModelFromDomain creates a new persistence model from a domain PriceOverride entity.
func PriceOverrideModelFromDomain(o *pricing.PriceOverride) *PriceOverrideModel {
	m := &PriceOverrideModel{}
	m.FromDomain(o)
	return m
}
