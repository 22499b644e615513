package models

import (
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/google/uuid"
)

// WorkModel is the persistence model for the Work domain entity.
type WorkModel struct {
	AggregateModel
	ClientID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind           work.Kind  `gorm:"type:varchar(20);not null"`
	Description    string     `gorm:"type:text"`
	Family         string     `gorm:"type:varchar(100);not null"`
	Type           string     `gorm:"type:varchar(100);not null"`
	Constitution   string     `gorm:"type:varchar(100)"`
	Technique      string     `gorm:"type:varchar(100)"`
	CoreMaterialID *uuid.UUID `gorm:"type:uuid"`
	Units          int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (WorkModel) TableName() string {
	return "works"
}

// ToDomain converts the persistence model to a domain Work entity.
func (m *WorkModel) ToDomain() *work.Work {
	return &work.Work{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClientID:          m.ClientID,
		Kind:              m.Kind,
		Description:       m.Description,
		Family:            m.Family,
		Type:              m.Type,
		Constitution:      m.Constitution,
		Technique:         m.Technique,
		CoreMaterialID:    m.CoreMaterialID,
		Units:             m.Units,
	}
}

// FromDomain populates the persistence model from a domain Work entity.
func (m *WorkModel) FromDomain(w *work.Work) {
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	m.ClientID = w.ClientID
	m.Kind = w.Kind
	m.Description = w.Description
	m.Family = w.Family
	m.Type = w.Type
	m.Constitution = w.Constitution
	m.Technique = w.Technique
	m.CoreMaterialID = w.CoreMaterialID
	m.Units = w.Units
}

// WorkModelFromDomain creates a new persistence model from a domain Work entity.
func WorkModelFromDomain(w *work.Work) *WorkModel {
	m := &WorkModel{}
	m.FromDomain(w)
	return m
}
