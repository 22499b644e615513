package work

import (
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Kind identifies the concrete work variant. It is the dispatch key for the
// pricing view: each kind projects the work's attributes differently.
type Kind string

const (
	KindCrown  Kind = "CROWN"
	KindBridge Kind = "BRIDGE"
)

// IsValid returns true if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindCrown, KindBridge:
		return true
	}
	return false
}

// PricingView is the uniform projection of a work's pricing-relevant
// attributes, independent of the concrete work kind.
type PricingView interface {
	Family() string
	Type() string
	Constitution() string
	Technique() string
	CoreMaterialID() *uuid.UUID
	UnitCount() int
}

// Work is a unit of lab work commissioned by a client. The financial engine
// treats it as a collaborator: it only reads ownership and pricing attributes.
type Work struct {
	shared.BaseAggregateRoot
	ClientID       uuid.UUID
	Kind           Kind
	Description    string
	Family         string
	Type           string
	Constitution   string
	Technique      string
	CoreMaterialID *uuid.UUID
	Units          int // number of bridge elements; unused for crowns
}

// NewWork creates a new work for a client
func NewWork(clientID uuid.UUID, kind Kind, description string) (*Work, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_WORK_KIND", "Unknown work kind")
	}
	return &Work{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		Kind:              kind,
		Description:       description,
	}, nil
}

// BelongsTo reports whether the work is owned by the given client
func (w *Work) BelongsTo(clientID uuid.UUID) bool {
	return w.ClientID == clientID
}

// PricingView returns the kind-specific pricing projection for the work
func (w *Work) PricingView() (PricingView, error) {
	switch w.Kind {
	case KindCrown:
		return crownView{w}, nil
	case KindBridge:
		return bridgeView{w}, nil
	default:
		return nil, shared.NewDomainError("INVALID_WORK_KIND", "No pricing view for work kind "+string(w.Kind))
	}
}

// crownView prices a single crown: always one unit.
type crownView struct {
	w *Work
}

func (v crownView) Family() string              { return v.w.Family }
func (v crownView) Type() string                { return v.w.Type }
func (v crownView) Constitution() string        { return v.w.Constitution }
func (v crownView) Technique() string           { return v.w.Technique }
func (v crownView) CoreMaterialID() *uuid.UUID  { return v.w.CoreMaterialID }
func (v crownView) UnitCount() int              { return 1 }

// bridgeView prices a bridge by its element count.
type bridgeView struct {
	w *Work
}

func (v bridgeView) Family() string             { return v.w.Family }
func (v bridgeView) Type() string               { return v.w.Type }
func (v bridgeView) Constitution() string       { return v.w.Constitution }
func (v bridgeView) Technique() string          { return v.w.Technique }
func (v bridgeView) CoreMaterialID() *uuid.UUID { return v.w.CoreMaterialID }
func (v bridgeView) UnitCount() int             { return v.w.Units }
