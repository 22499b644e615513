package persistence

import (
	"context"

	appbilling "github.com/dentallab/backend/internal/application/billing"
	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/work"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Registration and balance writes run their whole read-validate-write cycle
// inside one transaction through this scope.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories scoped
// to the current transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// PaymentRepo returns the payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// AllocationRepo returns the allocation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AllocationRepo() billing.AllocationRepository {
	return NewGormPaymentAllocationRepository(r.tx)
}

// BalanceRepo returns the client balance repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BalanceRepo() client.BalanceRepository {
	return NewGormClientBalanceRepository(r.tx)
}

// MovementRepo returns the balance movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MovementRepo() client.MovementRepository {
	return NewGormBalanceMovementRepository(r.tx)
}

// WorkRepo returns the work repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WorkRepo() work.Repository {
	return NewGormWorkRepository(r.tx)
}

// FixedPriceRepo returns the fixed base price repository scoped to the current transaction.
func (r *gormTransactionalRepositories) FixedPriceRepo() pricing.FixedBasePriceRepository {
	return NewGormFixedBasePriceRepository(r.tx)
}

// OverrideRepo returns the price override repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OverrideRepo() pricing.OverrideRepository {
	return NewGormPriceOverrideRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
