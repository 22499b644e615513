package billing

import (
	"context"

	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/work"
)

// TransactionScope provides transactional access to the repositories a
// payment registration touches. Everything executed within one scope commits
// or rolls back atomically: a registration never leaves a payment header
// without its allocations or a ledger movement without its cache update.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories scoped to
// one shared database transaction. Re-validation of dues happens through
// these, not the ambient repositories, so the committed plan is built from
// the same snapshot it is written into.
type TransactionalRepositories interface {
	PaymentRepo() billing.PaymentRepository
	AllocationRepo() billing.AllocationRepository
	BalanceRepo() client.BalanceRepository
	MovementRepo() client.MovementRepository
	WorkRepo() work.Repository
	FixedPriceRepo() pricing.FixedBasePriceRepository
	OverrideRepo() pricing.OverrideRepository
}

// NoOpTransactionScope runs the function against fixed repositories without
// a real transaction. For tests.
type NoOpTransactionScope struct {
	paymentRepo    billing.PaymentRepository
	allocationRepo billing.AllocationRepository
	balanceRepo    client.BalanceRepository
	movementRepo   client.MovementRepository
	workRepo       work.Repository
	fixedPriceRepo pricing.FixedBasePriceRepository
	overrideRepo   pricing.OverrideRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	paymentRepo billing.PaymentRepository,
	allocationRepo billing.AllocationRepository,
	balanceRepo client.BalanceRepository,
	movementRepo client.MovementRepository,
	workRepo work.Repository,
	fixedPriceRepo pricing.FixedBasePriceRepository,
	overrideRepo pricing.OverrideRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		paymentRepo:    paymentRepo,
		allocationRepo: allocationRepo,
		balanceRepo:    balanceRepo,
		movementRepo:   movementRepo,
		workRepo:       workRepo,
		fixedPriceRepo: fixedPriceRepo,
		overrideRepo:   overrideRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository            { return s.paymentRepo }
func (s *NoOpTransactionScope) AllocationRepo() billing.AllocationRepository      { return s.allocationRepo }
func (s *NoOpTransactionScope) BalanceRepo() client.BalanceRepository             { return s.balanceRepo }
func (s *NoOpTransactionScope) MovementRepo() client.MovementRepository           { return s.movementRepo }
func (s *NoOpTransactionScope) WorkRepo() work.Repository                         { return s.workRepo }
func (s *NoOpTransactionScope) FixedPriceRepo() pricing.FixedBasePriceRepository  { return s.fixedPriceRepo }
func (s *NoOpTransactionScope) OverrideRepo() pricing.OverrideRepository          { return s.overrideRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
