package billing

import (
	"context"
	"testing"
	"time"

	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIdempotencyKey(ctx context.Context, key string) (*billing.Payment, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]*billing.Payment, int64, error) {
	args := m.Called(ctx, clientID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Payment), args.Get(1).(int64), args.Error(2)
}

type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) Create(ctx context.Context, allocation *billing.PaymentAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*billing.PaymentAllocation, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.PaymentAllocation), args.Error(1)
}

func (m *MockAllocationRepository) SumByWorkID(ctx context.Context, workID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, workID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetForUpdate(ctx context.Context, clientID uuid.UUID) (*client.ClientBalance, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ClientBalance), args.Error(1)
}

func (m *MockBalanceRepository) Get(ctx context.Context, clientID uuid.UUID) (*client.ClientBalance, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ClientBalance), args.Error(1)
}

func (m *MockBalanceRepository) Update(ctx context.Context, balance *client.ClientBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *client.BalanceMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]*client.BalanceMovement, int64, error) {
	args := m.Called(ctx, clientID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*client.BalanceMovement), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovementRepository) SumByClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMovementRepository) SumDebitsByWorkID(ctx context.Context, workID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, workID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockWorkRepository struct {
	mock.Mock
}

func (m *MockWorkRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.Work, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*work.Work), args.Error(1)
}

func (m *MockWorkRepository) FindByIDForClient(ctx context.Context, clientID, id uuid.UUID) (*work.Work, error) {
	args := m.Called(ctx, clientID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*work.Work), args.Error(1)
}

func (m *MockWorkRepository) FindByIDsForClient(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]*work.Work, error) {
	args := m.Called(ctx, clientID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*work.Work), args.Error(1)
}

type MockFixedBasePriceRepository struct {
	mock.Mock
}

func (m *MockFixedBasePriceRepository) Create(ctx context.Context, price *pricing.FixedBasePrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

func (m *MockFixedBasePriceRepository) FindByWorkID(ctx context.Context, workID uuid.UUID) (*pricing.FixedBasePrice, error) {
	args := m.Called(ctx, workID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.FixedBasePrice), args.Error(1)
}

type MockOverrideRepository struct {
	mock.Mock
}

func (m *MockOverrideRepository) Create(ctx context.Context, override *pricing.PriceOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOverrideRepository) FindByFixedPriceID(ctx context.Context, fixedBasePriceID uuid.UUID) ([]*pricing.PriceOverride, error) {
	args := m.Called(ctx, fixedBasePriceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.PriceOverride), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) List(ctx context.Context, filter shared.Filter) ([]*client.Client, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*client.Client), args.Get(1).(int64), args.Error(2)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// =============================================================================
// Fixture
// =============================================================================

type paymentServiceFixture struct {
	paymentRepo    *MockPaymentRepository
	allocationRepo *MockAllocationRepository
	balanceRepo    *MockBalanceRepository
	movementRepo   *MockMovementRepository
	workRepo       *MockWorkRepository
	fixedRepo      *MockFixedBasePriceRepository
	overrideRepo   *MockOverrideRepository
	clientRepo     *MockClientRepository
	idemStore      *MockIdempotencyStore
	service        *PaymentService
}

func newPaymentServiceFixture() *paymentServiceFixture {
	f := &paymentServiceFixture{
		paymentRepo:    new(MockPaymentRepository),
		allocationRepo: new(MockAllocationRepository),
		balanceRepo:    new(MockBalanceRepository),
		movementRepo:   new(MockMovementRepository),
		workRepo:       new(MockWorkRepository),
		fixedRepo:      new(MockFixedBasePriceRepository),
		overrideRepo:   new(MockOverrideRepository),
		clientRepo:     new(MockClientRepository),
		idemStore:      new(MockIdempotencyStore),
	}
	repos := RepoSet{
		Works:       f.workRepo,
		FixedPrices: f.fixedRepo,
		Overrides:   f.overrideRepo,
		Allocations: f.allocationRepo,
		Movements:   f.movementRepo,
	}
	scope := NewNoOpTransactionScope(
		f.paymentRepo, f.allocationRepo, f.balanceRepo, f.movementRepo,
		f.workRepo, f.fixedRepo, f.overrideRepo,
	)
	f.service = NewPaymentService(repos, f.paymentRepo, f.clientRepo, scope, f.idemStore)
	return f
}

func (f *paymentServiceFixture) withClient(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.NewClient("Praxis West", "STANDARD")
	require.NoError(t, err)
	f.clientRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	return c
}

// withPricedWork wires a work with a fixed price and existing payments so
// that its unpaid amount is price-paid.
func (f *paymentServiceFixture) withPricedWork(t *testing.T, c *client.Client, price, paid string) *work.Work {
	t.Helper()
	w, err := work.NewWork(c.ID, work.KindCrown, "crown")
	require.NoError(t, err)

	amount, err := valueobject.NewMoneyFromString(price, valueobject.EUR)
	require.NoError(t, err)
	fixed, err := pricing.NewFixedBasePrice(w.ID, pricing.RuleResult{
		RuleID:     uuid.New(),
		BasePrice:  amount,
		PriceGroup: c.PriceGroup,
	})
	require.NoError(t, err)

	f.fixedRepo.On("FindByWorkID", mock.Anything, w.ID).Return(fixed, nil)
	f.overrideRepo.On("FindByFixedPriceID", mock.Anything, fixed.ID).Return([]*pricing.PriceOverride{}, nil)
	f.allocationRepo.On("SumByWorkID", mock.Anything, w.ID).Return(decimal.RequireFromString(paid), nil)
	f.movementRepo.On("SumDebitsByWorkID", mock.Anything, w.ID).Return(decimal.Zero, nil)
	return w
}

// =============================================================================
// Preview
// =============================================================================

func TestPreviewPayment(t *testing.T) {
	f := newPaymentServiceFixture()
	c := f.withClient(t)
	w1 := f.withPricedWork(t, c, "100.00", "0")
	w2 := f.withPricedWork(t, c, "50.00", "20.00")

	f.workRepo.On("FindByIDsForClient", mock.Anything, c.ID, mock.Anything).
		Return([]*work.Work{w1, w2}, nil)

	preview, err := f.service.PreviewPayment(context.Background(), PreviewPaymentRequest{
		ClientID: c.ID,
		Amount:   decimal.RequireFromString("130.00"),
		WorkIDs:  []uuid.UUID{w1.ID, w2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, preview.ClientID)
	assert.True(t, preview.PaymentAmount.Equal(decimal.RequireFromString("130.00")))
	assert.True(t, preview.TotalAllocated.Equal(decimal.RequireFromString("130.00")))
	assert.True(t, preview.RemainingUnallocated.IsZero())
	assert.False(t, preview.RequiresBalanceConfirmation)
	require.NotNil(t, preview.Warnings)
	assert.Empty(t, preview.Warnings)
	// preview writes nothing
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.allocationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPreviewPayment_WarnsOnRemainder(t *testing.T) {
	f := newPaymentServiceFixture()
	c := f.withClient(t)
	w1 := f.withPricedWork(t, c, "40.00", "0")

	f.workRepo.On("FindByIDsForClient", mock.Anything, c.ID, mock.Anything).
		Return([]*work.Work{w1}, nil)

	preview, err := f.service.PreviewPayment(context.Background(), PreviewPaymentRequest{
		ClientID: c.ID,
		Amount:   decimal.RequireFromString("100.00"),
		WorkIDs:  []uuid.UUID{w1.ID},
	})
	require.NoError(t, err)
	assert.True(t, preview.RequiresBalanceConfirmation)
	require.Len(t, preview.Warnings, 1)
	assert.Contains(t, preview.Warnings[0], "remainder")
}

func TestPreviewPayment_OwnershipViolation(t *testing.T) {
	f := newPaymentServiceFixture()
	c := f.withClient(t)
	w1 := f.withPricedWork(t, c, "100.00", "0")
	foreign := uuid.New()

	// only one of the two requested works belongs to the client
	f.workRepo.On("FindByIDsForClient", mock.Anything, c.ID, mock.Anything).
		Return([]*work.Work{w1}, nil)

	_, err := f.service.PreviewPayment(context.Background(), PreviewPaymentRequest{
		ClientID: c.ID,
		Amount:   decimal.RequireFromString("50.00"),
		WorkIDs:  []uuid.UUID{w1.ID, foreign},
	})
	assert.ErrorIs(t, err, shared.ErrOwnershipViolation)
}

// =============================================================================
// Registration
// =============================================================================

func registerRequest(c *client.Client, amount string, workIDs ...uuid.UUID) RegisterPaymentRequest {
	return RegisterPaymentRequest{
		ClientID:       c.ID,
		Amount:         decimal.RequireFromString(amount),
		WorkIDs:        workIDs,
		Method:         "BANK_TRANSFER",
		IdempotencyKey: "stmt-2026-08-0042",
	}
}

func TestRegisterPayment(t *testing.T) {
	f := newPaymentServiceFixture()
	c := f.withClient(t)
	w1 := f.withPricedWork(t, c, "100.00", "0")

	f.idemStore.On("IsProcessed", mock.Anything, "stmt-2026-08-0042").Return(false, nil)
	f.paymentRepo.On("FindByIdempotencyKey", mock.Anything, "stmt-2026-08-0042").Return(nil, shared.ErrNotFound)
	f.workRepo.On("FindByIDsForClient", mock.Anything, c.ID, mock.Anything).
		Return([]*work.Work{w1}, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Payment")).Return(nil)
	f.allocationRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.PaymentAllocation")).Return(nil)
	f.idemStore.On("MarkProcessed", mock.Anything, "stmt-2026-08-0042", mock.Anything).Return(true, nil)

	payment, err := f.service.RegisterPayment(context.Background(), registerRequest(c, "100.00", w1.ID))
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("100.00")))
	require.Len(t, payment.Allocations, 1)
	assert.Equal(t, w1.ID, payment.Allocations[0].WorkID)
	assert.True(t, payment.RemainderToBalance.IsZero())
	// no remainder, so the ledger stays untouched
	f.movementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.paymentRepo.AssertExpectations(t)
}

func TestRegisterPayment_UnconfirmedRemainder(t *testing.T) {
	f := newPaymentServiceFixture()
	c := f.withClient(t)
	w1 := f.withPricedWork(t, c, "40.00", "0")

	f.idemStore.On("IsProcessed", mock.Anything, mock.Anything).Return(false, nil)
	f.paymentRepo.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	f.workRepo.On("FindByIDsForClient", mock.Anything, c.ID, mock.Anything).
		Return([]*work.Work{w1}, nil)

	_, err := f.service.RegisterPayment(context.Background(), registerRequest(c, "100.00", w1.ID))
	assert.ErrorIs(t, err, shared.ErrUnconfirmedRemainder)
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterPayment_RemainderToBalance(t *testing.T) {
	f := newPaymentServiceFixture()
	c := f.withClient(t)
	w1 := f.withPricedWork(t, c, "40.00", "0")

	balance, err := client.NewClientBalance(c.ID)
	require.NoError(t, err)

	f.idemStore.On("IsProcessed", mock.Anything, mock.Anything).Return(false, nil)
	f.paymentRepo.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	f.workRepo.On("FindByIDsForClient", mock.Anything, c.ID, mock.Anything).
		Return([]*work.Work{w1}, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Payment")).Return(nil)
	f.allocationRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.PaymentAllocation")).Return(nil)
	f.balanceRepo.On("GetForUpdate", mock.Anything, c.ID).Return(balance, nil)
	f.movementRepo.On("Create", mock.Anything, mock.AnythingOfType("*client.BalanceMovement")).Return(nil)
	f.balanceRepo.On("Update", mock.Anything, balance).Return(nil)
	f.idemStore.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	req := registerRequest(c, "100.00", w1.ID)
	req.MoveRemainderToBalance = true

	payment, err := f.service.RegisterPayment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, payment.RemainderToBalance.Equal(decimal.RequireFromString("60.00")))
	// cache updated in the same flow
	assert.True(t, balance.Amount.Equal(decimal.RequireFromString("60.00")))
	f.movementRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*client.BalanceMovement"))
}

func TestRegisterPayment_ReplayFromStore(t *testing.T) {
	f := newPaymentServiceFixture()
	c, err := client.NewClient("Praxis West", "STANDARD")
	require.NoError(t, err)

	amount, err := valueobject.NewMoneyFromString("100.00", valueobject.EUR)
	require.NoError(t, err)
	existing, err := billing.NewPayment(c.ID, amount, billing.PaymentMethodBankTransfer, "stmt-2026-08-0042")
	require.NoError(t, err)

	f.idemStore.On("IsProcessed", mock.Anything, "stmt-2026-08-0042").Return(true, nil)
	f.paymentRepo.On("FindByIdempotencyKey", mock.Anything, "stmt-2026-08-0042").Return(existing, nil)
	f.allocationRepo.On("FindByPaymentID", mock.Anything, existing.ID).
		Return([]*billing.PaymentAllocation{}, nil)

	payment, err := f.service.RegisterPayment(context.Background(), registerRequest(c, "100.00", uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, payment.ID)
	// replay never re-validates or writes
	f.workRepo.AssertNotCalled(t, "FindByIDsForClient", mock.Anything, mock.Anything, mock.Anything)
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterPayment_ReplayAfterCacheLoss(t *testing.T) {
	f := newPaymentServiceFixture()
	c := f.withClient(t)
	// the original commit already settled this work in full
	w1 := f.withPricedWork(t, c, "100.00", "100.00")

	amount, err := valueobject.NewMoneyFromString("100.00", valueobject.EUR)
	require.NoError(t, err)
	existing, err := billing.NewPayment(c.ID, amount, billing.PaymentMethodBankTransfer, "stmt-2026-08-0042")
	require.NoError(t, err)
	alloc, err := billing.NewPaymentAllocation(existing.ID, w1.ID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	// cache cold (restart or expired TTL); the payment row is still there
	f.idemStore.On("IsProcessed", mock.Anything, "stmt-2026-08-0042").Return(false, nil)
	f.paymentRepo.On("FindByIdempotencyKey", mock.Anything, "stmt-2026-08-0042").Return(existing, nil)
	f.allocationRepo.On("FindByPaymentID", mock.Anything, existing.ID).
		Return([]*billing.PaymentAllocation{alloc}, nil)

	payment, err := f.service.RegisterPayment(context.Background(), registerRequest(c, "100.00", w1.ID))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, payment.ID)
	require.Len(t, payment.Allocations, 1)
	// replay must not re-validate the plan against the settled dues
	f.workRepo.AssertNotCalled(t, "FindByIDsForClient", mock.Anything, mock.Anything, mock.Anything)
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterPayment_ReplayFromUniqueConstraint(t *testing.T) {
	f := newPaymentServiceFixture()
	c := f.withClient(t)
	w1 := f.withPricedWork(t, c, "100.00", "0")

	amount, err := valueobject.NewMoneyFromString("100.00", valueobject.EUR)
	require.NoError(t, err)
	existing, err := billing.NewPayment(c.ID, amount, billing.PaymentMethodBankTransfer, "stmt-2026-08-0042")
	require.NoError(t, err)

	// cold cache; the concurrent winner commits between the key pre-check
	// and this transaction's insert, so only the constraint catches it
	f.idemStore.On("IsProcessed", mock.Anything, mock.Anything).Return(false, nil)
	f.paymentRepo.On("FindByIdempotencyKey", mock.Anything, "stmt-2026-08-0042").Return(nil, shared.ErrNotFound).Once()
	f.workRepo.On("FindByIDsForClient", mock.Anything, c.ID, mock.Anything).
		Return([]*work.Work{w1}, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)
	f.paymentRepo.On("FindByIdempotencyKey", mock.Anything, "stmt-2026-08-0042").Return(existing, nil)
	f.allocationRepo.On("FindByPaymentID", mock.Anything, existing.ID).
		Return([]*billing.PaymentAllocation{}, nil)

	payment, err := f.service.RegisterPayment(context.Background(), registerRequest(c, "100.00", w1.ID))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, payment.ID)
	f.allocationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterPayment_InactiveClient(t *testing.T) {
	f := newPaymentServiceFixture()
	c, err := client.NewClient("Closed Praxis", "STANDARD")
	require.NoError(t, err)
	c.Deactivate()
	f.clientRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	f.idemStore.On("IsProcessed", mock.Anything, mock.Anything).Return(false, nil)
	f.paymentRepo.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	_, err = f.service.RegisterPayment(context.Background(), registerRequest(c, "100.00", uuid.New()))
	assert.Error(t, err)
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterPayment_InvalidKey(t *testing.T) {
	f := newPaymentServiceFixture()
	c, err := client.NewClient("Praxis", "STANDARD")
	require.NoError(t, err)

	req := registerRequest(c, "100.00", uuid.New())
	req.IdempotencyKey = "short"

	_, err = f.service.RegisterPayment(context.Background(), req)
	assert.Error(t, err)
}

// =============================================================================
// Work balance projection
// =============================================================================

func TestGetWorkBalance(t *testing.T) {
	cases := []struct {
		name   string
		price  string
		paid   string
		status string
		remain string
	}{
		{"unpaid", "100.00", "0", WorkStatusUnpaid, "100.00"},
		{"partially paid", "100.00", "40.00", WorkStatusPartiallyPaid, "60.00"},
		{"paid", "100.00", "100.00", WorkStatusPaid, "0"},
		{"overpaid", "100.00", "120.00", WorkStatusOverpaid, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentServiceFixture()
			c, err := client.NewClient("Praxis", "STANDARD")
			require.NoError(t, err)
			w := f.withPricedWork(t, c, tc.price, tc.paid)

			f.workRepo.On("FindByID", mock.Anything, w.ID).Return(w, nil)
			f.workRepo.On("FindByIDsForClient", mock.Anything, c.ID, mock.Anything).
				Return([]*work.Work{w}, nil)

			svc := NewWorkBalanceService(RepoSet{
				Works:       f.workRepo,
				FixedPrices: f.fixedRepo,
				Overrides:   f.overrideRepo,
				Allocations: f.allocationRepo,
				Movements:   f.movementRepo,
			})
			balance, err := svc.GetWorkBalance(context.Background(), w.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.status, balance.Status)
			assert.True(t, balance.Remaining.Equal(decimal.RequireFromString(tc.remain)), "remaining %s", balance.Remaining)
		})
	}
}
