package billing

import (
	"context"
	"errors"
	"time"

	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultIdempotencyTTL is how long a processed idempotency key stays in the
// fast-path store. The database unique constraint remains the authority
// forever; the TTL only bounds the cache.
const DefaultIdempotencyTTL = 24 * time.Hour

// RepoSet bundles the ambient (non-transactional) repositories used for
// previews and reads. It satisfies DuesRepositories.
type RepoSet struct {
	Works       work.Repository
	FixedPrices pricing.FixedBasePriceRepository
	Overrides   pricing.OverrideRepository
	Allocations billing.AllocationRepository
	Movements   client.MovementRepository
}

func (r RepoSet) WorkRepo() work.Repository                        { return r.Works }
func (r RepoSet) FixedPriceRepo() pricing.FixedBasePriceRepository { return r.FixedPrices }
func (r RepoSet) OverrideRepo() pricing.OverrideRepository         { return r.Overrides }
func (r RepoSet) AllocationRepo() billing.AllocationRepository     { return r.Allocations }
func (r RepoSet) MovementRepo() client.MovementRepository          { return r.Movements }

var _ DuesRepositories = RepoSet{}

// PaymentService implements the two-phase payment flow: a side-effect-free
// preview and an idempotent registration that commits exactly the previewed
// plan semantics.
type PaymentService struct {
	repos       RepoSet
	paymentRepo billing.PaymentRepository
	clientRepo  client.Repository
	scope       TransactionScope
	idemStore   shared.IdempotencyStore
	idemTTL     time.Duration
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	repos RepoSet,
	paymentRepo billing.PaymentRepository,
	clientRepo client.Repository,
	scope TransactionScope,
	idemStore shared.IdempotencyStore,
) *PaymentService {
	return &PaymentService{
		repos:       repos,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		scope:       scope,
		idemStore:   idemStore,
		idemTTL:     DefaultIdempotencyTTL,
	}
}

// WithIdempotencyTTL overrides how long processed keys stay in the fast-path
// cache. Non-positive values keep the default.
func (s *PaymentService) WithIdempotencyTTL(ttl time.Duration) *PaymentService {
	if ttl > 0 {
		s.idemTTL = ttl
	}
	return s
}

// PreviewPayment computes the allocation plan for a tendered amount without
// changing any state. Callable any number of times.
func (s *PaymentService) PreviewPayment(ctx context.Context, req PreviewPaymentRequest) (*PreviewPaymentResponse, error) {
	if _, err := s.activeClient(ctx, req.ClientID); err != nil {
		return nil, err
	}
	dues, err := LoadWorkDues(ctx, s.repos, req.ClientID, req.WorkIDs)
	if err != nil {
		return nil, err
	}
	plan, err := billing.BuildPlan(req.Amount, dues, allocationOverrides(req.Allocations))
	if err != nil {
		return nil, err
	}
	response := ToPreviewResponse(req.ClientID, req.Amount, plan)
	return &response, nil
}

// errAlreadyRegistered aborts the registration transaction when the
// idempotency key turns out to be taken. The caller converts it into a
// successful replay.
var errAlreadyRegistered = errors.New("payment already registered under this key")

// RegisterPayment commits a payment. Retrying with the same idempotency key
// returns the originally registered payment and writes nothing.
//
// The plan is rebuilt inside the transaction against current dues, so a
// preview that went stale (another payment landed in between) fails loudly
// instead of overpaying a work. An unallocated remainder is only accepted
// when the caller confirmed moving it to the client balance.
func (s *PaymentService) RegisterPayment(ctx context.Context, req RegisterPaymentRequest) (*PaymentResponse, error) {
	if !shared.ValidIdempotencyKey(req.IdempotencyKey) {
		return nil, shared.NewDomainError("INVALID_IDEMPOTENCY_KEY", "Idempotency key must be 8-64 characters")
	}

	// Fast path: the key was seen recently, skip straight to the replay.
	if s.idemStore != nil {
		if seen, err := s.idemStore.IsProcessed(ctx, req.IdempotencyKey); err == nil && seen {
			return s.replay(ctx, req.IdempotencyKey)
		}
	}

	// The store is only a cache; the committed payment row is the authority.
	// A retry after a restart or an expired cache entry must replay here —
	// revalidating the plan would fail against dues the original commit
	// already settled.
	if _, err := s.paymentRepo.FindByIdempotencyKey(ctx, req.IdempotencyKey); err == nil {
		return s.replay(ctx, req.IdempotencyKey)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c, err := s.activeClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	payment, err := billing.NewPayment(c.ID, amount, billing.PaymentMethod(req.Method), req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	payment.WithReference(req.Reference).WithNotes(req.Notes)

	var allocations []*billing.PaymentAllocation

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		dues, err := LoadWorkDues(ctx, repos, req.ClientID, req.WorkIDs)
		if err != nil {
			return err
		}
		plan, err := billing.BuildPlan(req.Amount, dues, allocationOverrides(req.Allocations))
		if err != nil {
			return err
		}
		if plan.RemainingUnallocated.IsPositive() && !req.MoveRemainderToBalance {
			return shared.ErrUnconfirmedRemainder
		}

		// The unique constraint on idempotency_key is the authority on
		// duplicates; a concurrent retry loses here.
		if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return errAlreadyRegistered
			}
			return err
		}

		for _, line := range plan.Lines {
			if line.Allocated.IsZero() {
				continue
			}
			alloc, err := billing.NewPaymentAllocation(payment.ID, line.WorkID, line.Allocated)
			if err != nil {
				return err
			}
			if err := repos.AllocationRepo().Create(ctx, alloc); err != nil {
				return err
			}
			allocations = append(allocations, alloc)
		}

		if plan.RemainingUnallocated.IsPositive() {
			if err := s.creditRemainder(ctx, repos, payment, plan.RemainingUnallocated); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errAlreadyRegistered) {
		return s.replay(ctx, req.IdempotencyKey)
	}
	if err != nil {
		return nil, err
	}

	// Mark after commit, best effort: a lost mark only costs a DB round trip
	// on the next retry.
	if s.idemStore != nil {
		_, _ = s.idemStore.MarkProcessed(ctx, req.IdempotencyKey, s.idemTTL)
	}

	response := ToPaymentResponse(payment, allocations)
	return &response, nil
}

// creditRemainder moves the unallocated remainder onto the client balance,
// inside the registration transaction and under the balance row lock.
func (s *PaymentService) creditRemainder(ctx context.Context, repos TransactionalRepositories, payment *billing.Payment, amount decimal.Decimal) error {
	remainder, err := valueobject.NewMoney(amount, payment.Currency)
	if err != nil {
		return err
	}
	balance, err := repos.BalanceRepo().GetForUpdate(ctx, payment.ClientID)
	if err != nil {
		return err
	}
	movement, err := client.NewCreditMovement(payment.ClientID, remainder, "payment remainder")
	if err != nil {
		return err
	}
	movement.WithPayment(payment.ID)
	if err := balance.Apply(movement); err != nil {
		return err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return err
	}
	return repos.BalanceRepo().Update(ctx, balance)
}

// replay returns the payment originally committed under the key.
func (s *PaymentService) replay(ctx context.Context, key string) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	allocations, err := s.repos.Allocations.FindByPaymentID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment, allocations)
	return &response, nil
}

// GetPayment returns a registered payment with its allocations
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allocations, err := s.repos.Allocations.FindByPaymentID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment, allocations)
	return &response, nil
}

// ListPayments returns a client's payments, most recent first
func (s *PaymentService) ListPayments(ctx context.Context, clientID uuid.UUID, filter shared.Filter) (*shared.Paginated[PaymentResponse], error) {
	payments, total, err := s.paymentRepo.ListByClient(ctx, clientID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		allocations, err := s.repos.Allocations.FindByPaymentID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, ToPaymentResponse(p, allocations))
	}
	filter = filter.Normalize()
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *PaymentService) activeClient(ctx context.Context, clientID uuid.UUID) (*client.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, shared.NewDomainError("CLIENT_INACTIVE", "Client is not active")
	}
	return c, nil
}
