package client

import (
	"context"
	"errors"

	appbilling "github.com/dentallab/backend/internal/application/billing"
	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceService manages the client balance ledger. Every write runs in one
// transaction that locks the client's balance row, appends the movement and
// updates the cache, so the invariant cache == Σ movements holds at every
// commit boundary.
type BalanceService struct {
	balanceRepo  client.BalanceRepository
	movementRepo client.MovementRepository
	clientRepo   client.Repository
	scope        appbilling.TransactionScope
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(
	balanceRepo client.BalanceRepository,
	movementRepo client.MovementRepository,
	clientRepo client.Repository,
	scope appbilling.TransactionScope,
) *BalanceService {
	return &BalanceService{
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		clientRepo:   clientRepo,
		scope:        scope,
	}
}

// GetBalance returns the cached balance. A client without movements reads as
// an active zero balance; the row is only materialized on first write.
func (s *BalanceService) GetBalance(ctx context.Context, clientID uuid.UUID) (*BalanceResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	balance, err := s.balanceRepo.Get(ctx, clientID)
	if errors.Is(err, shared.ErrNotFound) {
		return &BalanceResponse{
			ClientID: clientID,
			Amount:   decimal.Zero,
			Currency: string(valueobject.DefaultCurrency),
			Active:   true,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	response := ToBalanceResponse(balance)
	return &response, nil
}

// GetLedger returns a page of the client's movements together with the full
// ledger total.
func (s *BalanceService) GetLedger(ctx context.Context, clientID uuid.UUID, filter shared.Filter) (*LedgerResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	movements, total, err := s.movementRepo.ListByClient(ctx, clientID, filter)
	if err != nil {
		return nil, err
	}
	ledgerTotal, err := s.movementRepo.SumByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	responses := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		responses = append(responses, ToMovementResponse(m))
	}
	return &LedgerResponse{
		ClientID:    clientID,
		LedgerTotal: ledgerTotal,
		Movements:   responses,
		Total:       total,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
	}, nil
}

// Credit adds money to the client's balance
func (s *BalanceService) Credit(ctx context.Context, clientID uuid.UUID, req CreditBalanceRequest) (*BalanceResponse, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	note := req.Note
	if note == "" {
		note = "manual credit"
	}
	return s.write(ctx, clientID, func(balance *client.ClientBalance) (*client.BalanceMovement, error) {
		return client.NewCreditMovement(clientID, amount, note)
	})
}

// ApplyToWork spends balance money against one of the client's works. The
// amount must not exceed the work's remaining due nor the available balance.
func (s *BalanceService) ApplyToWork(ctx context.Context, clientID uuid.UUID, req ApplyBalanceRequest) (*BalanceResponse, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidInput
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	var response *BalanceResponse
	err = s.scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		dues, err := appbilling.LoadWorkDues(ctx, repos, clientID, []uuid.UUID{req.WorkID})
		if err != nil {
			return err
		}
		if req.Amount.GreaterThan(dues[0].Unpaid()) {
			return shared.ErrAllocationExceedsDue
		}

		balance, err := repos.BalanceRepo().GetForUpdate(ctx, clientID)
		if err != nil {
			return err
		}
		movement, err := client.NewDebitMovement(clientID, amount, "applied to work")
		if err != nil {
			return err
		}
		movement.WithWork(req.WorkID)
		if err := balance.Apply(movement); err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Update(ctx, balance); err != nil {
			return err
		}
		r := ToBalanceResponse(balance)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Adjust applies a signed manual correction to the balance
func (s *BalanceService) Adjust(ctx context.Context, clientID uuid.UUID, req AdjustBalanceRequest) (*BalanceResponse, error) {
	return s.write(ctx, clientID, func(balance *client.ClientBalance) (*client.BalanceMovement, error) {
		return client.NewAdjustmentMovement(clientID, req.Change, balance.Currency, req.Note)
	})
}

// RecomputeCache rebuilds the cached amount from the ledger under the row
// lock. A no-op when the cache is already consistent.
func (s *BalanceService) RecomputeCache(ctx context.Context, clientID uuid.UUID) (*BalanceResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	var response *BalanceResponse
	err := s.scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		balance, err := repos.BalanceRepo().GetForUpdate(ctx, clientID)
		if err != nil {
			return err
		}
		ledgerTotal, err := repos.MovementRepo().SumByClient(ctx, clientID)
		if err != nil {
			return err
		}
		if !balance.Amount.Equal(ledgerTotal) {
			balance.Reconcile(ledgerTotal)
			if err := repos.BalanceRepo().Update(ctx, balance); err != nil {
				return err
			}
		}
		r := ToBalanceResponse(balance)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// CheckIntegrity compares the cached amount against the ledger sum without
// repairing anything.
func (s *BalanceService) CheckIntegrity(ctx context.Context, clientID uuid.UUID) (*IntegrityResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	cached := decimal.Zero
	balance, err := s.balanceRepo.Get(ctx, clientID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		cached = balance.Amount
	}
	ledgerTotal, err := s.movementRepo.SumByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &IntegrityResponse{
		ClientID:     clientID,
		CachedAmount: cached,
		LedgerAmount: ledgerTotal,
		Consistent:   cached.Equal(ledgerTotal),
	}, nil
}

// write executes a single-movement balance write in one transaction: lock
// the row, build the movement, apply it to the cache, append and update.
func (s *BalanceService) write(ctx context.Context, clientID uuid.UUID, build func(*client.ClientBalance) (*client.BalanceMovement, error)) (*BalanceResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	var response *BalanceResponse
	err := s.scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		balance, err := repos.BalanceRepo().GetForUpdate(ctx, clientID)
		if err != nil {
			return err
		}
		movement, err := build(balance)
		if err != nil {
			return err
		}
		if err := balance.Apply(movement); err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Update(ctx, balance); err != nil {
			return err
		}
		r := ToBalanceResponse(balance)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
