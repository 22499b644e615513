package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pricingapp "github.com/dentallab/backend/internal/application/pricing"
	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindCandidates(ctx context.Context, family, workType, priceGroup string, asOf time.Time) ([]*pricing.PricingRule, error) {
	args := m.Called(ctx, family, workType, priceGroup, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.PricingRule), args.Error(1)
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *pricing.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
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

type priceHandlerFixture struct {
	ruleRepo     *MockRuleRepository
	fixedRepo    *MockFixedBasePriceRepository
	overrideRepo *MockOverrideRepository
	workRepo     *MockWorkRepository
	clientRepo   *MockClientRepository
	engine       *gin.Engine
}

func newPriceHandlerFixture() *priceHandlerFixture {
	f := &priceHandlerFixture{
		ruleRepo:     new(MockRuleRepository),
		fixedRepo:    new(MockFixedBasePriceRepository),
		overrideRepo: new(MockOverrideRepository),
		workRepo:     new(MockWorkRepository),
		clientRepo:   new(MockClientRepository),
	}
	service := pricingapp.NewPriceService(f.ruleRepo, f.fixedRepo, f.overrideRepo, f.workRepo, f.clientRepo)
	f.engine = gin.New()
	NewPriceHandler(service).RegisterRoutes(f.engine.Group("/api/v1"))
	return f
}

func testFixedPrice(t *testing.T, workID uuid.UUID, amount string) *pricing.FixedBasePrice {
	t.Helper()
	money, err := valueobject.NewMoneyFromString(amount, valueobject.EUR)
	require.NoError(t, err)
	fixed, err := pricing.NewFixedBasePrice(workID, pricing.RuleResult{
		RuleID:     uuid.New(),
		BasePrice:  money,
		PriceGroup: "STANDARD",
	})
	require.NoError(t, err)
	return fixed
}

func TestPriceHandlerGetFinal(t *testing.T) {
	f := newPriceHandlerFixture()
	workID := uuid.New()
	fixed := testFixedPrice(t, workID, "120.00")

	plus, err := pricing.NewPriceOverride(fixed.ID, decimal.RequireFromString("10.00"), "extra shade matching")
	require.NoError(t, err)
	minus, err := pricing.NewPriceOverride(fixed.ID, decimal.RequireFromString("-5.00"), "loyalty discount")
	require.NoError(t, err)

	f.fixedRepo.On("FindByWorkID", mock.Anything, workID).Return(fixed, nil)
	f.overrideRepo.On("FindByFixedPriceID", mock.Anything, fixed.ID).
		Return([]*pricing.PriceOverride{plus, minus}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/works/"+workID.String()+"/price", nil)
	f.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool                          `json:"success"`
		Data    pricingapp.FinalPriceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, workID, body.Data.WorkID)
	assert.True(t, body.Data.Amount.Equal(decimal.RequireFromString("125.00")))
	assert.Len(t, body.Data.Overrides, 2)
}

func TestPriceHandlerFixConflict(t *testing.T) {
	f := newPriceHandlerFixture()
	wk, err := work.NewWork(uuid.New(), work.KindCrown, "crown 26")
	require.NoError(t, err)
	workID := wk.ID
	fixed := testFixedPrice(t, workID, "120.00")

	f.workRepo.On("FindByID", mock.Anything, workID).Return(wk, nil)
	f.fixedRepo.On("FindByWorkID", mock.Anything, workID).Return(fixed, nil)

	payload := bytes.NewBufferString(`{"rule_id": "` + uuid.NewString() + `", "amount": "120.00", "price_group": "STANDARD"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/works/"+workID.String()+"/price/fix", payload)
	req.Header.Set("Content-Type", "application/json")
	f.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "BASE_PRICE_ALREADY_FIXED", body.Error.Code)

	f.fixedRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPriceHandlerFixMissingBody(t *testing.T) {
	f := newPriceHandlerFixture()
	workID := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/works/"+workID.String()+"/price/fix", nil)
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.fixedRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPriceHandlerGetFinalNoBasePrice(t *testing.T) {
	f := newPriceHandlerFixture()
	workID := uuid.New()

	f.fixedRepo.On("FindByWorkID", mock.Anything, workID).Return(nil, shared.ErrNoBasePriceFixed)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/works/"+workID.String()+"/price", nil)
	f.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPriceHandlerPreviewInvalidWorkID(t *testing.T) {
	f := newPriceHandlerFixture()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/works/not-a-uuid/price/preview", nil)
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPriceHandlerAddOverrideMissingReason(t *testing.T) {
	f := newPriceHandlerFixture()
	workID := uuid.New()

	payload := bytes.NewBufferString(`{"adjustment": "10.00"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/works/"+workID.String()+"/price/overrides", payload)
	req.Header.Set("Content-Type", "application/json")
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.overrideRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
