package handler

import (
	billingapp "github.com/dentallab/backend/internal/application/billing"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment registration and work balance endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
	balanceService *billingapp.WorkBalanceService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService, balanceService *billingapp.WorkBalanceService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		balanceService: balanceService,
	}
}

// ListPaymentsRequest filters the payment list by client
type ListPaymentsRequest struct {
	dto.ListRequest
	ClientID string `form:"client_id" binding:"required,uuid"`
}

// Preview computes an allocation plan without persisting anything.
// The same request body later drives registration, so clients can show
// the exact per-work distribution before the user confirms.
func (h *PaymentHandler) Preview(c *gin.Context) {
	var req billingapp.PreviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.paymentService.PreviewPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Register commits a payment. Retrying with the same idempotency key
// returns the originally registered payment instead of creating a second one.
func (h *PaymentHandler) Register(c *gin.Context) {
	var req billingapp.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.paymentService.RegisterPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single registered payment with its allocations
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	resp, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a client's payments, newest first by default
func (h *PaymentHandler) List(c *gin.Context) {
	var req ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}

	resp, err := h.paymentService.ListPayments(c.Request.Context(), clientID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// WorkBalance returns the financial projection of one work: final price,
// total paid so far and the remaining due.
func (h *PaymentHandler) WorkBalance(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID format")
		return
	}

	resp, err := h.balanceService.GetWorkBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all billing routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	billing := rg.Group("/billing")
	{
		billing.POST("/payments/preview", h.Preview)
		billing.POST("/payments", h.Register)
		billing.GET("/payments", h.List)
		billing.GET("/payments/:id", h.Get)
		billing.GET("/works/:id/balance", h.WorkBalance)
	}
}
