package handler

import (
	clientapp "github.com/dentallab/backend/internal/application/client"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ClientBalanceHandler handles client balance and ledger endpoints
type ClientBalanceHandler struct {
	BaseHandler
	balanceService *clientapp.BalanceService
}

// NewClientBalanceHandler creates a new ClientBalanceHandler
func NewClientBalanceHandler(balanceService *clientapp.BalanceService) *ClientBalanceHandler {
	return &ClientBalanceHandler{balanceService: balanceService}
}

// Get returns the cached balance of a client. Clients without any balance
// activity yet get a zero balance, not a 404.
func (h *ClientBalanceHandler) Get(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	resp, err := h.balanceService.GetBalance(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Ledger returns a page of the client's balance movement history
func (h *ClientBalanceHandler) Ledger(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
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

	resp, err := h.balanceService.GetLedger(c.Request.Context(), clientID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp, resp.Total, resp.Page, resp.PageSize)
}

// Credit adds money to a client's balance
func (h *ClientBalanceHandler) Credit(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req clientapp.CreditBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.balanceService.Credit(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Apply spends balance money against one of the client's works
func (h *ClientBalanceHandler) Apply(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req clientapp.ApplyBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.balanceService.ApplyToWork(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Adjust records a signed manual correction with a mandatory note
func (h *ClientBalanceHandler) Adjust(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req clientapp.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.balanceService.Adjust(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Recompute rebuilds the cached balance from the movement ledger
func (h *ClientBalanceHandler) Recompute(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	resp, err := h.balanceService.RecomputeCache(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Integrity compares the cached balance against the ledger sum
func (h *ClientBalanceHandler) Integrity(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	resp, err := h.balanceService.CheckIntegrity(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all client balance routes
func (h *ClientBalanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	balance := rg.Group("/clients/:id/balance")
	{
		balance.GET("", h.Get)
		balance.GET("/ledger", h.Ledger)
		balance.POST("/credit", h.Credit)
		balance.POST("/apply", h.Apply)
		balance.POST("/adjust", h.Adjust)
		balance.POST("/recompute", h.Recompute)
		balance.GET("/integrity", h.Integrity)
	}
}
