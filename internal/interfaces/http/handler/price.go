package handler

import (
	pricingapp "github.com/dentallab/backend/internal/application/pricing"
	"github.com/gin-gonic/gin"
)

// PriceHandler handles price resolution, fixation and override endpoints
type PriceHandler struct {
	BaseHandler
	priceService *pricingapp.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService *pricingapp.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// Preview resolves the base price a work would get without committing it.
// The request body is optional: an empty body resolves with the client's
// price group and the work's creation date.
func (h *PriceHandler) Preview(c *gin.Context) {
	workID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID format")
		return
	}

	var req pricingapp.PreviewBasePriceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	resp, err := h.priceService.PreviewBasePrice(c.Request.Context(), workID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Fix commits the previewed base price for a work verbatim. This is
// one-time: a second call fails with BASE_PRICE_ALREADY_FIXED regardless
// of timing.
func (h *PriceHandler) Fix(c *gin.Context) {
	workID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID format")
		return
	}

	var req pricingapp.FixBasePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.priceService.FixBasePrice(c.Request.Context(), workID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetBase returns the fixed base price of a work
func (h *PriceHandler) GetBase(c *gin.Context) {
	workID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID format")
		return
	}

	resp, err := h.priceService.GetFixedBasePrice(c.Request.Context(), workID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetFinal returns the effective price of a work: fixed base plus the sum
// of all overrides, with the override history attached.
func (h *PriceHandler) GetFinal(c *gin.Context) {
	workID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID format")
		return
	}

	resp, err := h.priceService.ResolveFinalPrice(c.Request.Context(), workID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddOverride appends a manual price adjustment to a work's fixed price
func (h *PriceHandler) AddOverride(c *gin.Context) {
	workID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID format")
		return
	}

	var req pricingapp.AddOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.priceService.AddOverride(c.Request.Context(), workID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// RegisterRoutes registers all pricing routes
func (h *PriceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pricing := rg.Group("/pricing/works/:id/price")
	{
		pricing.POST("/preview", h.Preview)
		pricing.POST("/fix", h.Fix)
		pricing.GET("/base", h.GetBase)
		pricing.GET("", h.GetFinal)
		pricing.POST("/overrides", h.AddOverride)
	}
}
