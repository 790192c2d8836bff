package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rmg-pricing/internal/api/models"
	"rmg-pricing/internal/pricing"
)

// PricingHandler serves the what-if projection endpoints.
type PricingHandler struct {
	load SnapshotLoader
}

func NewPricingHandler(load SnapshotLoader) *PricingHandler {
	return &PricingHandler{load: load}
}

// CalculateImpact handles POST /api/pricing/calculate-impact
func (h *PricingHandler) CalculateImpact(c *gin.Context) {
	var req models.PriceImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	snapshot, err := h.load()
	if err != nil {
		respondLoadError(c, err)
		return
	}

	impact, err := pricing.NewCalculator(snapshot).PriceImpact(req.SKUName, *req.PriceChange)
	if err != nil {
		respondPricingError(c, err)
		return
	}
	c.JSON(http.StatusOK, impact)
}

// AnalyzeMarket handles POST /api/pricing/analyze-market
func (h *PricingHandler) AnalyzeMarket(c *gin.Context) {
	var req models.MarketImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	snapshot, err := h.load()
	if err != nil {
		respondLoadError(c, err)
		return
	}

	impact, err := pricing.NewCalculator(snapshot).MarketImpact(req.PriceChanges)
	if err != nil {
		respondPricingError(c, err)
		return
	}
	c.JSON(http.StatusOK, impact)
}

// respondPricingError maps the engine's typed failures onto status codes.
// Unknown SKUs are the caller's mistake, zero baselines and malformed rows
// mean the dataset cannot support the requested computation.
func respondPricingError(c *gin.Context, err error) {
	var notFound *pricing.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SKU_NOT_FOUND",
				Message: notFound.Error(),
			},
		})
		return
	}

	var zero *pricing.ZeroBaselineError
	if errors.As(err, &zero) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "CALCULATION_ERROR",
				Message: zero.Error(),
			},
		})
		return
	}

	var malformed *pricing.MalformedRecordError
	if errors.As(err, &malformed) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "MALFORMED_DATA",
				Message: malformed.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "PRICING_ERROR",
			Message: err.Error(),
		},
	})
}

func respondLoadError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "DATA_LOAD_ERROR",
			Message: err.Error(),
		},
	})
}
