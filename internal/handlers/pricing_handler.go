package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salescrm/internal/models"
	"salescrm/internal/services"
)

// PricingHandler exposes the totals calculator so forms can refresh the
// displayed figures on every edit before submitting the document.
type PricingHandler struct{}

func NewPricingHandler() *PricingHandler {
	return &PricingHandler{}
}

type previewRequest struct {
	Items      []models.LineItem `json:"items"`
	TaxEnabled bool              `json:"tax_enabled"`
}

type previewResponse struct {
	models.FinancialTotals
	LineTotals []float64 `json:"line_totals"`
}

func (h *PricingHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for i, item := range req.Items {
		if item.Quantity < 0 || item.UnitPrice < 0 || item.Discount < 0 || item.TaxRate < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "negative values are not allowed", "line": i + 1})
			return
		}
	}
	resp := previewResponse{
		FinancialTotals: services.RoundTotals(services.ComputeTotals(req.Items, req.TaxEnabled)),
	}
	for _, item := range req.Items {
		resp.LineTotals = append(resp.LineTotals, services.Round2(services.LineTotal(item, req.TaxEnabled)))
	}
	c.JSON(http.StatusOK, resp)
}
