package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/models"
	"salescrm/internal/services"
)

type DealHandler struct {
	Service *services.DealService
}

func NewDealHandler(service *services.DealService) *DealHandler {
	return &DealHandler{Service: service}
}

type dealRequest struct {
	DealName   string            `json:"deal_name"`
	LeadID     int               `json:"lead_id"`
	CustomerID int               `json:"customer_id"`
	PipelineID int               `json:"pipeline_id"`
	StageID    int               `json:"stage_id"`
	Value      float64           `json:"value"`
	Currency   string            `json:"currency"`
	Items      []models.LineItem `json:"items"`
	TaxEnabled bool              `json:"tax_enabled"`
}

func (r *dealRequest) toModel() models.Deal {
	return models.Deal{
		DealName:   r.DealName,
		LeadID:     r.LeadID,
		CustomerID: r.CustomerID,
		PipelineID: r.PipelineID,
		StageID:    r.StageID,
		Value:      r.Value,
		Currency:   r.Currency,
	}
}

func (h *DealHandler) Create(c *gin.Context) {
	var req dealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deal := req.toModel()
	if err := h.Service.Create(&deal, req.Items, req.TaxEnabled); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, deal)
}

func (h *DealHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	current, err := h.Service.GetByID(id)
	if err != nil || current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	var req dealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deal := req.toModel()
	deal.ID = id
	if err := h.Service.Update(&deal, req.Items, req.TaxEnabled); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, _ := h.Service.GetByID(id)
	c.JSON(http.StatusOK, updated)
}

func (h *DealHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	deal, err := h.Service.GetByID(id)
	if err != nil || deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *DealHandler) List(c *gin.Context) {
	if stageID, _ := strconv.Atoi(c.DefaultQuery("stage_id", "0")); stageID != 0 {
		deals, err := h.Service.ListByStage(stageID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, deals)
		return
	}
	page, size := pageParams(c)
	deals, err := h.Service.List(size, (page-1)*size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deals)
}

func (h *DealHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Service.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DealHandler) ChangeStage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req changeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deal, err := h.Service.ChangeStage(id, req.StageID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deal)
}
