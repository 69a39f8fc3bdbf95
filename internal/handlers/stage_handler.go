package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/models"
	"salescrm/internal/services"
)

type StageHandler struct {
	Service *services.StageService
}

func NewStageHandler(service *services.StageService) *StageHandler {
	return &StageHandler{Service: service}
}

func (h *StageHandler) List(c *gin.Context) {
	pipelineID, _ := strconv.Atoi(c.DefaultQuery("pipeline_id", "0"))
	stageType := c.Query("stage_type")

	stages, err := h.Service.List(pipelineID, stageType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stages)
}

func (h *StageHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	stage, err := h.Service.GetByID(id)
	if err != nil || stage == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stage not found"})
		return
	}
	c.JSON(http.StatusOK, stage)
}

// Create adds a stage. Requesting is_default silently demotes the current
// default of the same pipeline/stage type; no confirmation round-trip.
func (h *StageHandler) Create(c *gin.Context) {
	var stage models.Stage
	if err := c.ShouldBindJSON(&stage); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.Create(&stage); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, stage)
}

type updateStageRequest struct {
	StageName    *string `json:"stage_name"`
	PipelineID   *int    `json:"pipeline_id"`
	IsDefault    *bool   `json:"is_default"`
	Color        *string `json:"color"`
	NewDefaultID int     `json:"new_default_id"`
	Confirm      bool    `json:"confirm"`
}

// Update edits a stage. When the edit would demote another default, or
// needs a replacement default picked, the handler answers 409 with the
// details the client must present; the client re-submits with confirm /
// new_default_id set.
func (h *StageHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	changes := services.StageChanges{
		StageName:    req.StageName,
		PipelineID:   req.PipelineID,
		IsDefault:    req.IsDefault,
		Color:        req.Color,
		NewDefaultID: req.NewDefaultID,
		Confirmed:    req.Confirm,
	}
	stage, plan, err := h.Service.Update(id, changes)
	if err != nil {
		c.JSON(stageErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if plan != nil {
		c.JSON(http.StatusConflict, confirmationBody(plan))
		return
	}
	c.JSON(http.StatusOK, stage)
}

// Delete removes a stage; deleting a default stage may need a replacement
// nominated via the new_default_id query parameter.
func (h *StageHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	newDefaultID, _ := strconv.Atoi(c.DefaultQuery("new_default_id", "0"))

	plan, err := h.Service.Delete(id, newDefaultID)
	if err != nil {
		c.JSON(stageErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if plan != nil {
		c.JSON(http.StatusConflict, confirmationBody(plan))
		return
	}
	c.Status(http.StatusNoContent)
}

func confirmationBody(plan *services.StagePlan) gin.H {
	body := gin.H{"confirmation_required": true}
	if plan.CurrentDefault != nil {
		body["current_default"] = plan.CurrentDefault
	}
	if len(plan.Candidates) > 0 {
		body["candidates"] = plan.Candidates
	}
	return body
}

func stageErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrStageNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoAlternateDefault), errors.Is(err, services.ErrStageInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
