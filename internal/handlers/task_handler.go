package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"salescrm/internal/models"
	"salescrm/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		EntityID    int64               `json:"entity_id" binding:"required"`
		EntityType  string              `json:"entity_type" binding:"required"`
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		DueDate     string              `json:"due_date"` // RFC3339
		Priority    models.TaskPriority `json:"priority"` // low|normal|high|urgent
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			log.Printf("[task][create][err] invalid due_date=%q: %v", req.DueDate, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
			return
		}
		due = &t
	}

	task := &models.Task{
		EntityID:    req.EntityID,
		EntityType:  req.EntityType,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    req.Priority,
	}

	created, err := h.service.Create(c.Request.Context(), task)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][create][ok] id=%d entity=%s#%d title=%q", created.ID, created.EntityType, created.EntityID, created.Title)
	c.JSON(http.StatusCreated, created)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][getByID][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// GET /tasks?entity_id=&entity_type=&status=
func (h *TaskHandler) GetAll(c *gin.Context) {
	var filter models.TaskFilter
	if v, ok := c.GetQuery("entity_id"); ok {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.EntityID = &id
		} else {
			log.Printf("[task][list][warn] bad entity_id=%q: %v", v, err)
		}
	}
	if v, ok := c.GetQuery("entity_type"); ok {
		et := v
		filter.EntityType = &et
	}
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		filter.Status = &st
	}

	tasks, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][update][err] get current id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var req struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		DueDate     *string              `json:"due_date"` // RFC3339
		Priority    *models.TaskPriority `json:"priority"`
		Status      *models.TaskStatus   `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := *current

	if req.Title != nil {
		update.Title = *req.Title
	}
	if req.Description != nil {
		update.Description = *req.Description
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			update.DueDate = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
				return
			}
			update.DueDate = &t
		}
	}
	if req.Priority != nil {
		update.Priority = *req.Priority
	}
	if req.Status != nil {
		if !isAllowedTaskStatus(*req.Status) || !isTransitionAllowed(current.Status, *req.Status) {
			log.Printf("[task][update][deny] illegal status transition: from=%q to=%q", current.Status, *req.Status)
			c.JSON(http.StatusConflict, gin.H{"error": "illegal status transition"})
			return
		}
		update.Status = *req.Status
	}

	updated, err := h.service.Update(c.Request.Context(), id, &update)
	if err != nil {
		log.Printf("[task][update][err] save id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// POST /tasks/:id/status { "to": "in_progress" }
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][status][err] get current id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var body struct {
		To models.TaskStatus `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !isAllowedTaskStatus(body.To) || !isTransitionAllowed(current.Status, body.To) {
		log.Printf("[task][status][deny] illegal transition from=%q to=%q", current.Status, body.To)
		c.JSON(http.StatusConflict, gin.H{"error": "illegal status"})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, body.To)
	if err != nil {
		log.Printf("[task][status][err] save id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][status][ok] id=%d new=%q", id, body.To)
	c.JSON(http.StatusOK, updated)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][delete][err] get current id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[task][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func isAllowedTaskStatus(s models.TaskStatus) bool {
	switch s {
	case models.StatusNew, models.StatusInProgress, models.StatusDone, models.StatusCancelled:
		return true
	}
	return false
}

func isTransitionAllowed(from, to models.TaskStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case models.StatusNew:
		return to == models.StatusInProgress || to == models.StatusCancelled
	case models.StatusInProgress:
		return to == models.StatusDone || to == models.StatusCancelled
	case models.StatusDone, models.StatusCancelled:
		return false
	}
	return false
}
