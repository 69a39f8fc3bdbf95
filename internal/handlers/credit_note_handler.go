package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/models"
	"salescrm/internal/services"
)

type CreditNoteHandler struct {
	Service *services.CreditNoteService
}

func NewCreditNoteHandler(service *services.CreditNoteService) *CreditNoteHandler {
	return &CreditNoteHandler{Service: service}
}

func (h *CreditNoteHandler) Create(c *gin.Context) {
	var note models.CreditNote
	if err := c.ShouldBindJSON(&note); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.Create(&note); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *CreditNoteHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	note, err := h.Service.GetByID(id)
	if err != nil || note == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "credit note not found"})
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *CreditNoteHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	notes, err := h.Service.List(size, (page-1)*size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *CreditNoteHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Service.Delete(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CreditNoteHandler) Issue(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	note, err := h.Service.Issue(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, note)
}
