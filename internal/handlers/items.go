package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amrowe/gtdhub/internal/middleware"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/services"
	"github.com/amrowe/gtdhub/internal/store"
)

// ItemHandler handles item endpoints
type ItemHandler struct {
	itemService *services.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// CreateItemRequest represents an item capture request
type CreateItemRequest struct {
	Title      string               `json:"title" binding:"required"`
	Notes      *string              `json:"notes"`
	Type       models.ItemType      `json:"type"`
	ProjectID  *string              `json:"project_id"`
	ContextID  *string              `json:"context_id"`
	AssignedTo *string              `json:"assigned_to"`
	Priority   *models.ItemPriority `json:"priority"`
	DueDate    *time.Time           `json:"due_date"`
}

// UpdateItemRequest represents a general item patch
type UpdateItemRequest struct {
	Title      *string              `json:"title"`
	Notes      *string              `json:"notes"`
	Type       *models.ItemType     `json:"type"`
	ProjectID  *string              `json:"project_id"`
	ContextID  *string              `json:"context_id"`
	AssignedTo *string              `json:"assigned_to"`
	Priority   *models.ItemPriority `json:"priority"`
	DueDate    *time.Time           `json:"due_date"`
}

// ProcessItemRequest represents the guided inbox-processing request
type ProcessItemRequest struct {
	Type       models.ItemType      `json:"type" binding:"required"`
	ProjectID  *string              `json:"project_id"`
	ContextID  *string              `json:"context_id"`
	AssignedTo *string              `json:"assigned_to"`
	Priority   *models.ItemPriority `json:"priority"`
	DueDate    *time.Time           `json:"due_date"`
}

// ListItems lists the caller's items with optional filters
func (h *ItemHandler) ListItems(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	filter := store.ItemFilter{
		IncludeCompleted: c.Query("include_completed") == "true",
	}
	if v := c.Query("type"); v != "" {
		tv := models.ItemType(v)
		filter.Type = &tv
	}
	if v := c.Query("project_id"); v != "" {
		filter.ProjectID = &v
	}
	if v := c.Query("context_id"); v != "" {
		filter.ContextID = &v
	}
	if v := c.Query("priority"); v != "" {
		pv := models.ItemPriority(v)
		filter.Priority = &pv
	}

	items, err := h.itemService.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// CreateItem captures a new item
func (h *ItemHandler) CreateItem(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), user.ID, services.CreateItemInput{
		Title:      req.Title,
		Notes:      req.Notes,
		Type:       req.Type,
		ProjectID:  req.ProjectID,
		ContextID:  req.ContextID,
		AssignedTo: req.AssignedTo,
		Priority:   req.Priority,
		DueDate:    req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetItem retrieves an item by ID
func (h *ItemHandler) GetItem(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	item, err := h.itemService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItem patches an item
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), user.ID, c.Param("id"), services.UpdateItemInput{
		Title:      req.Title,
		Notes:      req.Notes,
		Type:       req.Type,
		ProjectID:  req.ProjectID,
		ContextID:  req.ContextID,
		AssignedTo: req.AssignedTo,
		Priority:   req.Priority,
		DueDate:    req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem deletes an item
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CompleteItem marks an item done
func (h *ItemHandler) CompleteItem(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	item, err := h.itemService.Complete(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ProcessItem performs the guided inbox transition
func (h *ItemHandler) ProcessItem(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req ProcessItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.itemService.Process(c.Request.Context(), user.ID, c.Param("id"), services.ProcessItemInput{
		Type:       req.Type,
		ProjectID:  req.ProjectID,
		ContextID:  req.ContextID,
		AssignedTo: req.AssignedTo,
		Priority:   req.Priority,
		DueDate:    req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
