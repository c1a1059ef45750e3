package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amrowe/gtdhub/internal/middleware"
	"github.com/amrowe/gtdhub/internal/services"
)

// ContextHandler handles context endpoints
type ContextHandler struct {
	contextService *services.ContextService
}

// NewContextHandler creates a new ContextHandler
func NewContextHandler(contextService *services.ContextService) *ContextHandler {
	return &ContextHandler{contextService: contextService}
}

// CreateContextRequest represents a context creation request
type CreateContextRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// UpdateContextRequest represents a context patch
type UpdateContextRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// ListContexts lists the caller's contexts
func (h *ContextHandler) ListContexts(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	contexts, err := h.contextService.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contexts)
}

// CreateContext creates a context label
func (h *ContextHandler) CreateContext(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req CreateContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.contextService.Create(c.Request.Context(), user.ID, req.Name, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetContext retrieves a context by ID
func (h *ContextHandler) GetContext(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	found, err := h.contextService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// UpdateContext patches a context
func (h *ContextHandler) UpdateContext(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req UpdateContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.contextService.Update(c.Request.Context(), user.ID, c.Param("id"), req.Name, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteContext deletes a context
func (h *ContextHandler) DeleteContext(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	if err := h.contextService.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
