package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amrowe/gtdhub/internal/middleware"
	"github.com/amrowe/gtdhub/internal/services"
)

// FamilyHandler handles family endpoints
type FamilyHandler struct {
	familyService *services.FamilyService
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyService *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// CreateFamilyRequest represents a family creation request
type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required"`
}

// JoinFamilyRequest carries an invite code
type JoinFamilyRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// CreateFamily creates a family owned by the caller
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	family, err := h.familyService.Create(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, family)
}

// ListFamilies lists the caller's families
func (h *FamilyHandler) ListFamilies(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	families, err := h.familyService.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, families)
}

// GetFamily returns a family the caller belongs to
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	family, err := h.familyService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, family)
}

// RotateInvite replaces the family's invite code
func (h *FamilyHandler) RotateInvite(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	code, err := h.familyService.RotateInvite(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite_code": code})
}

// JoinFamily joins the caller to the family matching the invite code
func (h *FamilyHandler) JoinFamily(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req JoinFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	family, err := h.familyService.Join(c.Request.Context(), user.ID, req.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, family)
}

// ListMembers lists the family's members with user info
func (h *FamilyHandler) ListMembers(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	members, err := h.familyService.ListMembers(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// RemoveMember removes a member from the family
func (h *FamilyHandler) RemoveMember(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	err := h.familyService.RemoveMember(c.Request.Context(), user.ID, c.Param("id"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
