package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amrowe/gtdhub/internal/middleware"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/services"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description *string               `json:"description"`
	Status      models.ProjectStatus  `json:"status"`
	Horizon     models.ProjectHorizon `json:"horizon"`
	FamilyID    *string               `json:"family_id"`
	ParentID    *string               `json:"parent_id"`
}

// UpdateProjectRequest represents a project patch
type UpdateProjectRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Status      *models.ProjectStatus  `json:"status"`
	Horizon     *models.ProjectHorizon `json:"horizon"`
	FamilyID    *string                `json:"family_id"`
	ParentID    *string                `json:"parent_id"`
}

// ListProjects lists the caller's visible projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var horizon *models.ProjectHorizon
	if v := c.Query("horizon"); v != "" {
		hv := models.ProjectHorizon(v)
		horizon = &hv
	}
	var status *models.ProjectStatus
	if v := c.Query("status"); v != "" {
		sv := models.ProjectStatus(v)
		status = &sv
	}
	var familyID *string
	if v := c.Query("family_id"); v != "" {
		familyID = &v
	}

	projects, err := h.projectService.List(c.Request.Context(), user.ID, horizon, status, familyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), user.ID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Horizon:     req.Horizon,
		FamilyID:    req.FamilyID,
		ParentID:    req.ParentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject retrieves a project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject patches a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), user.ID, c.Param("id"), services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Horizon:     req.Horizon,
		FamilyID:    req.FamilyID,
		ParentID:    req.ParentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
