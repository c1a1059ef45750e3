package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amrowe/gtdhub/internal/middleware"
	"github.com/amrowe/gtdhub/internal/services"
)

// ReviewHandler handles weekly review endpoints
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest represents a review completion request
type CreateReviewRequest struct {
	Notes *string `json:"notes"`
}

// Checklist returns the fixed weekly review checklist
func (h *ReviewHandler) Checklist(c *gin.Context) {
	if _, ok := middleware.RequireAuth(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.reviewService.Checklist()})
}

// CreateReview records a completed review session
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), user.ID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListReviews lists the caller's reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetReview retrieves a review by ID
func (h *ReviewHandler) GetReview(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}
