package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/amrowe/gtdhub/internal/apperrors"
)

// respondError writes a service error as a JSON response using its mapped
// HTTP status
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
