package handlers

import (
	"github.com/gin-gonic/gin"

	"ngoconnect-backend/shared/utils/apperrors"
)

// respondError maps a core failure onto its HTTP status and the uniform
// {"error": message} body. Raw internal errors never reach the caller.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.Message(err)})
}
