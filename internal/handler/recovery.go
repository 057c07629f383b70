package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poehali/auth-gateway/internal/dto"
)

// RecoveryMiddleware converts panics into the uniform JSON error envelope.
// No failure may surface as a transport-level error or crash the process.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: fmt.Sprint(recovered),
		})
	})
}
