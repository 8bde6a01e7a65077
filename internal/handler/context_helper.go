package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/middleware"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
