package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/spc-registrar/portal-api/internal/middleware"
)

func sessionIDFromContext(c *gin.Context) string {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return ""
	}
	sessionID, ok := value.(string)
	if !ok {
		return ""
	}
	return sessionID
}
