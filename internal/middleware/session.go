package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spc-registrar/portal-api/internal/service"
	appErrors "github.com/spc-registrar/portal-api/pkg/errors"
	"github.com/spc-registrar/portal-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the wizard session id.
const ContextSessionKey = "wizardSession"

// Session protects wizard routes by requiring a valid session token.
func Session(wizardService *service.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing session token"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		sessionID, err := wizardService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, sessionID)
		c.Next()
	}
}
