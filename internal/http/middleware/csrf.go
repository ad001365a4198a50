package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/edirooss/market-admin/internal/principal"
	"github.com/edirooss/market-admin/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// ValidateSessionCSRF checks CSRF tokens for session-authenticated requests.
//
//   - Skips validation for requests not authenticated by session.
//   - Applies only to mutating methods (POST, PUT, PATCH, DELETE).
//   - Aborts with 403 Forbidden if the token is missing or invalid.
func ValidateSessionCSRF(usersess *service.UserSessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p := principal.GetPrincipal(c); p == nil || p.CredentialType != principal.Session {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			// continue
		default:
			c.Next()
			return
		}

		want := usersess.CSRFToken(sessions.Default(c))
		got := c.GetHeader("X-CSRF-Token")

		if want == "" || got == "" ||
			subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"message": "invalid csrf token"})
			return
		}

		c.Next()
	}
}
