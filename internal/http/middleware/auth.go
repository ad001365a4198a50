package middleware

import (
	"net/http"

	"github.com/edirooss/market-admin/internal/service"
	"github.com/gin-gonic/gin"
)

// Authentication blocks access unless a valid session exists.
// Responds with 401 Unauthorized if not authenticated.
func Authentication(authsvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authsvc.AuthenticateWithSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}
		c.Next()
	}
}
