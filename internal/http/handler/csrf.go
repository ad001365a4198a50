package handler

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/edirooss/market-admin/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// IssueSessionCSRF issues a CSRF token for the current session.
//
//   - Creates one if missing and stores it in the session.
//   - Returns the token in JSON with cache disabled.
func IssueSessionCSRF(usersess *service.UserSessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token := usersess.CSRFToken(sess)
		if token == "" {
			var err error
			if token, err = randomTokenHex(32); err != nil {
				c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue csrf token"})
				return
			}
			if err := usersess.SetCSRFToken(sess, token); err != nil {
				c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue csrf token"})
				return
			}
		}

		// Avoid cache serving stale tokens
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.JSON(http.StatusOK, gin.H{"csrf": token})
	}
}

func randomTokenHex(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}
