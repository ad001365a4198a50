package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/edirooss/market-admin/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserSessionsHandler struct {
	log *zap.Logger
	svc *service.AuthService
}

func NewUserSessionsHandler(log *zap.Logger, authsvc *service.AuthService) *UserSessionsHandler {
	return &UserSessionsHandler{log.Named("usr_sessions"), authsvc}
}

// Login exchanges an identity-provider access token for a session.
//
// Status Codes:
//   - 204 No Content → session created
//   - 400 Bad Request → malformed body
//   - 401 Unauthorized → token invalid, expired, revoked or refused upstream
//   - 403 Forbidden → user may not use the admin
func (h *UserSessionsHandler) Login(c *gin.Context) {
	var req struct {
		AccessToken string `json:"access_token"`
	}
	if err := bind(c.Request, &req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.svc.AuthenticateWithAccessToken(c, req.AccessToken)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		c.Error(err)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	case errors.Is(err, service.ErrUnsupportedRole), errors.Is(err, service.ErrUserInactive):
		c.Error(err)
		c.JSON(http.StatusForbidden, gin.H{"message": "access denied"})
		return
	default:
		respondError(c, err)
		return
	}

	if err := h.svc.UserSession.SetUserSession(sessions.Default(c), p); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create session"})
		return
	}
	h.log.Info("signed in", zap.String("user_id", p.ID), zap.String("kind", p.PrincipalType.String()))

	c.Status(http.StatusNoContent)
}

// Logout revokes the session's token and clears the session.
func (h *UserSessionsHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign out"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Me describes the signed-in principal.
func (h *UserSessionsHandler) Me(c *gin.Context) {
	p := h.svc.WhoAmI(c)
	if p == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	res := gin.H{
		"id":              p.ID,
		"name":            p.Name,
		"principal_type":  p.PrincipalType.String(),
		"credential_type": p.CredentialType.String(),
	}
	if !p.ExpiresAt.IsZero() {
		res["expires_at"] = p.ExpiresAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, res)
}
