package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/edirooss/market-admin/internal/principal"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

// UserSessionService manages cookie sessions that carry the identity
// provider's access token. Session data lives server-side in Redis; the
// cookie only holds the signed session id.
type UserSessionService struct {
	store         sessions.Store
	cookieOptions sessions.Options
}

// Session keys. The token never leaves the server.
const (
	sessionKeyUserID = "uid"
	sessionKeyName   = "name"
	sessionKeyRole   = "role"
	sessionKeyToken  = "token"
	sessionKeyExpiry = "exp"
	sessionKeyCSRF   = "csrf"
)

// sessionMaxAge caps the cookie lifetime; the token expiry usually ends
// the session earlier.
const sessionMaxAge = 8 * 3600

// NewUserSessionService creates a Redis-backed UserSessionService.
// The `isDev` flag controls whether cookies are marked Secure.
func NewUserSessionService(isDev bool, redisAddr string, secret []byte) (*UserSessionService, error) {
	store, err := redis.NewStoreWithDB(10, "tcp", redisAddr, "", "", "0", secret)
	if err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}
	return NewUserSessionServiceWithStore(isDev, store), nil
}

// NewUserSessionServiceWithStore uses an existing store (e.g. a cookie store in tests).
func NewUserSessionServiceWithStore(isDev bool, store sessions.Store) *UserSessionService {
	cookieOptions := sessions.Options{
		Path:     "/api",
		MaxAge:   sessionMaxAge,
		Secure:   !isDev,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	store.Options(cookieOptions)

	return &UserSessionService{store: store, cookieOptions: cookieOptions}
}

// Middleware attaches session handling.
func (s *UserSessionService) Middleware() gin.HandlerFunc {
	return sessions.Sessions("sid" /* Cookie name */, s.store)
}

// SetUserSession stores the principal in the session and persists it.
// Any previous CSRF token is dropped so one is issued for the new login.
func (s *UserSessionService) SetUserSession(session sessions.Session, p *principal.Principal) error {
	session.Clear()
	session.Set(sessionKeyUserID, p.ID)
	session.Set(sessionKeyName, p.Name)
	session.Set(sessionKeyRole, p.PrincipalType.String())
	session.Set(sessionKeyToken, p.Token)
	if !p.ExpiresAt.IsZero() {
		session.Set(sessionKeyExpiry, p.ExpiresAt.Unix())
	}

	if err := session.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearUserSession clears all session data and expires the cookie.
func (s *UserSessionService) ClearUserSession(session sessions.Session) error {
	session.Clear()

	opts := s.cookieOptions
	opts.MaxAge = -1
	session.Options(opts)

	if err := session.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetPrincipal rebuilds the principal stored by SetUserSession.
// It reports false if the session holds no usable identity.
func (s *UserSessionService) GetPrincipal(session sessions.Session) (*principal.Principal, bool) {
	uid, _ := session.Get(sessionKeyUserID).(string)
	token, _ := session.Get(sessionKeyToken).(string)
	if uid == "" || token == "" {
		return nil, false
	}
	role, _ := session.Get(sessionKeyRole).(string)
	kind, ok := principal.KindFromRole(role)
	if !ok {
		return nil, false
	}
	name, _ := session.Get(sessionKeyName).(string)

	p := &principal.Principal{
		ID:             uid,
		Name:           name,
		PrincipalType:  kind,
		CredentialType: principal.Session,
		Token:          token,
	}
	if exp, ok := session.Get(sessionKeyExpiry).(int64); ok && exp > 0 {
		p.ExpiresAt = time.Unix(exp, 0)
	}
	return p, true
}

// CSRFToken returns the session's CSRF token, or "".
func (s *UserSessionService) CSRFToken(session sessions.Session) string {
	token, _ := session.Get(sessionKeyCSRF).(string)
	return token
}

// SetCSRFToken stores token in the session.
func (s *UserSessionService) SetCSRFToken(session sessions.Session, token string) error {
	session.Set(sessionKeyCSRF, token)
	if err := session.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
