package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/edirooss/market-admin/internal/principal"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (m *memRevocations) Revoke(_ context.Context, token string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Time{}
	}
	m.revoked[token] = exp
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[token]
	return ok, nil
}

type fakeUsers struct {
	users   map[string]*gateway.User
	gotCred *gateway.Credential
}

func (f *fakeUsers) GetUser(_ context.Context, cred *gateway.Credential, id string) (*gateway.User, error) {
	f.gotCred = cred
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, &gateway.Error{Kind: gateway.KindUnauthenticated, Message: "not authenticated"}
}

func signToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func newTestAuth(t *testing.T, secret string) (*AuthService, *memRevocations, *fakeUsers) {
	t.Helper()
	rev := &memRevocations{}
	users := &fakeUsers{users: map[string]*gateway.User{
		"u-owner":   {ID: "u-owner", Name: "Olga", Role: "owner", Active: true},
		"u-client":  {ID: "u-client", Name: "Cris", Role: "customer", Active: true},
		"u-blocked": {ID: "u-blocked", Name: "Bea", Role: "manager"},
	}}
	usersess := NewUserSessionServiceWithStore(true, cookie.NewStore([]byte(testSecret)))
	return NewAuthService(zaptest.NewLogger(t), usersess, rev, users, secret), rev, users
}

func TestParseAccessToken(t *testing.T) {
	s, _, _ := newTestAuth(t, testSecret)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	sub, gotExp, err := s.ParseAccessToken(signToken(t, "u-owner", exp))
	require.NoError(t, err)
	assert.Equal(t, "u-owner", sub)
	assert.True(t, exp.Equal(gotExp))

	_, _, err = s.ParseAccessToken(signToken(t, "u-owner", time.Now().Add(-time.Minute)))
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, _, err = s.ParseAccessToken(signToken(t, "", exp))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = s.ParseAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u-owner"}).
		SignedString([]byte("another-secret-another-secret-xx"))
	require.NoError(t, err)
	_, _, err = s.ParseAccessToken(other)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenUnverified(t *testing.T) {
	s, _, _ := newTestAuth(t, "")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u-owner"}).
		SignedString([]byte("whatever-the-provider-uses"))
	require.NoError(t, err)

	sub, exp, err := s.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-owner", sub)
	assert.True(t, exp.IsZero())
}

// newAuthRouter mounts the session middleware and the given routes.
func newAuthRouter(s *AuthService, routes func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(s.UserSession.Middleware())
	routes(r)
	return r
}

func TestLoginThenSession(t *testing.T) {
	s, rev, users := newTestAuth(t, testSecret)
	token := signToken(t, "u-owner", time.Now().Add(time.Hour))

	r := newAuthRouter(s, func(r *gin.Engine) {
		r.POST("/api/login", func(c *gin.Context) {
			p, err := s.AuthenticateWithAccessToken(c, token)
			if err != nil {
				c.Status(http.StatusUnauthorized)
				return
			}
			if err := s.UserSession.SetUserSession(sessions.Default(c), p); err != nil {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Status(http.StatusNoContent)
		})
		r.GET("/api/me", func(c *gin.Context) {
			p, ok := s.AuthenticateWithSession(c)
			if !ok {
				c.Status(http.StatusUnauthorized)
				return
			}
			c.JSON(http.StatusOK, gin.H{"id": p.ID, "kind": p.PrincipalType.String(), "cred": p.CredentialType.String()})
		})
		r.POST("/api/logout", func(c *gin.Context) {
			if err := s.Logout(c); err != nil {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Status(http.StatusNoContent)
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, token, users.gotCred.Token)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, map[string]string{"id": "u-owner", "kind": "owner", "cred": "session"}, me)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	revoked, _ := rev.IsRevoked(context.Background(), token)
	assert.True(t, revoked)

	// The old cookie still decodes, but its token is revoked now.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateWithAccessTokenRejects(t *testing.T) {
	s, rev, _ := newTestAuth(t, testSecret)
	exp := time.Now().Add(time.Hour)
	revokedTok := signToken(t, "u-owner", exp.Add(time.Second))
	require.NoError(t, rev.Revoke(context.Background(), revokedTok, exp))

	cases := map[string]struct {
		token string
		want  error
	}{
		"revoked":        {revokedTok, ErrTokenRevoked},
		"customer role":  {signToken(t, "u-client", exp), ErrUnsupportedRole},
		"inactive user":  {signToken(t, "u-blocked", exp), ErrUserInactive},
		"unknown user":   {signToken(t, "u-ghost", exp), gateway.ErrUnauthenticated},
		"empty":          {"", ErrInvalidToken},
		"whitespace jwt": {"   ", ErrInvalidToken},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/api/login", nil)

			p, err := s.AuthenticateWithAccessToken(c, tc.token)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, principal.GetPrincipal(c))
		})
	}
}

func TestAuthenticateWithSessionRejectsExpired(t *testing.T) {
	s, _, _ := newTestAuth(t, testSecret)
	s.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	var ok bool
	r := newAuthRouter(s, func(r *gin.Engine) {
		r.GET("/seed", func(c *gin.Context) {
			_ = s.UserSession.SetUserSession(sessions.Default(c), &principal.Principal{
				ID: "u-owner", PrincipalType: principal.Owner, Token: "tok",
				ExpiresAt: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			})
		})
		r.GET("/check", func(c *gin.Context) { _, ok = s.AuthenticateWithSession(c) })
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/seed", nil))
	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}
