package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/edirooss/market-admin/internal/principal"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken    = errors.New("invalid access token")
	ErrTokenExpired    = errors.New("access token expired")
	ErrTokenRevoked    = errors.New("access token revoked")
	ErrUnsupportedRole = errors.New("user role cannot sign in")
	ErrUserInactive    = errors.New("user is inactive")
)

// Revocations records access tokens that were signed out.
type Revocations interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// UserDirectory resolves the backend user behind a token.
type UserDirectory interface {
	GetUser(ctx context.Context, cred *gateway.Credential, id string) (*gateway.User, error)
}

// AuthService handles authentication logic.
type AuthService struct {
	log         *zap.Logger
	UserSession *UserSessionService
	revocations Revocations
	users       UserDirectory
	jwtSecret   []byte
	now         func() time.Time
}

// NewAuthService creates a new AuthService. With an empty jwtSecret tokens
// are decoded without signature checks; the backend still verifies them on
// every call.
func NewAuthService(log *zap.Logger, usersess *UserSessionService, revocations Revocations, users UserDirectory, jwtSecret string) *AuthService {
	return &AuthService{
		log:         log.Named("auth"),
		UserSession: usersess,
		revocations: revocations,
		users:       users,
		jwtSecret:   []byte(jwtSecret),
		now:         time.Now,
	}
}

// ParseAccessToken extracts the subject and expiry of an identity-provider token.
func (s *AuthService) ParseAccessToken(token string) (subject string, expiresAt time.Time, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", time.Time{}, ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	if len(s.jwtSecret) > 0 {
		_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return s.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	} else {
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	}
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, ErrTokenExpired
		}
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", time.Time{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
		if !s.now().Before(expiresAt) {
			return "", time.Time{}, ErrTokenExpired
		}
	}
	return claims.Subject, expiresAt, nil
}

// AuthenticateWithAccessToken exchanges an access token for a Principal.
// The backend user is loaded with the token itself, which proves the token
// is accepted upstream. On success, it sets and returns the Principal.
func (s *AuthService) AuthenticateWithAccessToken(c *gin.Context, token string) (*principal.Principal, error) {
	ctx := c.Request.Context()

	sub, exp, err := s.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)

	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.users.GetUser(ctx, &gateway.Credential{Subject: sub, Token: token}, sub)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	kind, ok := principal.KindFromRole(user.Role)
	if !ok {
		s.log.Info("login refused for role", zap.String("user_id", user.ID), zap.String("role", user.Role))
		return nil, ErrUnsupportedRole
	}

	p := &principal.Principal{
		ID:             user.ID,
		Name:           user.Name,
		PrincipalType:  kind,
		CredentialType: principal.Login,
		Token:          token,
		ExpiresAt:      exp,
	}
	if p.ID == "" {
		p.ID = sub
	}
	principal.SetPrincipal(c, p)
	return p, nil
}

// AuthenticateWithSession reads session from context and authenticates the
// stored token. Expired or revoked sessions are cleared.
func (s *AuthService) AuthenticateWithSession(c *gin.Context) (*principal.Principal, bool) {
	session := sessions.Default(c)
	p, ok := s.UserSession.GetPrincipal(session)
	if !ok {
		return nil, false
	}

	if p.Expired(s.now()) {
		s.dropSession(session, p, "session token expired")
		return nil, false
	}

	revoked, err := s.revocations.IsRevoked(c.Request.Context(), p.Token)
	if err != nil {
		s.log.Warn("revocation lookup failed", zap.String("user_id", p.ID), zap.Error(err))
		return nil, false
	}
	if revoked {
		s.dropSession(session, p, "session token revoked")
		return nil, false
	}

	principal.SetPrincipal(c, p)
	return p, true
}

// Logout revokes the session's token and clears the session.
func (s *AuthService) Logout(c *gin.Context) error {
	session := sessions.Default(c)
	if p, ok := s.UserSession.GetPrincipal(session); ok {
		if err := s.revocations.Revoke(c.Request.Context(), p.Token, p.ExpiresAt); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}
	if err := s.UserSession.ClearUserSession(session); err != nil {
		return fmt.Errorf("clear user session: %w", err)
	}
	return nil
}

// WhoAmI returns the authenticated Principal from the Gin context.
// Returns nil if no principal is set.
func (s *AuthService) WhoAmI(c *gin.Context) *principal.Principal {
	return principal.GetPrincipal(c)
}

func (s *AuthService) dropSession(session sessions.Session, p *principal.Principal, reason string) {
	s.log.Debug(reason, zap.String("user_id", p.ID))
	if err := s.UserSession.ClearUserSession(session); err != nil {
		s.log.Warn("clear user session failed", zap.Error(err))
	}
}
