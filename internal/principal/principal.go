package principal

import (
	"strings"
	"time"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/gin-gonic/gin"
)

// principalKey is the gin context key holding the request's *Principal.
const principalKey = "market-admin/principal"

type Kind int           // principal kind (owner|manager|admin)
type CredentialType int // principal credential type (login|session)

// Principal is the signed-in market user behind a request.
type Principal struct {
	ID             string // identity-provider subject, equal to the backend user id
	Name           string
	PrincipalType  Kind
	CredentialType CredentialType
	Token          string    // bearer access token, never serialized
	ExpiresAt      time.Time // token expiry, zero when unknown
}

const (
	Manager Kind = iota // Market manager
	Owner               // Market owner
	Admin               // Platform admin
)

const (
	Login   CredentialType = iota // Auth via access token exchange at /api/login
	Session                       // Auth via cookie-based session
)

func (k Kind) String() string {
	switch k {
	case Manager:
		return "manager"
	case Owner:
		return "owner"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// KindFromRole maps a backend user role onto a principal kind.
func KindFromRole(role string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "manager", "market_manager":
		return Manager, true
	case "owner", "market_owner":
		return Owner, true
	case "admin", "super_admin":
		return Admin, true
	default:
		return 0, false
	}
}

func (a CredentialType) String() string {
	switch a {
	case Login:
		return "login"
	case Session:
		return "session"
	default:
		return "unknown"
	}
}

// Credential returns the gateway credential for p, or nil when p is nil.
func (p *Principal) Credential() *gateway.Credential {
	if p == nil || p.Token == "" {
		return nil
	}
	return &gateway.Credential{Subject: p.ID, Token: p.Token}
}

// Expired reports whether the token expiry is known and in the past.
func (p *Principal) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

// SetPrincipal attaches p to the request handled by c.
func SetPrincipal(c *gin.Context, p *Principal) { c.Set(principalKey, p) }

// GetPrincipal returns the principal attached to c, or nil when the request
// is anonymous.
func GetPrincipal(c *gin.Context) *Principal {
	p, _ := c.Value(principalKey).(*Principal)
	return p
}
