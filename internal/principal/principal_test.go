package principal

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestKindFromRole(t *testing.T) {
	cases := map[string]Kind{"OWNER": Owner, " manager ": Manager, "market_owner": Owner, "admin": Admin}
	for role, want := range cases {
		got, ok := KindFromRole(role)
		assert.True(t, ok, role)
		assert.Equal(t, want, got, role)
	}
	_, ok := KindFromRole("customer")
	assert.False(t, ok)
}

func TestCredential(t *testing.T) {
	var nilP *Principal
	assert.Nil(t, nilP.Credential())
	assert.Nil(t, (&Principal{ID: "u1"}).Credential())

	cred := (&Principal{ID: "u1", Token: "t"}).Credential()
	assert.Equal(t, "u1", cred.Subject)
	assert.Equal(t, "t", cred.Token)
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	assert.False(t, (&Principal{}).Expired(now))
	assert.False(t, (&Principal{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Principal{ExpiresAt: now}).Expired(now))
}

func TestPrincipalOnContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetPrincipal(c))

	p := &Principal{ID: "u1", PrincipalType: Owner}
	SetPrincipal(c, p)
	assert.Same(t, p, GetPrincipal(c))

	SetPrincipal(c, nil)
	assert.Nil(t, GetPrincipal(c))

	c.Set(principalKey, "u1")
	assert.Nil(t, GetPrincipal(c))
}
