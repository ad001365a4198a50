package hostutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHost(t *testing.T) {
	for _, ok := range []string{"localhost", "api.market.example", "10.0.0.1", "::1", "[2001:db8::1]", "redis-1.internal."} {
		assert.NoError(t, ValidateHost(ok), ok)
	}
	for _, bad := range []string{"", "300.1.1.1", "1.2.3", "-api.example", "api_.example", "[::1", "[10.0.0.1]", "a..b"} {
		assert.Error(t, ValidateHost(bad), bad)
	}
}

func TestValidateHostPort(t *testing.T) {
	assert.NoError(t, ValidateHostPort("localhost:6379"))
	assert.NoError(t, ValidateHostPort("[::1]:6379"))
	assert.Error(t, ValidateHostPort("localhost"))
	assert.Error(t, ValidateHostPort("localhost:0"))
	assert.Error(t, ValidateHostPort("localhost:70000"))
	assert.Error(t, ValidateHostPort("bad host:6379"))
}
