package jsonx

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Name  Field[string] `json:"name"`
	Phone Field[string] `json:"phone"`
	Age   Field[int]    `json:"age"`
}

func TestFieldPresence(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ana","phone":null}`), &p))

	assert.True(t, p.Name.IsSet())
	assert.Equal(t, "Ana", *p.Name.Value())
	assert.True(t, p.Phone.IsNull())
	assert.False(t, p.Age.IsSet())

	m := map[string]any{}
	Put(m, "name", p.Name)
	Put(m, "phone", p.Phone)
	Put(m, "age", p.Age)
	assert.Equal(t, map[string]any{"name": "Ana", "phone": nil}, m)
}

func TestParseStrictJSONBody(t *testing.T) {
	parse := func(body string) error {
		var p patch
		return ParseStrictJSONBody(httptest.NewRequest("PATCH", "/", strings.NewReader(body)), &p)
	}

	assert.NoError(t, parse(`{"name":"x"}`))
	assert.ErrorIs(t, parse("  \n"), ErrEmptyBody)
	assert.ErrorIs(t, parse(`{"name":"x"} {}`), ErrTrailingJSON)
	assert.Error(t, parse(`{"nope":1}`))
	assert.Error(t, parse(`{"age":"old"}`))
}
