package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorBody(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantMsg    string
		wantFields []FieldError
	}{
		{"empty", ``, "", nil},
		{"not json", `oops`, "", nil},
		{"string message", `{"message":" taken "}`, "taken", nil},
		{"array message", `{"message":["a","","b"]}`, "a; b", nil},
		{"numeric message", `{"message":42}`, "", nil},
		{"pairs", `{"errors":[{"field":"email","message":"invalid"}]}`, "", []FieldError{{Field: "email", Message: "invalid"}}},
		{"pairs without message dropped", `{"errors":[{"field":"email"}]}`, "", nil},
		{"string list", `{"errors":["first","second"]}`, "", []FieldError{{Message: "first"}, {Message: "second"}}},
		{"by field", `{"errors":{"zip":"bad","city":"required"}}`, "", []FieldError{{Field: "city", Message: "required"}, {Field: "zip", Message: "bad"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, fields := parseErrorBody([]byte(tc.body))
			assert.Equal(t, tc.wantMsg, msg)
			assert.Equal(t, tc.wantFields, fields)
		})
	}
}

func TestInterpretStatuses(t *testing.T) {
	c := call{action: "load market", notFound: "market not found"}

	cases := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindUnauthenticated},
		{http.StatusForbidden, KindUnknown},
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindValidation},
		{http.StatusConflict, KindUnknown},
		{http.StatusRequestEntityTooLarge, KindUnknown},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
		{http.StatusTooManyRequests, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			e := interpret(c, tc.status, nil)
			assert.Equal(t, tc.want, e.Kind)
			assert.Equal(t, tc.status, e.Status)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestErrorMatching(t *testing.T) {
	err := fmt.Errorf("handler: %w", &Error{Kind: KindNotFound, Message: "market not found"})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrServer)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, "market not found", (&Error{Kind: KindNotFound, Message: "market not found"}).Error())
	assert.False(t, errors.Is(&Error{Kind: KindUnknown}, ErrServer))
}
