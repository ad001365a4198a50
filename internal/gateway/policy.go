package gateway

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// interpret classifies a non-2xx response for call c. The backend body is
// only consulted for 400 and 409; it is never echoed for 5xx.
func interpret(c call, status int, body []byte) *Error {
	e := &Error{Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind, e.Message = KindUnauthenticated, msgUnauthenticated

	case status == http.StatusForbidden && c.forbidden:
		e.Kind, e.Message = KindForbidden, msgForbidden

	case status == http.StatusNotFound && c.notFound != "":
		e.Kind, e.Message = KindNotFound, c.notFound

	case status == http.StatusBadRequest:
		e.Kind = KindValidation
		msg, fields := parseErrorBody(body)
		e.Fields = fields
		switch {
		case len(fields) > 0:
			e.Message = joinFieldErrors(fields)
		case msg != "":
			e.Message = msg
		}
		if e.Message == "" {
			e.Message = msgValidation
		}

	case status == http.StatusConflict && c.conflict:
		e.Kind = KindConflict
		if msg, _ := parseErrorBody(body); msg != "" {
			e.Message = msg
		} else {
			e.Message = msgConflict
		}

	case status == http.StatusRequestEntityTooLarge && c.tooLarge:
		e.Kind, e.Message = KindPayloadTooLarge, msgTooLarge

	case status >= 500:
		e.Kind, e.Message = KindServer, msgServer

	default:
		e.Kind, e.Message = KindUnknown, c.genericMessage()
	}
	return e
}

// errorBody is the loose shape the backend uses for failures. Both fields
// are optional and polymorphic, so they are decoded lazily.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// parseErrorBody extracts a message and field errors from body. Unknown
// shapes are ignored rather than reported.
func parseErrorBody(body []byte) (string, []FieldError) {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return "", nil
	}
	return decodeMessage(eb.Message), decodeFieldErrors(eb.Errors)
}

// decodeMessage accepts "msg" or ["msg1", "msg2"].
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return joinNonEmpty(list)
	}
	return ""
}

// decodeFieldErrors accepts [{field, message}], ["msg"] or {"field": "msg"}.
func decodeFieldErrors(raw json.RawMessage) []FieldError {
	if len(raw) == 0 {
		return nil
	}

	var pairs []FieldError
	if json.Unmarshal(raw, &pairs) == nil {
		out := pairs[:0]
		for _, p := range pairs {
			if p.Message != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}

	var list []string
	if json.Unmarshal(raw, &list) == nil {
		var out []FieldError
		for _, m := range list {
			if m = strings.TrimSpace(m); m != "" {
				out = append(out, FieldError{Message: m})
			}
		}
		return out
	}

	var byField map[string]string
	if json.Unmarshal(raw, &byField) == nil {
		keys := make([]string, 0, len(byField))
		for k := range byField {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []FieldError
		for _, k := range keys {
			if byField[k] != "" {
				out = append(out, FieldError{Field: k, Message: byField[k]})
			}
		}
		return out
	}
	return nil
}

func joinNonEmpty(list []string) string {
	parts := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}
