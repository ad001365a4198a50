package gateway

import (
	"errors"
	"strings"
)

// Kind classifies a gateway failure.
type Kind int

const (
	KindUnknown         Kind = iota // transport, decode or unexpected status
	KindUnauthenticated             // missing credential or 401
	KindForbidden                   // 403 on write/management operations
	KindNotFound                    // 404 on must-exist lookups
	KindValidation                  // 400 or local pre-flight rejection
	KindConflict                    // 409 on user update
	KindPayloadTooLarge             // 413 or local size ceiling
	KindServer                      // 5xx
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindServer:
		return "server_error"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against a *Error of the same kind.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrServer          = errors.New("server error")
)

var kindSentinels = map[Kind]error{
	KindUnauthenticated: ErrUnauthenticated,
	KindForbidden:       ErrForbidden,
	KindNotFound:        ErrNotFound,
	KindValidation:      ErrValidation,
	KindConflict:        ErrConflict,
	KindPayloadTooLarge: ErrPayloadTooLarge,
	KindServer:          ErrServer,
}

// FieldError is one entry of a backend validation error list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified failure returned by every gateway operation.
// Message is always human-readable and safe to surface to the end user.
type Error struct {
	Kind     Kind
	Resource string       // e.g. "market"
	Op       string       // e.g. "GetMarket"
	Status   int          // HTTP status, 0 when no response was received
	Message  string       // human-readable
	Fields   []FieldError // populated for KindValidation when the backend sent them
	Err      error        // underlying cause, if any
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the kind of err, or KindUnknown if err is not a *Error.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return KindUnknown
}

// FieldsOf returns field errors attached to err, if any.
func FieldsOf(err error) []FieldError {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Fields
	}
	return nil
}

// Fixed user-facing messages. Resource-specific ones are built per operation.
const (
	msgUnauthenticated = "session expired, please sign in again"
	msgForbidden       = "access denied"
	msgValidation      = "invalid data, please review the submitted fields"
	msgConflict        = "the data conflicts with an existing record"
	msgTooLarge        = "file exceeds the maximum allowed size of 5MB"
	msgServer          = "the server is unavailable, please try again later"
)

func joinFieldErrors(fields []FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		switch {
		case f.Field != "" && f.Message != "":
			parts = append(parts, f.Field+": "+f.Message)
		case f.Message != "":
			parts = append(parts, f.Message)
		}
	}
	return strings.Join(parts, "; ")
}
