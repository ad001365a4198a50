package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var (
	ErrEmptyBody    = errors.New("empty body")
	ErrTrailingJSON = errors.New("trailing data")
)

// maxBodyBytes caps JSON bodies; uploads do not go through here.
const maxBodyBytes = 1 << 20

// ParseStrictJSONBody reads and strictly decodes a JSON HTTP request body into dst.
//
// Failures that should map to 400 Bad Request:
//   - malformed JSON, truncated or empty body (ErrEmptyBody)
//   - more than one JSON value (ErrTrailingJSON)
//   - unknown fields
//   - field-type mismatches
//
// It performs shape validation only; required fields and business rules are
// left to the backend.
func ParseStrictJSONBody[T any](r *http.Request, dst *T) error {
	if r == nil || r.Body == nil {
		return ErrEmptyBody
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(bytesTrimSpace(body)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrTrailingJSON
	}
	return nil
}
