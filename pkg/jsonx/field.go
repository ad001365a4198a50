package jsonx

import "encoding/json"

// Field[T] tracks presence (key appeared) and holds a pointer value:
//   - IsSet() == true  => key existed, even if it was null
//   - Value() == nil   => value was JSON null (used by PATCH bodies to clear a field)
type Field[T any] struct {
	set bool
	val *T
}

// Set returns a Field holding v.
func Set[T any](v T) Field[T] { return Field[T]{set: true, val: &v} }

// Null returns a Field that is present with a JSON null value.
func Null[T any]() Field[T] { return Field[T]{set: true} }

func (o Field[T]) IsSet() bool  { return o.set }
func (o Field[T]) IsNull() bool { return o.set && o.val == nil }
func (o Field[T]) Value() *T    { return o.val }

func (o *Field[T]) UnmarshalJSON(b []byte) error {
	if string(bytesTrimSpace(b)) == "null" {
		o.set, o.val = true, nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.set, o.val = true, &v
	return nil
}

// Put copies f into m under key when it was set; null is stored as nil so
// it encodes as JSON null. Unset fields leave m untouched.
func Put[T any](m map[string]any, key string, f Field[T]) {
	switch {
	case !f.set:
	case f.val == nil:
		m[key] = nil
	default:
		m[key] = *f.val
	}
}

func bytesTrimSpace(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\n' || b[i] == '\t' || b[i] == '\r') {
		i++
	}

	j := len(b) - 1
	for j >= i && (b[j] == ' ' || b[j] == '\n' || b[j] == '\t' || b[j] == '\r') {
		j--
	}

	return b[i : j+1]
}
