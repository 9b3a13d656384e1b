package validation

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Field is a JSON request value that remembers whether it was supplied with
// the expected type.
//
// Decoding a Field never fails. A missing key, `null`, or a value of another
// JSON type (a number where a string is expected) all leave it absent, so a
// payload can tell "not provided" apart from the zero value and ignore
// mistyped fields without rejecting the whole body.
type Field[T any] struct {
	Value   T
	Present bool
}

// Set returns a present Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{Value: v, Present: true}
}

// Get returns the value and whether it was present.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Present
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	*f = Field[T]{}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	f.Value = v
	f.Present = true
	return nil
}

// MarshalJSON implements json.Marshaler; an absent Field encodes as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// fieldValue is the validator custom type func for Field[T].
func fieldValue[T any](field reflect.Value) interface{} {
	f, ok := field.Interface().(Field[T])
	if !ok || !f.Present {
		return nil
	}
	return &f.Value
}
