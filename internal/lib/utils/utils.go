// Package utils contains small helper functions used across the project.
//
// These are usually generic helpers that don't belong to a specific domain.
package utils

import (
	"bytes"
	"encoding/json"
)

// MarshalPrettyJSON serializes v as JSON indented with two spaces and
// terminated by a newline. HTML characters are written as-is.
//
// The output is stable for a given value, so decoding and re-encoding a
// document produced here yields identical bytes.
func MarshalPrettyJSON(v interface{}) ([]byte, error) {
	return encode(v, "  ")
}

// MarshalJSON serializes v as compact JSON without HTML escaping and without
// a trailing newline.
func MarshalJSON(v interface{}) ([]byte, error) {
	data, err := encode(v, "")
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(data, []byte("\n")), nil
}

func encode(v interface{}, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}

	// Encode terminates the document with a newline.
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
