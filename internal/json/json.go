// Package json wraps json-iterator behind the encoding/json call surface so
// the rest of the module never imports a JSON implementation directly.
package json

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var handler = jsoniter.ConfigCompatibleWithStandardLibrary

// Encoder represents an encoder for json
type Encoder interface {
	Encode(v any) error
	SetIndent(prefix, indent string)
}

// Marshal converts object as bytes
func Marshal(v any) ([]byte, error) {
	return handler.Marshal(v)
}

// MarshalIndent converts object as indented bytes
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return handler.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes object from bytes
func Unmarshal(data []byte, v any) error {
	return handler.Unmarshal(data, v)
}

// NewEncoder creates an encoder to write objects to writer
func NewEncoder(writer io.Writer) Encoder {
	return handler.NewEncoder(writer)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return handler.Valid(data)
}

// Convert round-trips src through JSON into dst. It is used to deep copy
// values and to turn typed documents into generic trees.
func Convert(src, dst any) error {
	data, err := handler.Marshal(src)
	if err != nil {
		return err
	}
	return handler.Unmarshal(data, dst)
}
