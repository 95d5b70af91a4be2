package service

import (
	"fmt"

	"github.com/goccy/go-json"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
)

// JSONSerializer encodes attribute values as JSON (envelope format version 1).
//
// Decoding into an interface yields the usual JSON shapes: map[string]any,
// []any, float64, string, bool and nil. Decode into a concrete type to keep
// integer or struct types.
type JSONSerializer struct{}

// NewJSONSerializer creates a JSONSerializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Marshal encodes v.
func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrSerializationFailed, err)
	}
	return data, nil
}

// Unmarshal decodes data into out, which must be a non-nil pointer.
func (s *JSONSerializer) Unmarshal(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", cryptoDomain.ErrSerializationFailed, err)
	}
	return nil
}

// Version returns FormatVersionJSON.
func (s *JSONSerializer) Version() uint {
	return cryptoDomain.FormatVersionJSON
}
