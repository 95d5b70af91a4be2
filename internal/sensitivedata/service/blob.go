package service

import (
	"maps"
	"slices"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// SensitiveDataBlob multiplexes named values into one encrypted map field.
//
// Every SetKey re-encrypts and rewrites the whole map. Two instances loaded
// from the same stored record that each set a different key lose one of the
// writes when saved in sequence; callers must reload between writes or
// serialize them (see the record use case).
type SensitiveDataBlob struct {
	attr *EncryptedAttribute[map[string]any]
}

// BlobDefinition returns the attribute definition backing a blob field.
// Every map, including an empty one, is encrypted.
func BlobDefinition(field string) AttributeDefinition[map[string]any] {
	return NewAttributeDefinition[map[string]any](field, sensitivedataDomain.AttributePolicy{})
}

// NewSensitiveDataBlob binds a blob to one record instance.
func NewSensitiveDataBlob(
	field string,
	store sensitivedataDomain.FieldStore,
	cipher FieldCipher,
) *SensitiveDataBlob {
	return &SensitiveDataBlob{attr: BlobDefinition(field).Bind(store, cipher)}
}

// GetKey returns the value stored under name, nil when absent.
func (b *SensitiveDataBlob) GetKey(name string) (any, error) {
	data, err := b.attr.Get()
	if err != nil {
		return nil, err
	}
	if data == nil || len(*data) == 0 {
		return nil, nil
	}
	return (*data)[name], nil
}

// SetKey sets name to value, or removes name when value is nil, and writes
// the whole map back.
func (b *SensitiveDataBlob) SetKey(name string, value any) error {
	current, err := b.current()
	if err != nil {
		return err
	}

	data := make(map[string]any, len(current)+1)
	maps.Copy(data, current)
	if value == nil {
		delete(data, name)
	} else {
		data[name] = value
	}

	return b.attr.Set(&data)
}

// Keys returns the stored names, sorted.
func (b *SensitiveDataBlob) Keys() ([]string, error) {
	data, err := b.attr.Get()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []string{}, nil
	}
	return slices.Sorted(maps.Keys(*data)), nil
}

// Reset drops the cached map.
func (b *SensitiveDataBlob) Reset() {
	b.attr.Reset()
}

// current loads the map for a write: from the cache when present, otherwise
// decrypting only a field that holds ciphertext.
func (b *SensitiveDataBlob) current() (map[string]any, error) {
	if data, ok := b.attr.cachedValue(); ok {
		if data == nil {
			return nil, nil
		}
		return *data, nil
	}

	if b.attr.store.Field(b.attr.Name()).State() != sensitivedataDomain.FieldStateEncrypted {
		return nil, nil
	}

	data, err := b.attr.Get()
	if err != nil || data == nil {
		return nil, err
	}
	return *data, nil
}
