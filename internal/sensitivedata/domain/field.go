package domain

import "fmt"

// FieldState classifies the stored shape of an encrypted field.
type FieldState string

// Field states usable in sentinel queries.
const (
	FieldStateNil       FieldState = "nil"
	FieldStateEmpty     FieldState = "empty"
	FieldStateEncrypted FieldState = "encrypted"
)

// ParseFieldState validates a query state.
func ParseFieldState(s string) (FieldState, error) {
	switch FieldState(s) {
	case FieldStateNil, FieldStateEmpty, FieldStateEncrypted:
		return FieldState(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFieldState, s)
	}
}

// EncryptedField is the persisted (ciphertext, iv) pair of one attribute.
//
// Both slots nil is the nil sentinel, both "" is the empty sentinel. Anything
// else holds an envelope and a base64 IV.
type EncryptedField struct {
	Ciphertext *string
	IV         *string
}

// NilField returns the nil sentinel.
func NilField() EncryptedField {
	return EncryptedField{}
}

// EmptyField returns the empty sentinel.
func EmptyField() EncryptedField {
	empty := ""
	iv := ""
	return EncryptedField{Ciphertext: &empty, IV: &iv}
}

// NewEncryptedField returns a field holding ciphertext and iv.
func NewEncryptedField(ciphertext, iv string) EncryptedField {
	return EncryptedField{Ciphertext: &ciphertext, IV: &iv}
}

// IsNil reports whether the ciphertext slot is nil.
func (f EncryptedField) IsNil() bool {
	return f.Ciphertext == nil
}

// IsEmpty reports whether the ciphertext slot holds the empty sentinel.
func (f EncryptedField) IsEmpty() bool {
	return f.Ciphertext != nil && *f.Ciphertext == ""
}

// State classifies the field.
func (f EncryptedField) State() FieldState {
	switch {
	case f.IsNil():
		return FieldStateNil
	case f.IsEmpty():
		return FieldStateEmpty
	default:
		return FieldStateEncrypted
	}
}

// Validate checks that both slots agree on nil, and that an empty
// ciphertext is paired with an empty IV.
func (f EncryptedField) Validate() error {
	if (f.Ciphertext == nil) != (f.IV == nil) {
		return ErrInvalidFieldShape
	}
	if f.Ciphertext != nil && (*f.Ciphertext == "") != (*f.IV == "") {
		return ErrInvalidFieldShape
	}
	return nil
}

// Clone returns a copy that shares no pointers with f.
func (f EncryptedField) Clone() EncryptedField {
	var out EncryptedField
	if f.Ciphertext != nil {
		c := *f.Ciphertext
		out.Ciphertext = &c
	}
	if f.IV != nil {
		iv := *f.IV
		out.IV = &iv
	}
	return out
}
