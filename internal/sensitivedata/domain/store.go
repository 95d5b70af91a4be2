package domain

// FieldStore is the storage adapter an encrypted attribute is bound to: the
// record's salt and its named (ciphertext, iv) pairs.
//
// Implementations hold state in memory only; durable writes happen elsewhere.
type FieldStore interface {
	// Salt returns the per-record salt, "" when not yet established.
	Salt() string
	// SetSalt assigns the per-record salt.
	SetSalt(salt string) error
	// Field returns the stored pair for name; a missing field is the nil sentinel.
	Field(name string) EncryptedField
	// SetField replaces the stored pair for name.
	SetField(name string, field EncryptedField)
	// FieldNames lists the fields present in the store.
	FieldNames() []string
}
