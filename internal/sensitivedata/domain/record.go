package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Record is one persisted entity carrying encrypted fields.
//
// EncryptionKey is the per-record salt, stored in plaintext. Once set it never
// changes: replacing it would make every field on the record undecryptable.
type Record struct {
	ID            uuid.UUID
	Kind          string
	EncryptionKey string
	Fields        map[string]EncryptedField
	// Version is incremented on every successful update and guards against lost writes.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord returns an unsaved record of the given kind with no salt yet.
func NewRecord(kind string) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.Must(uuid.NewV7()),
		Kind:      kind,
		Fields:    make(map[string]EncryptedField),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Salt implements FieldStore.
func (r *Record) Salt() string {
	return r.EncryptionKey
}

// SetSalt implements FieldStore. Replacing an established salt with a
// different value is refused.
func (r *Record) SetSalt(salt string) error {
	if r.EncryptionKey != "" && r.EncryptionKey != salt {
		return ErrSaltImmutable
	}
	r.EncryptionKey = salt
	return nil
}

// Field implements FieldStore.
func (r *Record) Field(name string) EncryptedField {
	return r.Fields[name]
}

// SetField implements FieldStore.
func (r *Record) SetField(name string, field EncryptedField) {
	if r.Fields == nil {
		r.Fields = make(map[string]EncryptedField)
	}
	r.Fields[name] = field
}

// FieldNames implements FieldStore. Names are sorted.
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := *r
	out.Fields = make(map[string]EncryptedField, len(r.Fields))
	for name, field := range r.Fields {
		out.Fields[name] = field.Clone()
	}
	return &out
}
