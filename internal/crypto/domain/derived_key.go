package domain

import (
	"crypto/subtle"
)

// DerivedKey is the symmetric key for one record, computed from the master
// secret and the record salt. It is never persisted and should be zeroed as
// soon as the operation that needed it returns.
type DerivedKey struct {
	key []byte
}

// NewDerivedKey takes ownership of key.
func NewDerivedKey(key []byte) *DerivedKey {
	return &DerivedKey{key: key}
}

// Bytes returns the raw key.
func (d *DerivedKey) Bytes() []byte {
	if d == nil {
		return nil
	}
	return d.key
}

// Equal compares two keys in constant time.
func (d *DerivedKey) Equal(other *DerivedKey) bool {
	return subtle.ConstantTimeCompare(d.Bytes(), other.Bytes()) == 1
}

// Zero clears the key material.
func (d *DerivedKey) Zero() {
	if d == nil {
		return
	}
	Zero(d.key)
}
