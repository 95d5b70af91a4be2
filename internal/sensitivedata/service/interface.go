// Package service implements per-record attribute encryption: the field
// cipher, the nil/empty visibility policies, the multiplexed sensitive data
// blob and the record salt policy.
//
// Everything here operates on one in-memory record. Nothing is persisted and
// no locking is performed; concurrent writers to the same stored record must
// be serialized by the caller.
package service

import (
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// FieldCipher seals values into encrypted fields under the record's derived key.
type FieldCipher interface {
	// Seal serializes and encrypts value with a fresh IV.
	Seal(store sensitivedataDomain.FieldStore, value any) (sensitivedataDomain.EncryptedField, error)

	// Open decrypts field and deserializes it into out, which must be a non-nil pointer.
	Open(store sensitivedataDomain.FieldStore, field sensitivedataDomain.EncryptedField, out any) error
}
