package domain

import (
	"github.com/definescope/definerails-sensitivedata/internal/errors"
)

// Cryptographic operation error definitions.
//
// These wrap the base errors from internal/errors so the transport layer can
// map them without knowing about cryptography.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrUnsupportedKDF indicates the requested key derivation function is not supported.
	ErrUnsupportedKDF = errors.Wrap(errors.ErrInvalidInput, "unsupported key derivation function")

	// ErrInvalidKeySize indicates a derived key does not have the 32 bytes both ciphers require.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEmptyMasterSecret indicates key derivation was attempted without master key material.
	ErrEmptyMasterSecret = errors.Wrap(errors.ErrInvalidInput, "master secret is empty")

	// ErrInvalidMasterSecret indicates the configured master secret halves are malformed.
	ErrInvalidMasterSecret = errors.Wrap(errors.ErrInvalidInput, "invalid master secret")

	// ErrDecryptionFailed indicates an authentication failure, a key mismatch
	// (for example a wrong or corrupted record salt) or a tampered ciphertext/IV.
	//
	// The specific cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrity, "decryption failed")

	// ErrSerializationFailed indicates a payload could not be encoded, or could
	// not be decoded after a successful decryption. Kept distinct from
	// ErrDecryptionFailed so format migrations can be told apart from tampering.
	ErrSerializationFailed = errors.Wrap(errors.ErrIntegrity, "serialization failed")

	// ErrUnsupportedFormatVersion indicates a stored envelope uses a payload
	// format this build does not know.
	ErrUnsupportedFormatVersion = errors.Wrap(ErrSerializationFailed, "unsupported format version")
)
