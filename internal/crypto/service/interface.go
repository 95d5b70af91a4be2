// Package service provides the cryptographic services behind per-record field
// encryption: key derivation, AEAD ciphers, the payload codec and KMS access.
package service

import (
	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives the per-record key from the master secret and a record salt.
type KeyDeriver interface {
	// Derive is deterministic: identical inputs always yield identical keys.
	Derive(secret *cryptoDomain.MasterSecret, salt string) (*cryptoDomain.DerivedKey, error)
}

// CipherCodec encrypts and decrypts opaque payloads under a derived key.
type CipherCodec interface {
	// Encrypt generates a fresh IV on every call. aad is authenticated but not stored.
	Encrypt(plain, aad []byte, key *cryptoDomain.DerivedKey) (ciphertext, iv []byte, err error)

	// Decrypt returns ErrDecryptionFailed on any integrity failure, key
	// mismatch or aad that differs from the one used by Encrypt.
	Decrypt(ciphertext, iv, aad []byte, key *cryptoDomain.DerivedKey) ([]byte, error)

	// Algorithm reports the cipher new payloads are sealed with.
	Algorithm() cryptoDomain.Algorithm
}

// Serializer converts structured values to bytes and back.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, out any) error
	// Version is the envelope format version written by Marshal.
	Version() uint
}
