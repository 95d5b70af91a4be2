package domain

// Algorithm represents the AEAD cipher used to encrypt attribute payloads.
//
// Both algorithms use 256-bit keys, 12-byte nonces and 16-byte tags.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred where AES is not hardware accelerated.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KDF identifies the key derivation function used to stretch
// master secret + record salt into a cipher key.
type KDF string

const (
	// PBKDF2 is PBKDF2-HMAC-SHA256. It is the default and matches the key
	// generator used by the records already encrypted in production.
	PBKDF2 KDF = "pbkdf2"

	// HKDF is HKDF-SHA256 with a versioned info string.
	HKDF KDF = "hkdf"
)

const (
	// KeySize is the derived key length in bytes for both supported ciphers.
	KeySize = 32

	// DefaultKeyDerivationIterations is the PBKDF2 iteration count (2^16).
	DefaultKeyDerivationIterations = 1 << 16

	// FormatVersionJSON is the envelope version for JSON encoded payloads.
	FormatVersionJSON uint = 1
)
