package service

import (
	"fmt"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
)

// AEADCodec implements CipherCodec on top of an AEADManager.
type AEADCodec struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewAEADCodec creates a codec that seals and opens payloads with alg.
func NewAEADCodec(aeadManager AEADManager, alg cryptoDomain.Algorithm) *AEADCodec {
	return &AEADCodec{aeadManager: aeadManager, algorithm: alg}
}

// Algorithm returns the codec's cipher.
func (c *AEADCodec) Algorithm() cryptoDomain.Algorithm {
	return c.algorithm
}

// Encrypt seals plain under key with a fresh IV, binding aad to the result.
func (c *AEADCodec) Encrypt(
	plain, aad []byte,
	key *cryptoDomain.DerivedKey,
) (ciphertext, iv []byte, err error) {
	aead, err := c.aeadManager.CreateCipher(key.Bytes(), c.algorithm)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, iv, err = aead.Encrypt(plain, aad)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}
	return ciphertext, iv, nil
}

// Decrypt opens ciphertext. Every failure after cipher construction is
// reported as ErrDecryptionFailed without further detail.
func (c *AEADCodec) Decrypt(
	ciphertext, iv, aad []byte,
	key *cryptoDomain.DerivedKey,
) ([]byte, error) {
	aead, err := c.aeadManager.CreateCipher(key.Bytes(), c.algorithm)
	if err != nil {
		return nil, err
	}

	plain, err := aead.Decrypt(ciphertext, iv, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plain, nil
}
