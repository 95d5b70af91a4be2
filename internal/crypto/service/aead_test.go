package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func aeadConstructors() map[string]func([]byte) (AEAD, error) {
	return map[string]func([]byte) (AEAD, error){
		"aes-gcm": func(key []byte) (AEAD, error) {
			c, err := NewAESGCM(key)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		"chacha20-poly1305": func(key []byte) (AEAD, error) {
			c, err := NewChaCha20Poly1305(key)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

func TestAEAD_InvalidKeySize(t *testing.T) {
	for name, newCipher := range aeadConstructors() {
		t.Run(name, func(t *testing.T) {
			_, err := newCipher(make([]byte, 16))
			assert.Error(t, err)

			_, err = newCipher(make([]byte, 64))
			assert.Error(t, err)
		})
	}
}

func TestAEAD_EncryptDecrypt(t *testing.T) {
	testCases := []struct {
		name      string
		plaintext []byte
		aad       []byte
	}{
		{name: "short message", plaintext: []byte("test"), aad: []byte("metadata")},
		{name: "long message", plaintext: bytes.Repeat([]byte("a"), 10000), aad: nil},
		{name: "unicode", plaintext: []byte("Hello 世界! 🔐"), aad: []byte("unicode")},
		{name: "empty plaintext", plaintext: []byte{}, aad: nil},
	}

	for name, newCipher := range aeadConstructors() {
		cipher, err := newCipher(newTestKey(t))
		require.NoError(t, err)

		for _, tc := range testCases {
			t.Run(name+"/"+tc.name, func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt(tc.plaintext, tc.aad)
				require.NoError(t, err)
				assert.Len(t, nonce, 12)

				decrypted, err := cipher.Decrypt(ciphertext, nonce, tc.aad)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(tc.plaintext, decrypted))
			})
		}
	}
}

func TestAEAD_NonceIsUnique(t *testing.T) {
	for name, newCipher := range aeadConstructors() {
		t.Run(name, func(t *testing.T) {
			cipher, err := newCipher(newTestKey(t))
			require.NoError(t, err)

			_, nonce1, err := cipher.Encrypt([]byte("same"), nil)
			require.NoError(t, err)
			_, nonce2, err := cipher.Encrypt([]byte("same"), nil)
			require.NoError(t, err)

			assert.NotEqual(t, nonce1, nonce2)
		})
	}
}

func TestAEAD_DecryptFailures(t *testing.T) {
	for name, newCipher := range aeadConstructors() {
		cipher, err := newCipher(newTestKey(t))
		require.NoError(t, err)

		ciphertext, nonce, err := cipher.Encrypt([]byte("Hello, World!"), []byte("aad"))
		require.NoError(t, err)

		t.Run(name+"/wrong aad", func(t *testing.T) {
			decrypted, err := cipher.Decrypt(ciphertext, nonce, []byte("other"))
			assert.Error(t, err)
			assert.Nil(t, decrypted)
		})

		t.Run(name+"/tampered ciphertext", func(t *testing.T) {
			tampered := append([]byte(nil), ciphertext...)
			tampered[0] ^= 1
			decrypted, err := cipher.Decrypt(tampered, nonce, []byte("aad"))
			assert.Error(t, err)
			assert.Nil(t, decrypted)
		})

		t.Run(name+"/short nonce does not panic", func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := cipher.Decrypt(ciphertext, nonce[:4], []byte("aad"))
				assert.Error(t, err)
			})
		})

		t.Run(name+"/wrong key", func(t *testing.T) {
			other, err := newCipher(newTestKey(t))
			require.NoError(t, err)
			_, err = other.Decrypt(ciphertext, nonce, []byte("aad"))
			assert.Error(t, err)
		})
	}
}
