package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
)

// hkdfInfo is versioned so the HKDF expansion can change without colliding with old keys.
const hkdfInfo = "sensitive-data-field-v1"

// KeyDeriverService derives per-record keys.
//
// The password is the master secret, suffixed with "_" and the record salt
// when a salt is present. It is stretched to KeySize bytes with an
// application-wide KDF salt. No key is cached: recomputing is cheap compared
// to the risk of keeping keys around.
type KeyDeriverService struct {
	kdf        cryptoDomain.KDF
	kdfSalt    []byte
	iterations int
}

// NewKeyDeriver creates a KeyDeriverService. iterations only applies to PBKDF2.
func NewKeyDeriver(kdf cryptoDomain.KDF, kdfSalt []byte, iterations int) (*KeyDeriverService, error) {
	switch kdf {
	case cryptoDomain.PBKDF2:
		if iterations <= 0 {
			return nil, fmt.Errorf("pbkdf2 iterations must be positive, got %d", iterations)
		}
	case cryptoDomain.HKDF:
	default:
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedKDF, kdf)
	}

	return &KeyDeriverService{
		kdf:        kdf,
		kdfSalt:    append([]byte(nil), kdfSalt...),
		iterations: iterations,
	}, nil
}

// Derive computes the key for (secret, salt). An empty salt is accepted and
// derives from the bare secret; record-level callers reject it earlier.
func (k *KeyDeriverService) Derive(
	secret *cryptoDomain.MasterSecret,
	salt string,
) (*cryptoDomain.DerivedKey, error) {
	if secret.IsEmpty() {
		return nil, cryptoDomain.ErrEmptyMasterSecret
	}

	password := saltedPassword(secret.Bytes(), salt)
	defer cryptoDomain.Zero(password)

	switch k.kdf {
	case cryptoDomain.PBKDF2:
		key := pbkdf2.Key(password, k.kdfSalt, k.iterations, cryptoDomain.KeySize, sha256.New)
		return cryptoDomain.NewDerivedKey(key), nil
	case cryptoDomain.HKDF:
		reader := hkdf.New(sha256.New, password, k.kdfSalt, []byte(hkdfInfo))
		key := make([]byte, cryptoDomain.KeySize)
		if _, err := io.ReadFull(reader, key); err != nil {
			return nil, fmt.Errorf("failed to expand key: %w", err)
		}
		return cryptoDomain.NewDerivedKey(key), nil
	default:
		return nil, cryptoDomain.ErrUnsupportedKDF
	}
}

func saltedPassword(secret []byte, salt string) []byte {
	if salt == "" {
		return append([]byte(nil), secret...)
	}

	password := make([]byte, 0, len(secret)+1+len(salt))
	password = append(password, secret...)
	password = append(password, '_')
	password = append(password, salt...)
	return password
}
