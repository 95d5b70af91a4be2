package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// DefaultSaltSize is the number of random bytes in a record salt (8 hex characters).
const DefaultSaltSize = 4

// SaltPolicy guarantees every record has a salt before its first write.
type SaltPolicy struct {
	size int
}

// NewSaltPolicy creates a SaltPolicy generating size random bytes per salt.
func NewSaltPolicy(size int) (*SaltPolicy, error) {
	if size <= 0 {
		return nil, fmt.Errorf("salt size must be positive, got %d", size)
	}
	return &SaltPolicy{size: size}, nil
}

// Generate returns a new hex-encoded random salt.
func (p *SaltPolicy) Generate() (string, error) {
	buf := make([]byte, p.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate record salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// EnsureSalt assigns a salt when the store has none. An existing salt is
// never regenerated. generated reports whether a salt was assigned.
func (p *SaltPolicy) EnsureSalt(store sensitivedataDomain.FieldStore) (generated bool, err error) {
	if store.Salt() != "" {
		return false, nil
	}

	salt, err := p.Generate()
	if err != nil {
		return false, err
	}
	if err := store.SetSalt(salt); err != nil {
		return false, err
	}
	return true, nil
}
