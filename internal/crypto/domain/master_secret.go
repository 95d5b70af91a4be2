// Package domain defines the cryptographic value objects for per-record field
// encryption: the process-wide master secret, the per-record derived key and
// the stored ciphertext envelope.
package domain

import (
	"fmt"
)

// Codebase halves of the master secret. The environment half is supplied at
// deploy time; neither half is useful alone.
const (
	productionCodebaseKey = "a78683f4"
	defaultCodebaseKey    = "286f6ec0"
)

// CodebaseKeySize is the length of the application identifier half.
const CodebaseKeySize = 8

// MasterSecret is the application-wide key material combined with a record
// salt to derive per-record keys. It is constant for the lifetime of the
// process; changing it invalidates every previously derived key.
type MasterSecret struct {
	material []byte
}

// CodebaseKeyFor returns the application identifier half for an environment.
func CodebaseKeyFor(env string) string {
	if env == "production" {
		return productionCodebaseKey
	}
	return defaultCodebaseKey
}

// NewMasterSecret joins the fixed-length application identifier with the
// externally supplied environment secret.
func NewMasterSecret(codebaseKey, envKey string) (*MasterSecret, error) {
	if len(codebaseKey) != CodebaseKeySize {
		return nil, fmt.Errorf(
			"%w: application identifier must be %d characters, got %d",
			ErrInvalidMasterSecret,
			CodebaseKeySize,
			len(codebaseKey),
		)
	}
	if envKey == "" {
		return nil, fmt.Errorf("%w: environment secret not set", ErrInvalidMasterSecret)
	}

	material := make([]byte, 0, len(codebaseKey)+len(envKey))
	material = append(material, codebaseKey...)
	material = append(material, envKey...)
	return &MasterSecret{material: material}, nil
}

// NewMasterSecretFromBytes wraps raw key material. The slice is copied.
func NewMasterSecretFromBytes(material []byte) *MasterSecret {
	return &MasterSecret{material: append([]byte(nil), material...)}
}

// Bytes returns the secret material. Callers must not modify it.
func (m *MasterSecret) Bytes() []byte {
	if m == nil {
		return nil
	}
	return m.material
}

// IsEmpty reports whether no key material is present.
func (m *MasterSecret) IsEmpty() bool {
	return m == nil || len(m.material) == 0
}

// Close zeroes the secret material.
func (m *MasterSecret) Close() {
	if m == nil {
		return
	}
	Zero(m.material)
	m.material = nil
}

// String never prints the material.
func (m *MasterSecret) String() string {
	return "MasterSecret(redacted)"
}
