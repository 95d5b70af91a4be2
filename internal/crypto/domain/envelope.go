package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

var strictBase64 = base64.StdEncoding.Strict()

// Envelope is the stored text form of an encrypted payload:
// "version:algorithm:ciphertext-base64".
//
// The version selects the payload serialization format and stays readable
// without decryption so stored data can be migrated. The "version:algorithm"
// header is bound to the ciphertext as associated data, so it cannot be
// edited without failing authentication.
type Envelope struct {
	Version    uint
	Algorithm  Algorithm
	Ciphertext []byte
}

// ParseEnvelope parses the stored ciphertext slot.
//
// A slot that does not have the expected shape is treated as tampered data and
// reported as ErrDecryptionFailed. The version is only required to be numeric
// here; whether it is supported is decided after the header authenticates.
func ParseEnvelope(content string) (Envelope, error) {
	parts := strings.Split(content, ":")
	if len(parts) != 3 {
		return Envelope{}, fmt.Errorf(
			"%w: expected 'version:algorithm:ciphertext', got %d parts",
			ErrDecryptionFailed,
			len(parts),
		)
	}

	// Canonical form only: the header is re-rendered as associated data.
	version, err := strconv.ParseUint(parts[0], 10, 0)
	if err != nil || strconv.FormatUint(version, 10) != parts[0] {
		return Envelope{}, fmt.Errorf("%w: invalid envelope version", ErrDecryptionFailed)
	}

	alg := Algorithm(parts[1])
	if alg != AESGCM && alg != ChaCha20 {
		return Envelope{}, fmt.Errorf("%w: unknown algorithm %q", ErrDecryptionFailed, parts[1])
	}

	ciphertext, err := strictBase64.DecodeString(parts[2])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: invalid ciphertext encoding", ErrDecryptionFailed)
	}

	return Envelope{
		Version:    uint(version),
		Algorithm:  alg,
		Ciphertext: ciphertext,
	}, nil
}

// AssociatedData returns the "version:algorithm" header the ciphertext is bound to.
func (e Envelope) AssociatedData() []byte {
	return []byte(e.header())
}

// String serializes the envelope for storage.
func (e Envelope) String() string {
	return e.header() + ":" + base64.StdEncoding.EncodeToString(e.Ciphertext)
}

func (e Envelope) header() string {
	return fmt.Sprintf("%d:%s", e.Version, e.Algorithm)
}

// EncodeIV encodes an IV for the IV slot.
func EncodeIV(iv []byte) string {
	return base64.StdEncoding.EncodeToString(iv)
}

// DecodeIV decodes the IV slot. Malformed input is reported as ErrDecryptionFailed.
func DecodeIV(content string) ([]byte, error) {
	iv, err := strictBase64.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid iv encoding", ErrDecryptionFailed)
	}
	return iv, nil
}
