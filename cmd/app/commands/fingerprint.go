package commands

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-json"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
	cryptoService "github.com/definescope/definerails-sensitivedata/internal/crypto/service"
)

type fingerprintResult struct {
	Salt        string `json:"salt"`
	Fingerprint string `json:"fingerprint"`
}

// RunDeriveKeyFingerprint derives the record key for salt and prints the
// SHA-256 of it. Two environments print the same fingerprint only when they
// share master secret and key derivation settings. The key itself is never
// printed.
func RunDeriveKeyFingerprint(
	secret *cryptoDomain.MasterSecret,
	deriver cryptoService.KeyDeriver,
	logger *slog.Logger,
	writer io.Writer,
	salt string,
	format string,
) error {
	if salt == "" {
		return fmt.Errorf("--salt is required")
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	key, err := deriver.Derive(secret, salt)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	sum := sha256.Sum256(key.Bytes())
	key.Zero()

	result := fingerprintResult{Salt: salt, Fingerprint: "sha256:" + hex.EncodeToString(sum[:])}
	logger.Info("derived key fingerprint", slog.String("fingerprint", result.Fingerprint))

	if format == "json" {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(out))
		return nil
	}

	_, _ = fmt.Fprintf(writer, "Salt:        %s\n", result.Salt)
	_, _ = fmt.Fprintf(writer, "Fingerprint: %s\n", result.Fingerprint)
	return nil
}
