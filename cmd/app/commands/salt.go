package commands

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	sensitivedataService "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/service"
)

// RunGenerateSalt prints count fresh record salts of sizeBytes random bytes.
// Useful when backfilling the encryption_key column of rows created outside the service.
func RunGenerateSalt(writer io.Writer, sizeBytes, count int, format string) error {
	if count <= 0 {
		return fmt.Errorf("count must be a positive number")
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	policy, err := sensitivedataService.NewSaltPolicy(sizeBytes)
	if err != nil {
		return err
	}

	salts := make([]string, 0, count)
	for range count {
		salt, err := policy.Generate()
		if err != nil {
			return err
		}
		salts = append(salts, salt)
	}

	if format == "json" {
		out, err := json.MarshalIndent(map[string]any{"salts": salts}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(out))
		return nil
	}

	for _, salt := range salts {
		_, _ = fmt.Fprintln(writer, salt)
	}
	return nil
}
