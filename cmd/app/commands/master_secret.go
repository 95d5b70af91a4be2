package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
	cryptoService "github.com/definescope/definerails-sensitivedata/internal/crypto/service"
)

// environmentKeyBytes yields a 16 character hex environment key.
const environmentKeyBytes = 8

// RunCreateMasterSecret generates the environment half of the master secret.
// The codebase half is fixed per APP_ENV and is not printed.
//
// When kmsKeyURI is set the key is encrypted with KMS and printed as base64
// ciphertext together with MASTER_SECRET_KMS_KEY_URI; otherwise the plain key
// is printed. Use base64key:// URIs for local development only.
//
// Output format:
//   - SENSITIVE_DATA_ENCRYPTION_KEY="<key or base64-encoded-kms-ciphertext>"
//   - MASTER_SECRET_KMS_KEY_URI="<uri>" (KMS mode only)
func RunCreateMasterSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	appEnv string,
	kmsKeyURI string,
) error {
	if appEnv == "" {
		return fmt.Errorf("--app-env is required")
	}

	raw := make([]byte, environmentKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate environment key: %w", err)
	}
	envKey := []byte(hex.EncodeToString(raw))
	cryptoDomain.Zero(raw)
	defer cryptoDomain.Zero(envKey)

	if kmsKeyURI == "" {
		logger.Warn("master secret generated without KMS, store it in a secrets manager")

		_, _ = fmt.Fprintf(writer, "# Master secret configuration for APP_ENV=%s\n", appEnv)
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "SENSITIVE_DATA_ENCRYPTION_KEY=\"%s\"\n", envKey)
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, envKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt environment key with KMS: %w", err)
	}

	logger.Info("master secret encrypted with KMS", slog.String("app_env", appEnv))

	_, _ = fmt.Fprintf(writer, "# Master secret configuration for APP_ENV=%s (KMS mode)\n", appEnv)
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_SECRET_KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(
		writer,
		"SENSITIVE_DATA_ENCRYPTION_KEY=\"%s\"\n",
		base64.StdEncoding.EncodeToString(ciphertext),
	)
	return nil
}
