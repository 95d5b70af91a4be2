package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens keepers for the configured KMS provider.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper using keyURI.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// MasterSecretSource describes where the two halves of the master secret come from.
type MasterSecretSource struct {
	// CodebaseKey is the fixed-length application identifier.
	CodebaseKey string
	// EnvironmentKey is the deploy-time secret, or its base64 KMS ciphertext
	// when KMSKeyURI is set.
	EnvironmentKey string
	// KMSKeyURI enables KMS unwrapping of EnvironmentKey.
	KMSKeyURI string
}

// LoadMasterSecret assembles the process-wide master secret, unwrapping the
// environment half through KMS when configured.
func LoadMasterSecret(
	ctx context.Context,
	source MasterSecretSource,
	kms KMSService,
	logger *slog.Logger,
) (*cryptoDomain.MasterSecret, error) {
	if source.KMSKeyURI == "" {
		logger.Info("loading master secret from environment")
		return cryptoDomain.NewMasterSecret(source.CodebaseKey, source.EnvironmentKey)
	}

	logger.Info("loading master secret through KMS")

	ciphertext, err := base64.StdEncoding.DecodeString(source.EnvironmentKey)
	if err != nil {
		return nil, fmt.Errorf("%w: environment secret is not base64", cryptoDomain.ErrInvalidMasterSecret)
	}

	keeper, err := kms.OpenKeeper(ctx, source.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	envKey, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt environment secret with KMS: %w", err)
	}
	defer cryptoDomain.Zero(envKey)

	return cryptoDomain.NewMasterSecret(source.CodebaseKey, string(envKey))
}
