package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
	cryptoService "github.com/definescope/definerails-sensitivedata/internal/crypto/service"
	sensitivedataService "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// MasterSecret returns the process-wide master secret, unwrapped through KMS
// when MASTER_SECRET_KMS_KEY_URI is set. Startup fails if it cannot be built.
func (c *Container) MasterSecret() (*cryptoDomain.MasterSecret, error) {
	err := c.once(&c.masterSecretInit, "masterSecret", func() error {
		secret, err := cryptoService.LoadMasterSecret(
			context.Background(),
			cryptoService.MasterSecretSource{
				CodebaseKey:    cryptoDomain.CodebaseKeyFor(c.config.AppEnv),
				EnvironmentKey: c.config.SensitiveDataEncryptionKey,
				KMSKeyURI:      c.config.MasterSecretKMSKeyURI,
			},
			c.KMSService(),
			c.Logger(),
		)
		if err != nil {
			return fmt.Errorf("failed to load master secret: %w", err)
		}
		c.masterSecret = secret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.masterSecret, nil
}

// KeyDeriver returns the configured key derivation service.
func (c *Container) KeyDeriver() (cryptoService.KeyDeriver, error) {
	err := c.once(&c.keyDeriverInit, "keyDeriver", func() error {
		deriver, err := cryptoService.NewKeyDeriver(
			cryptoDomain.KDF(c.config.KeyDerivationFunction),
			[]byte(c.config.KeyDerivationSalt),
			c.config.KeyDerivationIterations,
		)
		if err != nil {
			return fmt.Errorf("failed to create key deriver: %w", err)
		}
		c.keyDeriver = deriver
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.keyDeriver, nil
}

// FieldCipher returns the cipher used by every encrypted attribute.
func (c *Container) FieldCipher() (sensitivedataService.FieldCipher, error) {
	err := c.once(&c.fieldCipherInit, "fieldCipher", func() error {
		var err error
		c.fieldCipher, err = c.initFieldCipher()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.fieldCipher, nil
}

// initFieldCipher writes with CIPHER_ALGORITHM and keeps every supported
// algorithm readable so the writer can be switched without a migration.
func (c *Container) initFieldCipher() (sensitivedataService.FieldCipher, error) {
	writerAlg, err := parseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, err
	}

	secret, err := c.MasterSecret()
	if err != nil {
		return nil, err
	}

	deriver, err := c.KeyDeriver()
	if err != nil {
		return nil, err
	}

	aeadManager := c.AEADManager()
	fieldCipher, err := sensitivedataService.NewFieldCipher(
		secret,
		deriver,
		cryptoService.NewJSONSerializer(),
		cryptoService.NewAEADCodec(aeadManager, writerAlg),
		cryptoService.NewAEADCodec(aeadManager, cryptoDomain.AESGCM),
		cryptoService.NewAEADCodec(aeadManager, cryptoDomain.ChaCha20),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create field cipher: %w", err)
	}
	return fieldCipher, nil
}

func parseAlgorithm(name string) (cryptoDomain.Algorithm, error) {
	switch alg := cryptoDomain.Algorithm(name); alg {
	case cryptoDomain.AESGCM, cryptoDomain.ChaCha20:
		return alg, nil
	default:
		return "", fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, name)
	}
}
