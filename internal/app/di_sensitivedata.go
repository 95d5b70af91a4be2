package app

import (
	"fmt"

	"github.com/definescope/definerails-sensitivedata/internal/database"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
	sensitivedataHTTP "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/http"
	sensitivedataRepository "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/repository"
	sensitivedataService "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/service"
	sensitivedataUseCase "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/usecase"
)

// SaltPolicy returns the record salt generator.
func (c *Container) SaltPolicy() (*sensitivedataService.SaltPolicy, error) {
	err := c.once(&c.saltPolicyInit, "saltPolicy", func() error {
		var err error
		c.saltPolicy, err = sensitivedataService.NewSaltPolicy(c.config.RecordSaltSizeBytes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.saltPolicy, nil
}

// Schema returns the encrypted attribute schema parsed from ENCRYPTED_FIELDS.
func (c *Container) Schema() (*sensitivedataDomain.Schema, error) {
	err := c.once(&c.schemaInit, "schema", func() error {
		schema, err := sensitivedataDomain.ParseSchema(c.config.SensitiveDataField, c.config.EncryptedFields)
		if err != nil {
			return fmt.Errorf("failed to parse encrypted fields: %w", err)
		}
		c.schema = schema
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.schema, nil
}

// RecordRepository returns the record repository for the configured driver.
func (c *Container) RecordRepository() (sensitivedataUseCase.RecordRepository, error) {
	err := c.once(&c.recordRepoInit, "recordRepo", func() error {
		var err error
		c.recordRepo, err = c.initRecordRepository()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.recordRepo, nil
}

// RecordUseCase returns the record use case, instrumented when metrics are enabled.
func (c *Container) RecordUseCase() (sensitivedataUseCase.RecordUseCase, error) {
	err := c.once(&c.recordUseCaseInit, "recordUseCase", func() error {
		var err error
		c.recordUseCase, err = c.initRecordUseCase()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.recordUseCase, nil
}

// RecordHandler returns the HTTP handler for record operations.
func (c *Container) RecordHandler() (*sensitivedataHTTP.RecordHandler, error) {
	err := c.once(&c.recordHandlerInit, "recordHandler", func() error {
		useCase, err := c.RecordUseCase()
		if err != nil {
			return fmt.Errorf("failed to get record use case for record handler: %w", err)
		}
		c.recordHandler = sensitivedataHTTP.NewRecordHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.recordHandler, nil
}

// initRecordRepository creates the record repository based on the database driver.
func (c *Container) initRecordRepository() (sensitivedataUseCase.RecordRepository, error) {
	switch c.config.DBDriver {
	case DriverMongoDB:
		db, err := c.MongoDatabase()
		if err != nil {
			return nil, fmt.Errorf("failed to get mongodb for record repository: %w", err)
		}
		return sensitivedataRepository.NewMongoDBRecordRepository(db), nil
	case database.DriverPostgres, database.DriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for record repository: %w", err)
		}
		if c.config.DBDriver == database.DriverMySQL {
			return sensitivedataRepository.NewMySQLRecordRepository(db), nil
		}
		return sensitivedataRepository.NewPostgreSQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecordUseCase creates the record use case with all its dependencies.
func (c *Container) initRecordUseCase() (sensitivedataUseCase.RecordUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for record use case: %w", err)
	}

	recordRepo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for record use case: %w", err)
	}

	fieldCipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for record use case: %w", err)
	}

	salts, err := c.SaltPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to get salt policy for record use case: %w", err)
	}

	schema, err := c.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema for record use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for record use case: %w", err)
	}

	useCase := sensitivedataUseCase.NewRecordUseCase(
		txManager,
		recordRepo,
		fieldCipher,
		salts,
		schema,
		c.config.UpdateMaxRetries,
		c.Logger(),
	)

	return sensitivedataUseCase.NewRecordUseCaseWithMetrics(useCase, businessMetrics), nil
}
