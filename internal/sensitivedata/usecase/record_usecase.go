package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/definescope/definerails-sensitivedata/internal/database"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
	sensitivedataService "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/service"
)

// recordUseCase implements the RecordUseCase interface.
type recordUseCase struct {
	txManager   database.TxManager
	recordRepo  RecordRepository
	fieldCipher sensitivedataService.FieldCipher
	salts       *sensitivedataService.SaltPolicy
	schema      *sensitivedataDomain.Schema
	attributes  map[string]sensitivedataService.AttributeDefinition[string]
	maxRetries  int
	logger      *slog.Logger
}

// Create stores a new record with its salt established up front.
func (r *recordUseCase) Create(ctx context.Context, kind string) (*sensitivedataDomain.Record, error) {
	record := sensitivedataDomain.NewRecord(kind)

	generated, err := sensitivedataService.PrepareForPersistence(record, r.salts)
	if err != nil {
		return nil, err
	}

	err = r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return r.recordRepo.Create(txCtx, record)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("record created",
		slog.String("record_id", record.ID.String()),
		slog.String("kind", kind),
		slog.Bool("salt_generated", generated),
	)
	return record, nil
}

// GetData decrypts the blob and returns one key.
func (r *recordUseCase) GetData(ctx context.Context, id uuid.UUID, key string) (any, error) {
	record, err := r.recordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.blob(record).GetKey(key)
}

// SetData sets one blob key, retrying on version conflicts.
func (r *recordUseCase) SetData(ctx context.Context, id uuid.UUID, key string, value any) error {
	return r.update(ctx, id, "set_data", func(record *sensitivedataDomain.Record) error {
		return r.blob(record).SetKey(key, value)
	})
}

// DeleteData removes one blob key, retrying on version conflicts.
func (r *recordUseCase) DeleteData(ctx context.Context, id uuid.UUID, key string) error {
	return r.update(ctx, id, "delete_data", func(record *sensitivedataDomain.Record) error {
		return r.blob(record).SetKey(key, nil)
	})
}

// ListDataKeys decrypts the blob and returns its keys.
func (r *recordUseCase) ListDataKeys(ctx context.Context, id uuid.UUID) ([]string, error) {
	record, err := r.recordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.blob(record).Keys()
}

// GetField reads a scalar attribute, applying its visibility policy.
func (r *recordUseCase) GetField(ctx context.Context, id uuid.UUID, name string) (*string, error) {
	definition, err := r.attribute(name)
	if err != nil {
		return nil, err
	}

	record, err := r.recordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return definition.Bind(record, r.fieldCipher).Get()
}

// SetField writes a scalar attribute, retrying on version conflicts.
func (r *recordUseCase) SetField(ctx context.Context, id uuid.UUID, name string, value *string) error {
	definition, err := r.attribute(name)
	if err != nil {
		return err
	}

	return r.update(ctx, id, "set_field", func(record *sensitivedataDomain.Record) error {
		return definition.Bind(record, r.fieldCipher).Set(value)
	})
}

// FindByFieldState runs a sentinel query on a declared field.
func (r *recordUseCase) FindByFieldState(
	ctx context.Context,
	kind, field string,
	state sensitivedataDomain.FieldState,
	offset, limit int,
) ([]*sensitivedataDomain.Record, error) {
	if !r.schema.Has(field) {
		return nil, sensitivedataDomain.ErrUnknownField
	}
	return r.recordRepo.ListByFieldState(ctx, kind, field, state, offset, limit)
}

// update reloads the record, applies fn and saves under a version check.
// A conflict means another writer saved first: the whole cycle is repeated
// on fresh state so no concurrent change is overwritten. Any other error,
// including every cryptographic failure, is returned immediately.
func (r *recordUseCase) update(
	ctx context.Context,
	id uuid.UUID,
	operation string,
	fn func(record *sensitivedataDomain.Record) error,
) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := r.recordRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		generated, err := sensitivedataService.PrepareForPersistence(record, r.salts)
		if err != nil {
			return err
		}
		if generated {
			r.logger.Info("record salt generated", slog.String("record_id", id.String()))
		}

		if err := fn(record); err != nil {
			return err
		}

		expectedVersion := record.Version
		err = r.txManager.WithTx(ctx, func(txCtx context.Context) error {
			return r.recordRepo.Update(txCtx, record, expectedVersion)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, sensitivedataDomain.ErrRecordConflict) || attempt >= r.maxRetries {
			return err
		}

		r.logger.Warn("record version conflict, retrying",
			slog.String("record_id", id.String()),
			slog.String("operation", operation),
			slog.Int("attempt", attempt+1),
		)
	}
}

func (r *recordUseCase) blob(record *sensitivedataDomain.Record) *sensitivedataService.SensitiveDataBlob {
	return sensitivedataService.NewSensitiveDataBlob(r.schema.BlobField, record, r.fieldCipher)
}

func (r *recordUseCase) attribute(name string) (sensitivedataService.AttributeDefinition[string], error) {
	definition, ok := r.attributes[name]
	if !ok {
		return sensitivedataService.AttributeDefinition[string]{}, sensitivedataDomain.ErrUnknownField
	}
	return definition, nil
}

// NewRecordUseCase creates a new RecordUseCase. maxRetries bounds the number
// of extra attempts after a version conflict.
func NewRecordUseCase(
	txManager database.TxManager,
	recordRepo RecordRepository,
	fieldCipher sensitivedataService.FieldCipher,
	salts *sensitivedataService.SaltPolicy,
	schema *sensitivedataDomain.Schema,
	maxRetries int,
	logger *slog.Logger,
) RecordUseCase {
	attributes := make(map[string]sensitivedataService.AttributeDefinition[string])
	for _, name := range schema.FieldNames() {
		policy, _ := schema.Policy(name)
		attributes[name] = sensitivedataService.NewAttributeDefinition[string](name, policy)
	}

	return &recordUseCase{
		txManager:   txManager,
		recordRepo:  recordRepo,
		fieldCipher: fieldCipher,
		salts:       salts,
		schema:      schema,
		attributes:  attributes,
		maxRetries:  max(maxRetries, 0),
		logger:      logger,
	}
}
