// Package usecase defines the interfaces and implementations for per-record
// sensitive data use cases. Use cases load records, run the attribute
// encryption engine on them and persist the result under an optimistic
// version check.
package usecase

import (
	"context"

	"github.com/google/uuid"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// RecordRepository defines the interface for Record persistence operations.
type RecordRepository interface {
	Create(ctx context.Context, record *sensitivedataDomain.Record) error
	Get(ctx context.Context, id uuid.UUID) (*sensitivedataDomain.Record, error)
	// Update stores record if the persisted version still equals expectedVersion,
	// returning ErrRecordConflict otherwise. On success record.Version is advanced.
	Update(ctx context.Context, record *sensitivedataDomain.Record, expectedVersion int64) error
	// ListByFieldState returns records of kind whose field is in state, ordered by ID.
	// Returned records carry no fields.
	ListByFieldState(
		ctx context.Context,
		kind, field string,
		state sensitivedataDomain.FieldState,
		offset, limit int,
	) ([]*sensitivedataDomain.Record, error)
}

// RecordUseCase defines the interface for sensitive data business logic.
//
// Values returned by GetData and GetField are plaintext. They must not be
// logged.
type RecordUseCase interface {
	// Create stores a new record of kind with a freshly generated salt.
	Create(ctx context.Context, kind string) (*sensitivedataDomain.Record, error)
	// GetData returns one logical key of the sensitive data blob, nil when absent.
	GetData(ctx context.Context, id uuid.UUID, key string) (any, error)
	// SetData sets one logical key of the sensitive data blob. A nil value deletes it.
	SetData(ctx context.Context, id uuid.UUID, key string, value any) error
	// DeleteData removes one logical key of the sensitive data blob.
	DeleteData(ctx context.Context, id uuid.UUID, key string) error
	// ListDataKeys returns the logical keys of the sensitive data blob, sorted.
	ListDataKeys(ctx context.Context, id uuid.UUID) ([]string, error)
	// GetField returns a scalar encrypted attribute declared in the schema.
	GetField(ctx context.Context, id uuid.UUID, name string) (*string, error)
	// SetField writes a scalar encrypted attribute declared in the schema.
	SetField(ctx context.Context, id uuid.UUID, name string, value *string) error
	// FindByFieldState lists records whose field is stored as the nil or empty
	// sentinel, or as ciphertext. No decryption is performed.
	FindByFieldState(
		ctx context.Context,
		kind, field string,
		state sensitivedataDomain.FieldState,
		offset, limit int,
	) ([]*sensitivedataDomain.Record, error)
}
