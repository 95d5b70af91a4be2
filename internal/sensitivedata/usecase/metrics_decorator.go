package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/definescope/definerails-sensitivedata/internal/errors"
	"github.com/definescope/definerails-sensitivedata/internal/metrics"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// recordUseCaseWithMetrics decorates RecordUseCase with metrics instrumentation.
type recordUseCaseWithMetrics struct {
	next    RecordUseCase
	metrics metrics.BusinessMetrics
}

// NewRecordUseCaseWithMetrics wraps a RecordUseCase with metrics recording.
func NewRecordUseCaseWithMetrics(useCase RecordUseCase, m metrics.BusinessMetrics) RecordUseCase {
	return &recordUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *recordUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	switch {
	case err == nil:
	case apperrors.Is(err, apperrors.ErrIntegrity):
		// Tampered or undecryptable payloads get their own series so they can be alerted on.
		status = metrics.StatusIntegrityError
	default:
		status = metrics.StatusError
	}

	r.metrics.Observe(ctx, operation, status, time.Since(start))
}

// Create records metrics for record creation.
func (r *recordUseCaseWithMetrics) Create(ctx context.Context, kind string) (*sensitivedataDomain.Record, error) {
	start := time.Now()
	record, err := r.next.Create(ctx, kind)
	r.record(ctx, "record_create", start, err)
	return record, err
}

// GetData records metrics for blob key reads.
func (r *recordUseCaseWithMetrics) GetData(ctx context.Context, id uuid.UUID, key string) (any, error) {
	start := time.Now()
	value, err := r.next.GetData(ctx, id, key)
	r.record(ctx, "data_get", start, err)
	return value, err
}

// SetData records metrics for blob key writes.
func (r *recordUseCaseWithMetrics) SetData(ctx context.Context, id uuid.UUID, key string, value any) error {
	start := time.Now()
	err := r.next.SetData(ctx, id, key, value)
	r.record(ctx, "data_set", start, err)
	return err
}

// DeleteData records metrics for blob key deletes.
func (r *recordUseCaseWithMetrics) DeleteData(ctx context.Context, id uuid.UUID, key string) error {
	start := time.Now()
	err := r.next.DeleteData(ctx, id, key)
	r.record(ctx, "data_delete", start, err)
	return err
}

// ListDataKeys records metrics for blob key listing.
func (r *recordUseCaseWithMetrics) ListDataKeys(ctx context.Context, id uuid.UUID) ([]string, error) {
	start := time.Now()
	keys, err := r.next.ListDataKeys(ctx, id)
	r.record(ctx, "data_keys", start, err)
	return keys, err
}

// GetField records metrics for scalar attribute reads.
func (r *recordUseCaseWithMetrics) GetField(ctx context.Context, id uuid.UUID, name string) (*string, error) {
	start := time.Now()
	value, err := r.next.GetField(ctx, id, name)
	r.record(ctx, "field_get", start, err)
	return value, err
}

// SetField records metrics for scalar attribute writes.
func (r *recordUseCaseWithMetrics) SetField(ctx context.Context, id uuid.UUID, name string, value *string) error {
	start := time.Now()
	err := r.next.SetField(ctx, id, name, value)
	r.record(ctx, "field_set", start, err)
	return err
}

// FindByFieldState records metrics for sentinel queries.
func (r *recordUseCaseWithMetrics) FindByFieldState(
	ctx context.Context,
	kind, field string,
	state sensitivedataDomain.FieldState,
	offset, limit int,
) ([]*sensitivedataDomain.Record, error) {
	start := time.Now()
	records, err := r.next.FindByFieldState(ctx, kind, field, state, offset, limit)
	r.record(ctx, "record_find_by_field_state", start, err)
	return records, err
}
