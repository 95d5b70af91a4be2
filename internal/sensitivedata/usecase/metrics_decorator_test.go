package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/definescope/definerails-sensitivedata/internal/errors"
	"github.com/definescope/definerails-sensitivedata/internal/metrics"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) Observe(ctx context.Context, operation, status string, elapsed time.Duration) {
	m.Called(ctx, operation, status, elapsed)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// mockRecordUseCase is a testify mock of RecordUseCase.
type mockRecordUseCase struct {
	mock.Mock
}

func (m *mockRecordUseCase) Create(ctx context.Context, kind string) (*sensitivedataDomain.Record, error) {
	args := m.Called(ctx, kind)
	record, _ := args.Get(0).(*sensitivedataDomain.Record)
	return record, args.Error(1)
}

func (m *mockRecordUseCase) GetData(ctx context.Context, id uuid.UUID, key string) (any, error) {
	args := m.Called(ctx, id, key)
	return args.Get(0), args.Error(1)
}

func (m *mockRecordUseCase) SetData(ctx context.Context, id uuid.UUID, key string, value any) error {
	return m.Called(ctx, id, key, value).Error(0)
}

func (m *mockRecordUseCase) DeleteData(ctx context.Context, id uuid.UUID, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

func (m *mockRecordUseCase) ListDataKeys(ctx context.Context, id uuid.UUID) ([]string, error) {
	args := m.Called(ctx, id)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *mockRecordUseCase) GetField(ctx context.Context, id uuid.UUID, name string) (*string, error) {
	args := m.Called(ctx, id, name)
	value, _ := args.Get(0).(*string)
	return value, args.Error(1)
}

func (m *mockRecordUseCase) SetField(ctx context.Context, id uuid.UUID, name string, value *string) error {
	return m.Called(ctx, id, name, value).Error(0)
}

func (m *mockRecordUseCase) FindByFieldState(
	ctx context.Context,
	kind, field string,
	state sensitivedataDomain.FieldState,
	offset, limit int,
) ([]*sensitivedataDomain.Record, error) {
	args := m.Called(ctx, kind, field, state, offset, limit)
	records, _ := args.Get(0).([]*sensitivedataDomain.Record)
	return records, args.Error(1)
}

var _ RecordUseCase = (*mockRecordUseCase)(nil)

func expectMetrics(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("Observe", ctx, operation, status, mock.AnythingOfType("time.Duration")).Return().Once()
}

func TestNewRecordUseCaseWithMetrics(t *testing.T) {
	decorator := NewRecordUseCaseWithMetrics(&mockRecordUseCase{}, &mockBusinessMetrics{})
	assert.NotNil(t, decorator)
	assert.Implements(t, (*RecordUseCase)(nil), decorator)
}

func TestRecordUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())
	value := "v"

	tests := []struct {
		name      string
		operation string
		method    string
		args      []any
		returns   []any
		call      func(uc RecordUseCase) error
	}{
		{
			name:      "Create",
			operation: "record_create",
			method:    "Create",
			args:      []any{ctx, "patient"},
			returns:   []any{&sensitivedataDomain.Record{ID: id}, nil},
			call: func(uc RecordUseCase) error {
				_, err := uc.Create(ctx, "patient")
				return err
			},
		},
		{
			name:      "GetData",
			operation: "data_get",
			method:    "GetData",
			args:      []any{ctx, id, "k"},
			returns:   []any{"v", nil},
			call: func(uc RecordUseCase) error {
				_, err := uc.GetData(ctx, id, "k")
				return err
			},
		},
		{
			name:      "SetData",
			operation: "data_set",
			method:    "SetData",
			args:      []any{ctx, id, "k", "v"},
			returns:   []any{nil},
			call: func(uc RecordUseCase) error {
				return uc.SetData(ctx, id, "k", "v")
			},
		},
		{
			name:      "DeleteData",
			operation: "data_delete",
			method:    "DeleteData",
			args:      []any{ctx, id, "k"},
			returns:   []any{nil},
			call: func(uc RecordUseCase) error {
				return uc.DeleteData(ctx, id, "k")
			},
		},
		{
			name:      "ListDataKeys",
			operation: "data_keys",
			method:    "ListDataKeys",
			args:      []any{ctx, id},
			returns:   []any{[]string{"k"}, nil},
			call: func(uc RecordUseCase) error {
				_, err := uc.ListDataKeys(ctx, id)
				return err
			},
		},
		{
			name:      "GetField",
			operation: "field_get",
			method:    "GetField",
			args:      []any{ctx, id, "ssn"},
			returns:   []any{&value, nil},
			call: func(uc RecordUseCase) error {
				_, err := uc.GetField(ctx, id, "ssn")
				return err
			},
		},
		{
			name:      "SetField",
			operation: "field_set",
			method:    "SetField",
			args:      []any{ctx, id, "ssn", &value},
			returns:   []any{nil},
			call: func(uc RecordUseCase) error {
				return uc.SetField(ctx, id, "ssn", &value)
			},
		},
		{
			name:      "FindByFieldState",
			operation: "record_find_by_field_state",
			method:    "FindByFieldState",
			args:      []any{ctx, "patient", "ssn", sensitivedataDomain.FieldStateNil, 0, 10},
			returns:   []any{[]*sensitivedataDomain.Record{}, nil},
			call: func(uc RecordUseCase) error {
				_, err := uc.FindByFieldState(ctx, "patient", "ssn", sensitivedataDomain.FieldStateNil, 0, 10)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_Success", func(t *testing.T) {
			next := &mockRecordUseCase{}
			m := &mockBusinessMetrics{}
			next.On(tt.method, tt.args...).Return(tt.returns...).Once()
			expectMetrics(ctx, m, tt.operation, metrics.StatusSuccess)

			err := tt.call(NewRecordUseCaseWithMetrics(next, m))

			assert.NoError(t, err)
			next.AssertExpectations(t)
			m.AssertExpectations(t)
		})

		t.Run(tt.name+"_Error", func(t *testing.T) {
			next := &mockRecordUseCase{}
			m := &mockBusinessMetrics{}
			failed := make([]any, len(tt.returns))
			failed[len(failed)-1] = assert.AnError
			next.On(tt.method, tt.args...).Return(failed...).Once()
			expectMetrics(ctx, m, tt.operation, metrics.StatusError)

			err := tt.call(NewRecordUseCaseWithMetrics(next, m))

			assert.ErrorIs(t, err, assert.AnError)
			next.AssertExpectations(t)
			m.AssertExpectations(t)
		})
	}
}

func TestRecordUseCaseWithMetrics_IntegrityFailure(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())
	next := &mockRecordUseCase{}
	m := &mockBusinessMetrics{}
	tampered := apperrors.Wrap(apperrors.ErrIntegrity, "decryption failed")
	next.On("GetField", ctx, id, "ssn").Return(nil, tampered).Once()
	expectMetrics(ctx, m, "field_get", metrics.StatusIntegrityError)

	_, err := NewRecordUseCaseWithMetrics(next, m).GetField(ctx, id, "ssn")

	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	next.AssertExpectations(t)
	m.AssertExpectations(t)
}
