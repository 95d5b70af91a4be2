package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
	sensitivedataUseCase "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/usecase"
)

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

var _ sensitivedataUseCase.RecordUseCase = (*mockRecordUseCase)(nil)

// setupTestHandler creates a test handler with a mocked use case.
func setupTestHandler(t *testing.T) (*RecordHandler, *mockRecordUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockRecordUseCase{}
	t.Cleanup(func() {
		mockUseCase.AssertExpectations(t)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRecordHandler(mockUseCase, logger), mockUseCase
}

// createTestContext creates a gin test context with an optional JSON body.
func createTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}
