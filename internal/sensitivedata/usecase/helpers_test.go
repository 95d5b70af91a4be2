package usecase

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
	cryptoService "github.com/definescope/definerails-sensitivedata/internal/crypto/service"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
	sensitivedataService "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/service"
)

// memoryRecordRepository is an in-memory RecordRepository with the same
// optimistic version semantics as the SQL repositories.
type memoryRecordRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]*sensitivedataDomain.Record
	updates int
	// beforeUpdate runs before each Update; tests use it to simulate a concurrent writer.
	beforeUpdate func(attempt int)
}

func newMemoryRecordRepository() *memoryRecordRepository {
	return &memoryRecordRepository{records: make(map[uuid.UUID]*sensitivedataDomain.Record)}
}

func (m *memoryRecordRepository) Create(_ context.Context, record *sensitivedataDomain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record.Clone()
	return nil
}

func (m *memoryRecordRepository) Get(_ context.Context, id uuid.UUID) (*sensitivedataDomain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, sensitivedataDomain.ErrRecordNotFound
	}
	return record.Clone(), nil
}

func (m *memoryRecordRepository) Update(
	_ context.Context,
	record *sensitivedataDomain.Record,
	expectedVersion int64,
) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate(m.updates)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++

	stored, ok := m.records[record.ID]
	if !ok {
		return sensitivedataDomain.ErrRecordNotFound
	}
	if stored.Version != expectedVersion {
		return sensitivedataDomain.ErrRecordConflict
	}

	record.Version = expectedVersion + 1
	m.records[record.ID] = record.Clone()
	return nil
}

func (m *memoryRecordRepository) ListByFieldState(
	_ context.Context,
	kind, field string,
	state sensitivedataDomain.FieldState,
	offset, limit int,
) ([]*sensitivedataDomain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*sensitivedataDomain.Record
	for _, record := range m.records {
		if record.Kind == kind && record.Field(field).State() == state {
			header := record.Clone()
			header.Fields = map[string]sensitivedataDomain.EncryptedField{}
			out = append(out, header)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })

	if offset >= len(out) {
		return []*sensitivedataDomain.Record{}, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

// store overwrites a record directly, bypassing version checks.
func (m *memoryRecordRepository) store(record *sensitivedataDomain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record.Clone()
}

type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFieldCipher(t *testing.T) *sensitivedataService.FieldCipherService {
	t.Helper()

	secret, err := cryptoDomain.NewMasterSecret("286f6ec0", "0123456789abcdef")
	require.NoError(t, err)
	deriver, err := cryptoService.NewKeyDeriver(cryptoDomain.HKDF, []byte("test-kdf-salt"), 0)
	require.NoError(t, err)

	fieldCipher, err := sensitivedataService.NewFieldCipher(
		secret,
		deriver,
		cryptoService.NewJSONSerializer(),
		cryptoService.NewAEADCodec(cryptoService.NewAEADManager(), cryptoDomain.AESGCM),
	)
	require.NoError(t, err)
	return fieldCipher
}

func newTestUseCase(t *testing.T, repo RecordRepository, maxRetries int) RecordUseCase {
	t.Helper()

	salts, err := sensitivedataService.NewSaltPolicy(sensitivedataService.DefaultSaltSize)
	require.NoError(t, err)
	schema, err := sensitivedataDomain.ParseSchema(
		sensitivedataDomain.DefaultBlobField,
		"ssn:nil_visible,notes:treat_nil_as_empty+empty_visible",
	)
	require.NoError(t, err)

	return NewRecordUseCase(
		passthroughTxManager{},
		repo,
		newTestFieldCipher(t),
		salts,
		schema,
		maxRetries,
		discardLogger(),
	)
}
