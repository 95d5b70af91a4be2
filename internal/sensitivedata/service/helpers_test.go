package service

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
	cryptoService "github.com/definescope/definerails-sensitivedata/internal/crypto/service"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

func newTestMasterSecret(t *testing.T) *cryptoDomain.MasterSecret {
	t.Helper()
	secret, err := cryptoDomain.NewMasterSecret("286f6ec0", "0123456789abcdef")
	require.NoError(t, err)
	return secret
}

func newTestFieldCipherWith(
	t *testing.T,
	secret *cryptoDomain.MasterSecret,
	writer cryptoDomain.Algorithm,
) *FieldCipherService {
	t.Helper()

	deriver, err := cryptoService.NewKeyDeriver(cryptoDomain.HKDF, []byte("test-kdf-salt"), 0)
	require.NoError(t, err)

	manager := cryptoService.NewAEADManager()
	fieldCipher, err := NewFieldCipher(
		secret,
		deriver,
		cryptoService.NewJSONSerializer(),
		cryptoService.NewAEADCodec(manager, writer),
		cryptoService.NewAEADCodec(manager, cryptoDomain.AESGCM),
		cryptoService.NewAEADCodec(manager, cryptoDomain.ChaCha20),
	)
	require.NoError(t, err)
	return fieldCipher
}

func newTestFieldCipher(t *testing.T) *FieldCipherService {
	t.Helper()
	return newTestFieldCipherWith(t, newTestMasterSecret(t), cryptoDomain.AESGCM)
}

func newSaltedRecord(t *testing.T) *sensitivedataDomain.Record {
	t.Helper()
	record := sensitivedataDomain.NewRecord("patient")
	require.NoError(t, record.SetSalt("a1b2c3d4"))
	return record
}

// mockFieldCipher records calls so tests can assert that sentinels never reach decryption.
type mockFieldCipher struct {
	mock.Mock
}

func (m *mockFieldCipher) Seal(
	store sensitivedataDomain.FieldStore,
	value any,
) (sensitivedataDomain.EncryptedField, error) {
	args := m.Called(store, value)
	return args.Get(0).(sensitivedataDomain.EncryptedField), args.Error(1)
}

func (m *mockFieldCipher) Open(
	store sensitivedataDomain.FieldStore,
	field sensitivedataDomain.EncryptedField,
	out any,
) error {
	args := m.Called(store, field, out)
	return args.Error(0)
}
