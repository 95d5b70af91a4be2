package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func newTestRecord(t *testing.T) *sensitivedataDomain.Record {
	t.Helper()
	record := sensitivedataDomain.NewRecord("patient")
	require.NoError(t, record.SetSalt("a1b2c3d4"))
	record.SetField("notes", sensitivedataDomain.EmptyField())
	record.SetField("ssn", sensitivedataDomain.NewEncryptedField("1:aes-gcm:AAAA", "BBBB"))
	return record
}
