package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/definescope/definerails-sensitivedata/internal/database"
	apperrors "github.com/definescope/definerails-sensitivedata/internal/errors"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// MySQLRecordRepository implements Record persistence for MySQL databases.
// IDs are stored as BINARY(16).
type MySQLRecordRepository struct {
	db *sql.DB
}

// Create inserts a new record and its fields. Call it inside a transaction.
func (m *MySQLRecordRepository) Create(ctx context.Context, record *sensitivedataDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal record id")
	}

	query := `INSERT INTO sensitive_records (id, kind, encryption_key, version, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		record.Kind,
		record.EncryptionKey,
		record.Version,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create record")
	}

	return m.upsertFields(ctx, querier, id, record)
}

// Get retrieves a record with all its fields.
func (m *MySQLRecordRepository) Get(ctx context.Context, id uuid.UUID) (*sensitivedataDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal record id")
	}

	query := `SELECT id, kind, encryption_key, version, created_at, updated_at
			  FROM sensitive_records
			  WHERE id = ?`

	record, err := scanMySQLRecord(querier.QueryRowContext(ctx, query, binID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sensitivedataDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record")
	}

	rows, err := querier.QueryContext(
		ctx,
		`SELECT name, ciphertext, iv FROM sensitive_record_fields WHERE record_id = ? ORDER BY name`,
		binID,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get record fields")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var name string
		var ciphertext, iv sql.NullString
		if err := rows.Scan(&name, &ciphertext, &iv); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record field")
		}
		record.Fields[name] = sensitivedataDomain.EncryptedField{
			Ciphertext: stringPtr(ciphertext),
			IV:         stringPtr(iv),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate record fields")
	}

	return record, nil
}

// Update stores the salt and every field when the stored version matches.
// Call it inside a transaction so the version bump and field writes commit together.
func (m *MySQLRecordRepository) Update(
	ctx context.Context,
	record *sensitivedataDomain.Record,
	expectedVersion int64,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal record id")
	}

	now := time.Now().UTC()
	query := `UPDATE sensitive_records
			  SET encryption_key = ?, version = version + 1, updated_at = ?
			  WHERE id = ? AND version = ?`

	result, err := querier.ExecContext(ctx, query, record.EncryptionKey, now, id, expectedVersion)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if affected == 0 {
		return sensitivedataDomain.ErrRecordConflict
	}

	if err := m.upsertFields(ctx, querier, id, record); err != nil {
		return err
	}

	record.Version = expectedVersion + 1
	record.UpdatedAt = now
	return nil
}

// ListByFieldState lists record headers by the stored state of one field.
func (m *MySQLRecordRepository) ListByFieldState(
	ctx context.Context,
	kind, field string,
	state sensitivedataDomain.FieldState,
	offset, limit int,
) ([]*sensitivedataDomain.Record, error) {
	condition, err := stateCondition(state)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(`SELECT r.id, r.kind, r.encryption_key, r.version, r.created_at, r.updated_at
			  FROM sensitive_records r
			  LEFT JOIN sensitive_record_fields f ON f.record_id = r.id AND f.name = ?
			  WHERE r.kind = ? AND %s
			  ORDER BY r.id
			  LIMIT ? OFFSET ?`, condition)

	rows, err := querier.QueryContext(ctx, query, field, kind, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*sensitivedataDomain.Record, 0)
	for rows.Next() {
		record, err := scanMySQLRecord(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate records")
	}

	return records, nil
}

func (m *MySQLRecordRepository) upsertFields(
	ctx context.Context,
	querier database.Querier,
	id []byte,
	record *sensitivedataDomain.Record,
) error {
	query := `INSERT INTO sensitive_record_fields (record_id, name, ciphertext, iv)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE ciphertext = VALUES(ciphertext), iv = VALUES(iv)`

	for _, name := range record.FieldNames() {
		field := record.Field(name)
		_, err := querier.ExecContext(
			ctx,
			query,
			id,
			name,
			nullString(field.Ciphertext),
			nullString(field.IV),
		)
		if err != nil {
			return apperrors.Wrapf(err, "failed to store field %q", name)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLRecord(row rowScanner) (*sensitivedataDomain.Record, error) {
	var record sensitivedataDomain.Record
	var id []byte

	if err := row.Scan(
		&id,
		&record.Kind,
		&record.EncryptionKey,
		&record.Version,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := record.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal record id")
	}
	record.Fields = make(map[string]sensitivedataDomain.EncryptedField)
	return &record, nil
}

// NewMySQLRecordRepository creates a new MySQL Record repository instance.
func NewMySQLRecordRepository(db *sql.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}
