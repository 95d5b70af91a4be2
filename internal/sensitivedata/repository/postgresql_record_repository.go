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

// PostgreSQLRecordRepository implements Record persistence for PostgreSQL databases.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

// Create inserts a new record and its fields. Call it inside a transaction.
func (p *PostgreSQLRecordRepository) Create(ctx context.Context, record *sensitivedataDomain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO sensitive_records (id, kind, encryption_key, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.Kind,
		record.EncryptionKey,
		record.Version,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create record")
	}

	return p.upsertFields(ctx, querier, record)
}

// Get retrieves a record with all its fields.
func (p *PostgreSQLRecordRepository) Get(ctx context.Context, id uuid.UUID) (*sensitivedataDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, kind, encryption_key, version, created_at, updated_at
			  FROM sensitive_records
			  WHERE id = $1`

	var record sensitivedataDomain.Record
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.Kind,
		&record.EncryptionKey,
		&record.Version,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sensitivedataDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record")
	}

	rows, err := querier.QueryContext(
		ctx,
		`SELECT name, ciphertext, iv FROM sensitive_record_fields WHERE record_id = $1 ORDER BY name`,
		id,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get record fields")
	}
	defer func() {
		_ = rows.Close()
	}()

	record.Fields = make(map[string]sensitivedataDomain.EncryptedField)
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

	return &record, nil
}

// Update stores the salt and every field when the stored version matches.
// Call it inside a transaction so the version bump and field writes commit together.
func (p *PostgreSQLRecordRepository) Update(
	ctx context.Context,
	record *sensitivedataDomain.Record,
	expectedVersion int64,
) error {
	querier := database.GetTx(ctx, p.db)

	now := time.Now().UTC()
	query := `UPDATE sensitive_records
			  SET encryption_key = $1, version = version + 1, updated_at = $2
			  WHERE id = $3 AND version = $4`

	result, err := querier.ExecContext(ctx, query, record.EncryptionKey, now, record.ID, expectedVersion)
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

	if err := p.upsertFields(ctx, querier, record); err != nil {
		return err
	}

	record.Version = expectedVersion + 1
	record.UpdatedAt = now
	return nil
}

// ListByFieldState lists record headers by the stored state of one field.
func (p *PostgreSQLRecordRepository) ListByFieldState(
	ctx context.Context,
	kind, field string,
	state sensitivedataDomain.FieldState,
	offset, limit int,
) ([]*sensitivedataDomain.Record, error) {
	condition, err := stateCondition(state)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(`SELECT r.id, r.kind, r.encryption_key, r.version, r.created_at, r.updated_at
			  FROM sensitive_records r
			  LEFT JOIN sensitive_record_fields f ON f.record_id = r.id AND f.name = $2
			  WHERE r.kind = $1 AND %s
			  ORDER BY r.id
			  LIMIT $3 OFFSET $4`, condition)

	rows, err := querier.QueryContext(ctx, query, kind, field, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*sensitivedataDomain.Record, 0)
	for rows.Next() {
		var record sensitivedataDomain.Record
		if err := rows.Scan(
			&record.ID,
			&record.Kind,
			&record.EncryptionKey,
			&record.Version,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record")
		}
		record.Fields = make(map[string]sensitivedataDomain.EncryptedField)
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate records")
	}

	return records, nil
}

func (p *PostgreSQLRecordRepository) upsertFields(
	ctx context.Context,
	querier database.Querier,
	record *sensitivedataDomain.Record,
) error {
	query := `INSERT INTO sensitive_record_fields (record_id, name, ciphertext, iv)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (record_id, name) DO UPDATE SET ciphertext = EXCLUDED.ciphertext, iv = EXCLUDED.iv`

	for _, name := range record.FieldNames() {
		field := record.Field(name)
		_, err := querier.ExecContext(
			ctx,
			query,
			record.ID,
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

// NewPostgreSQLRecordRepository creates a new PostgreSQL Record repository instance.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}
