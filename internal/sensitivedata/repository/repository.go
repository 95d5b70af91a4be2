// Package repository implements record persistence for PostgreSQL, MySQL and
// MongoDB. Every repository stores the record salt in plaintext next to the
// record and keeps each encrypted field as a nullable (ciphertext, iv) pair so
// nil and empty sentinels stay queryable.
package repository

import (
	"database/sql"
	"fmt"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// stateCondition returns the SQL predicate on the joined field alias f for a
// field state. A missing field row counts as nil.
func stateCondition(state sensitivedataDomain.FieldState) (string, error) {
	switch state {
	case sensitivedataDomain.FieldStateNil:
		return "f.ciphertext IS NULL", nil
	case sensitivedataDomain.FieldStateEmpty:
		return "f.ciphertext = ''", nil
	case sensitivedataDomain.FieldStateEncrypted:
		return "f.ciphertext <> ''", nil
	default:
		return "", fmt.Errorf("%w: %q", sensitivedataDomain.ErrInvalidFieldState, state)
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
