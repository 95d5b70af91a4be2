// Package domain defines core domain models and errors for per-record sensitive data.
package domain

import (
	"github.com/definescope/definerails-sensitivedata/internal/errors"
)

// Sensitive data error definitions.
var (
	// ErrSaltMissing indicates a field was sealed or opened on a record whose
	// salt was never established. This is a lifecycle-ordering bug: the
	// persistence layer must call PrepareForPersistence before the first write.
	ErrSaltMissing = errors.New("record salt missing")

	// ErrRecordNotFound indicates the record was not found.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "record not found")

	// ErrRecordConflict indicates the stored record version differs from the expected one.
	ErrRecordConflict = errors.Wrap(errors.ErrConflict, "record version conflict")

	// ErrInvalidFieldShape indicates a field whose ciphertext and IV slots disagree on nil.
	ErrInvalidFieldShape = errors.Wrap(errors.ErrIntegrity, "invalid encrypted field shape")

	// ErrUnknownField indicates the attribute is not declared in the schema.
	ErrUnknownField = errors.Wrap(errors.ErrInvalidInput, "unknown encrypted field")

	// ErrInvalidSchema indicates the encrypted field declaration could not be parsed.
	ErrInvalidSchema = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted field schema")

	// ErrInvalidFieldState indicates an unknown sentinel query state.
	ErrInvalidFieldState = errors.Wrap(errors.ErrInvalidInput, "invalid field state")

	// ErrSaltImmutable indicates an attempt to replace an established record salt.
	ErrSaltImmutable = errors.Wrap(errors.ErrConflict, "record salt is immutable")
)
