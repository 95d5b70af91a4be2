// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/definescope/definerails-sensitivedata/internal/validation"
)

// CreateRecordRequest contains the parameters for creating a record.
type CreateRecordRequest struct {
	Kind string `json:"kind"`
}

// Validate checks if the create record request is valid.
func (r *CreateRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind,
			validation.Required,
			validation.Length(1, 64),
			customValidation.Identifier,
		),
	)
}

// SetDataRequest stores one key of the sensitive data blob.
// A null or absent value removes the key, same as DELETE.
type SetDataRequest struct {
	Value any `json:"value"`
}

// SetFieldRequest stores a scalar encrypted attribute. A null value clears it.
type SetFieldRequest struct {
	Value *string `json:"value"`
}

// ValidateDataKey checks a blob key taken from the URL.
func ValidateDataKey(key string) error {
	return validation.Validate(key,
		validation.Required,
		validation.Length(1, 255),
		customValidation.NotBlank,
		customValidation.NoWhitespace,
		customValidation.Printable,
	)
}

// ValidateFieldName checks an attribute name taken from the URL.
func ValidateFieldName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, 64),
		customValidation.Identifier,
	)
}
