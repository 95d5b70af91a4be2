package dto

import (
	"time"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// RecordResponse represents record metadata in API responses.
// It never carries ciphertext, IVs or the salt itself.
type RecordResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	HasSalt   bool      `json:"has_salt"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapRecordToResponse converts a domain record to an API response.
func MapRecordToResponse(record *sensitivedataDomain.Record) RecordResponse {
	return RecordResponse{
		ID:        record.ID.String(),
		Kind:      record.Kind,
		HasSalt:   record.EncryptionKey != "",
		Version:   record.Version,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// ListRecordsResponse represents a paginated list of records.
type ListRecordsResponse struct {
	Data []RecordResponse `json:"data"`
}

// MapRecordsToListResponse converts domain records to a list response.
func MapRecordsToListResponse(records []*sensitivedataDomain.Record) ListRecordsResponse {
	data := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, MapRecordToResponse(record))
	}
	return ListRecordsResponse{Data: data}
}

// DataKeysResponse lists the keys stored in the sensitive data blob.
type DataKeysResponse struct {
	Keys []string `json:"keys"`
}

// DataValueResponse carries one decrypted blob value.
// SECURITY: plaintext, must be transmitted over HTTPS in production.
type DataValueResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// FieldValueResponse carries one decrypted scalar attribute.
// SECURITY: plaintext, must be transmitted over HTTPS in production.
type FieldValueResponse struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}
