package domain

import "strings"

const (
	columnPrefix = "encrypted_"
	ivSuffix     = "_iv"
)

// DefaultBlobField is the default name of the multiplexed sensitive data field.
const DefaultBlobField = "sensitive_data"

// storageAliases shortens long field names in document storage.
var storageAliases = map[string]string{
	DefaultBlobField: "snstv_dt",
}

// CiphertextColumn returns the storage name of a field's ciphertext slot.
func CiphertextColumn(name string) string {
	if alias, ok := storageAliases[name]; ok {
		name = alias
	}
	return columnPrefix + name
}

// IVColumn returns the storage name of a field's IV slot.
func IVColumn(name string) string {
	return CiphertextColumn(name) + ivSuffix
}

// FieldNameFromColumn reverses CiphertextColumn. ok is false for IV columns
// and names without the encrypted_ prefix.
func FieldNameFromColumn(column string) (name string, ok bool) {
	name, found := strings.CutPrefix(column, columnPrefix)
	if !found || name == "" || strings.HasSuffix(name, ivSuffix) {
		return "", false
	}

	for logical, alias := range storageAliases {
		if alias == name {
			return logical, true
		}
	}
	return name, true
}
