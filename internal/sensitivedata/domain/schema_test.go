package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchema(t *testing.T) {
	t.Run("valid declaration", func(t *testing.T) {
		schema, err := ParseSchema(DefaultBlobField, "ssn:nil_visible, notes:treat_nil_as_empty+empty_visible,tax_id")
		require.NoError(t, err)

		assert.Equal(t, []string{"notes", "ssn", "tax_id"}, schema.FieldNames())

		ssn, err := schema.Policy("ssn")
		require.NoError(t, err)
		assert.Equal(t, AttributePolicy{NilVisibleInDB: true}, ssn)

		notes, err := schema.Policy("notes")
		require.NoError(t, err)
		assert.True(t, notes.NilVisibleInDB)

		taxID, err := schema.Policy("tax_id")
		require.NoError(t, err)
		assert.Equal(t, AttributePolicy{}, taxID)

		assert.True(t, schema.Has(DefaultBlobField))
		assert.False(t, schema.Has("address"))
	})

	t.Run("empty declaration", func(t *testing.T) {
		schema, err := ParseSchema(DefaultBlobField, "")
		require.NoError(t, err)
		assert.Empty(t, schema.FieldNames())
	})

	t.Run("unknown field", func(t *testing.T) {
		schema, err := ParseSchema(DefaultBlobField, "ssn")
		require.NoError(t, err)
		_, err = schema.Policy("address")
		assert.ErrorIs(t, err, ErrUnknownField)
	})

	errorCases := map[string]string{
		"duplicate":        "ssn,ssn:nil_visible",
		"bad flag":         "ssn:visible",
		"bad name":         "SSN",
		"iv suffix":        "card_iv",
		"blob name reused": "sensitive_data",
		"reserved alias":   "snstv_dt",
		"name with spaces": "tax id",
		"empty name":       ":nil_visible",
	}
	for name, declaration := range errorCases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSchema(DefaultBlobField, declaration)
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}
