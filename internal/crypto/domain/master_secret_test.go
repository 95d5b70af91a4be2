package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodebaseKeyFor(t *testing.T) {
	assert.Equal(t, "a78683f4", CodebaseKeyFor("production"))
	assert.Equal(t, "286f6ec0", CodebaseKeyFor("development"))
	assert.Equal(t, "286f6ec0", CodebaseKeyFor(""))
	assert.Len(t, CodebaseKeyFor("staging"), CodebaseKeySize)
}

func TestNewMasterSecret(t *testing.T) {
	tests := []struct {
		name        string
		codebaseKey string
		envKey      string
		wantErr     error
		want        string
	}{
		{
			name:        "joins both halves",
			codebaseKey: "286f6ec0",
			envKey:      "0123456789abcdef",
			want:        "286f6ec00123456789abcdef",
		},
		{
			name:        "short codebase key",
			codebaseKey: "abc",
			envKey:      "0123456789abcdef",
			wantErr:     ErrInvalidMasterSecret,
		},
		{
			name:        "missing environment key",
			codebaseKey: "286f6ec0",
			envKey:      "",
			wantErr:     ErrInvalidMasterSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := NewMasterSecret(tt.codebaseKey, tt.envKey)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, secret)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(secret.Bytes()))
			assert.False(t, secret.IsEmpty())
		})
	}
}

func TestMasterSecret_Close(t *testing.T) {
	secret := NewMasterSecretFromBytes([]byte("material"))
	raw := secret.Bytes()

	secret.Close()

	assert.True(t, secret.IsEmpty())
	assert.Equal(t, make([]byte, len("material")), raw)
}

func TestMasterSecret_NilSafe(t *testing.T) {
	var secret *MasterSecret
	assert.True(t, secret.IsEmpty())
	assert.Nil(t, secret.Bytes())
	assert.NotPanics(t, secret.Close)
}

func TestMasterSecret_StringIsRedacted(t *testing.T) {
	secret := NewMasterSecretFromBytes([]byte("top-secret"))
	assert.NotContains(t, secret.String(), "top-secret")
}

func TestNewMasterSecretFromBytes_Copies(t *testing.T) {
	material := []byte("material")
	secret := NewMasterSecretFromBytes(material)
	material[0] = 'X'
	assert.Equal(t, "material", string(secret.Bytes()))
}
