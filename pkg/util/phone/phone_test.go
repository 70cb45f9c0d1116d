package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		region  string
		want    string
		wantErr bool
	}{
		{"local egyptian mobile", "01012345678", "EG", "+201012345678", false},
		{"spaces and dashes", "010 1234-5678", "EG", "+201012345678", false},
		{"international prefix", "+201112345678", "EG", "+201112345678", false},
		{"double zero prefix", "00201212345678", "EG", "+201212345678", false},
		{"lower case region", "01512345678", "eg", "+201512345678", false},
		{"too short", "0101", "EG", "", true},
		{"letters", "call me", "EG", "", true},
		{"empty", "   ", "EG", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.region)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeOptional(t *testing.T) {
	got, err := NormalizeOptional(nil, "EG")
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := " "
	got, err = NormalizeOptional(&blank, "EG")
	require.NoError(t, err)
	assert.Nil(t, got)

	raw := "01012345678"
	got, err = NormalizeOptional(&raw, "EG")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "+201012345678", *got)
}
