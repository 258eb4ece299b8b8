package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "ada_l", NormalizeUsername("  Ada_L "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail(" Ada@Example.COM "))
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		wantErr  bool
	}{
		{"ada", false},
		{"ada_l42", false},
		{"ab", true},
		{strings.Repeat("a", 31), true},
		{"ada!", true},
		{"ada lovelace", true},
	}
	for _, tt := range tests {
		err := ValidateUsername(tt.username)
		if tt.wantErr {
			assert.Error(t, err, tt.username)
		} else {
			assert.NoError(t, err, tt.username)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@b.co"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret1"))
	assert.Error(t, ValidatePassword("12345"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
}
