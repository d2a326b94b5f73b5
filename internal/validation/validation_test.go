package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "secret1", false},
		{"Exactly Min Length", "abcdef", false},
		{"Exactly Max Length", strings.Repeat("b", 128), false},
		{"Too Short", "abcde", true},
		{"Too Long", strings.Repeat("b", 129), true},
		{"Unicode Counted As Characters", "ÅÅÅÅÅÅ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Dots", "john.doe", false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Digits Only", "12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	// 254 chars total: 64 local + @ + 185 domain label + ".com" (4)
	emailAt254 := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"

	assert.NoError(t, ValidateEmail("player@example.com"))
	assert.NoError(t, ValidateEmail(emailAt254))
	assert.Error(t, ValidateEmail(emailAt254+"m"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateText(strings.Repeat("x", 500), 500))
	assert.NoError(t, ValidateText(strings.Repeat("é", 500), 500))

	err := ValidateText(strings.Repeat("x", 501), 500)
	require.Error(t, err)
	assert.Equal(t, "Text must be less than 500 characters", err.Error())

	assert.Error(t, ValidateText("   ", 500))
}

func TestParseMatchDate(t *testing.T) {
	t.Parallel()

	d, err := ParseMatchDate("2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 5, int(d.Month()))

	_, err = ParseMatchDate("2026-05-01T18:30:00Z")
	assert.NoError(t, err)

	_, err = ParseMatchDate("next friday")
	require.Error(t, err)
	assert.Equal(t, "Invalid date", err.Error())
}
