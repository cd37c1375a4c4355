package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Registration {
	return Registration{
		Username:        "gopher",
		FirstName:       "Go",
		LastName:        "Pher",
		Email:           "gopher@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	assert.Empty(t, ValidateRegistration(validInput()))
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Registration)
		field   string
		message string
	}{
		{
			name:    "missing username",
			mutate:  func(r *Registration) { r.Username = "" },
			field:   "username",
			message: "This field is required",
		},
		{
			name:    "username too long",
			mutate:  func(r *Registration) { r.Username = strings.Repeat("x", 151) },
			field:   "username",
			message: "Username too long",
		},
		{
			name:    "missing email",
			mutate:  func(r *Registration) { r.Email = "" },
			field:   "email",
			message: "This field is required",
		},
		{
			name:    "malformed email",
			mutate:  func(r *Registration) { r.Email = "gopher@" },
			field:   "email",
			message: "Enter a valid email address",
		},
		{
			name: "password too short",
			mutate: func(r *Registration) {
				r.Password = "abcde"
				r.ConfirmPassword = "abcde"
			},
			field:   "password",
			message: "Password must be between 6 and 20 characters.",
		},
		{
			name: "password too long",
			mutate: func(r *Registration) {
				r.Password = strings.Repeat("x", 21)
				r.ConfirmPassword = strings.Repeat("x", 21)
			},
			field:   "password",
			message: "Password must be between 6 and 20 characters.",
		},
		{
			name:    "confirmation mismatch",
			mutate:  func(r *Registration) { r.ConfirmPassword = "different1" },
			field:   "password",
			message: "Password and confirm password must match!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			errs := ValidateRegistration(in)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.message, errs[0].Message)
		})
	}
}

func TestValidateRegistration_CollectsAllFields(t *testing.T) {
	errs := ValidateRegistration(Registration{})
	require.Len(t, errs, 3)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"username", "email", "password"}, fields)
}

func TestValidatePasswordPair_LengthBoundaries(t *testing.T) {
	assert.Empty(t, ValidatePasswordPair("abcdef", "abcdef"), "6 characters is allowed")
	assert.Empty(t, ValidatePasswordPair(strings.Repeat("x", 20), strings.Repeat("x", 20)),
		"20 characters is allowed")
	assert.NotEmpty(t, ValidatePasswordPair("abcde", "abcde"))
	assert.NotEmpty(t, ValidatePasswordPair(strings.Repeat("x", 21), strings.Repeat("x", 21)))
}

func TestValidatePasswordPair_CountsCharactersNotBytes(t *testing.T) {
	// 8 characters but 16 bytes; must satisfy the 6-20 bound
	pw := strings.Repeat("ü", 8)
	assert.Empty(t, ValidatePasswordPair(pw, pw))

	exact := strings.Repeat("ü", 20)
	assert.Empty(t, ValidatePasswordPair(exact, exact))

	long := strings.Repeat("ü", 21)
	assert.NotEmpty(t, ValidatePasswordPair(long, long))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("user@"))
	assert.False(t, ValidateEmail("@example.com"))
}
