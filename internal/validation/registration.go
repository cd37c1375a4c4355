// Package validation provides input validation utilities
package validation

import (
	"regexp"
	"unicode/utf8"

	"vueblog/internal/models"
)

const (
	// PasswordMinLen and PasswordMaxLen bound accepted password lengths.
	PasswordMinLen = 6
	PasswordMaxLen = 20

	maxUsernameLen = 150
	maxEmailLen    = 254
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RequiredMessage is the per-field message for missing required input.
const RequiredMessage = "This field is required"

// Registration holds the raw registration form input.
type Registration struct {
	Username        string `json:"username" form:"username"`
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"c_password" form:"c_password"`
}

// ValidateRegistration checks format rules on the registration input and
// returns one entry per violated field. Uniqueness checks live in the user
// service since they need the store.
func ValidateRegistration(in Registration) models.FieldErrors {
	var errs models.FieldErrors

	if in.Username == "" {
		errs = append(errs, models.FieldError{Field: "username", Message: RequiredMessage})
	} else if utf8.RuneCountInString(in.Username) > maxUsernameLen {
		errs = append(errs, models.FieldError{Field: "username", Message: "Username too long"})
	}

	if in.Email == "" {
		errs = append(errs, models.FieldError{Field: "email", Message: RequiredMessage})
	} else if len(in.Email) > maxEmailLen || !emailRegex.MatchString(in.Email) {
		errs = append(errs, models.FieldError{Field: "email", Message: "Enter a valid email address"})
	}

	if perr := ValidatePasswordPair(in.Password, in.ConfirmPassword); perr != nil {
		errs = append(errs, perr...)
	}

	return errs
}

// ValidatePasswordPair enforces the password length bounds and the
// password/confirmation match rule. Lengths count characters, not bytes.
func ValidatePasswordPair(password, confirm string) models.FieldErrors {
	if n := utf8.RuneCountInString(password); n < PasswordMinLen || n > PasswordMaxLen {
		return models.NewFieldError("password", "Password must be between 6 and 20 characters.")
	}
	if password != confirm {
		return models.NewFieldError("password", "Password and confirm password must match!")
	}
	return nil
}

// ValidateEmail checks basic email format.
func ValidateEmail(email string) bool {
	return len(email) <= maxEmailLen && emailRegex.MatchString(email)
}
