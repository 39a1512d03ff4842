// Package validate provides client-side validation for registration fields.
// Failures here prevent any network call from being attempted.
package validate

import (
	"regexp"
	"strings"

	"github.com/farmeye-dev/farmeye/internal/api"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var phoneRx = regexp.MustCompile(`^[0-9]{8,}$`)

// minPasswordLen is the minimum accepted password length.
const minPasswordLen = 8

// Username checks that the username is non-empty after trimming whitespace.
func Username(u string) error {
	if strings.TrimSpace(u) == "" {
		return &api.ValidationError{Field: "username", Message: "username required"}
	}
	return nil
}

// FullName checks that the full name is non-empty after trimming whitespace.
func FullName(n string) error {
	if strings.TrimSpace(n) == "" {
		return &api.ValidationError{Field: "full_name", Message: "full name required"}
	}
	return nil
}

// Email checks that the address has a user@domain.tld shape.
func Email(e string) error {
	if !emailRx.MatchString(e) {
		return &api.ValidationError{Field: "email", Message: "invalid email address"}
	}
	return nil
}

// Phone checks that the number is digits only and at least 8 digits long.
func Phone(p string) error {
	if !phoneRx.MatchString(p) {
		return &api.ValidationError{Field: "telefono", Message: "phone must be at least 8 digits"}
	}
	return nil
}

// Password checks the minimum length requirement.
func Password(p string) error {
	if len(p) < minPasswordLen {
		return &api.ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// PasswordConfirmation checks that the confirmation matches the password.
func PasswordConfirmation(password, confirmation string) error {
	if password != confirmation {
		return &api.ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	return nil
}

// Registration runs every field check against the profile, in field order,
// and returns the first failure.
func Registration(profile api.Profile, confirmation string) error {
	if err := Username(profile.Username); err != nil {
		return err
	}
	if err := Password(profile.Password); err != nil {
		return err
	}
	if err := PasswordConfirmation(profile.Password, confirmation); err != nil {
		return err
	}
	if err := FullName(profile.FullName); err != nil {
		return err
	}
	if err := Email(profile.Email); err != nil {
		return err
	}
	return Phone(profile.Telefono)
}
