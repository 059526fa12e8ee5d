package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail checks an operator address such as ESCALATION_EMAIL or
// EMAIL_FROM. Display names are accepted ("Goals <noreply@example.com>").
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321 caps a path at 254 characters
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	return nil
}
