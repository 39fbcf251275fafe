package validation

import (
	"errors"
)

// ValidateEmail validates email format and length
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New(MsgBlank)
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return errors.New("Ensure this field has no more than 254 characters.")
	}

	err := validate.Var(email, "email")
	if err != nil {
		return errors.New("Enter a valid email address.")
	}

	return nil
}
