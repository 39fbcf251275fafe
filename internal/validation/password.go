package validation

import (
	"errors"
)

// ValidatePassword only enforces what the hash can store: a non-empty password of at
// most 72 bytes (bcrypt rejects anything longer).
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New(MsgBlank)
	}

	if len(password) > 72 {
		return errors.New("Ensure this field has no more than 72 characters.")
	}

	return nil
}
