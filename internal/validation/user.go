package validation

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ValidateUsername follows the classic username rules: up to 150 characters made of
// letters, digits and @/./+/-/_.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New(MsgBlank)
	}

	if utf8.RuneCountInString(username) > 150 {
		return errors.New("Ensure this field has no more than 150 characters.")
	}

	if !usernamePattern.MatchString(username) {
		return errors.New("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	return nil
}
