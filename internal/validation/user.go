// Package validation checks user-supplied account and content fields.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"blogapi/internal/models"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxEmailLength    = 254
)

var (
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)
	digitsOnly    = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateUsername accepts 1-150 letters, digits and the characters @ . + - _.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("This field may not be blank.")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("Ensure this field has no more than %d characters.", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	return nil
}

// ValidateEmail checks the overall shape of an address.
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return fmt.Errorf("Ensure this field has no more than %d characters.", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return errors.New("Enter a valid email address.")
	}
	return nil
}

// ValidatePassword enforces length bounds and rejects all-digit passwords.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return fmt.Errorf("This password is too short. It must contain at least %d characters.", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("Ensure this field has no more than %d characters.", MaxPasswordLength)
	}
	if digitsOnly.MatchString(password) {
		return errors.New("This password is entirely numeric.")
	}
	return nil
}

// ValidateRegistration returns per-field messages for a sign-up request, or nil.
func ValidateRegistration(username, email, password string) map[string]string {
	fields := map[string]string{}
	if err := ValidateUsername(username); err != nil {
		fields["username"] = err.Error()
	}
	if err := ValidateEmail(email); err != nil {
		fields["email"] = err.Error()
	}
	if err := ValidatePassword(password); err != nil {
		fields["password"] = err.Error()
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ValidatePostFields checks a title/content pair. A nil pointer means the
// field was not supplied; partial updates pass requireAll=false.
func ValidatePostFields(title, content *string, requireAll bool) map[string]string {
	fields := map[string]string{}
	checkRequired := func(name string, v *string) {
		switch {
		case v == nil:
			if requireAll {
				fields[name] = "This field is required."
			}
		case strings.TrimSpace(*v) == "":
			fields[name] = "This field may not be blank."
		}
	}
	checkRequired("title", title)
	checkRequired("content", content)

	if title != nil && fields["title"] == "" && utf8.RuneCountInString(*title) > models.MaxTitleLength {
		fields["title"] = fmt.Sprintf("Ensure this field has no more than %d characters.", models.MaxTitleLength)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ValidateCommentContent checks a comment body. A nil pointer means it was not supplied.
func ValidateCommentContent(content *string) map[string]string {
	switch {
	case content == nil:
		return map[string]string{"content": "This field is required."}
	case strings.TrimSpace(*content) == "":
		return map[string]string{"content": "This field may not be blank."}
	}
	return nil
}
