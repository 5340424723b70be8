package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomMessage returns per-field validation messages, keyed by the
// failed tag.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Email": {
			"email": "email must be a valid email address",
			"max":   "email is too long",
		},
		"Username": {
			"min": "username must be at least 3 characters",
			"max": "username must be at most 30 characters",
		},
		"PhoneNumber": {
			"e164": "phone number must be in E.164 format",
		},
		"Password": {
			"required": "password must not be empty",
			"min":      "password must be at least 8 characters",
			"max":      "password is too long",
		},
		"FirstName": {
			"required": "firstName must not be empty",
			"max":      "firstName is too long",
		},
		"LastName": {
			"required": "lastName must not be empty",
			"max":      "lastName is too long",
		},
		"Birthday": {
			"required": "birthday must not be empty",
			"datetime": "birthday must be an ISO date (YYYY-MM-DD)",
		},
		"Identification": {
			"required": "identification must not be empty",
		},
	}
	return customValidationMessages[field]
}

// DefaultMessage builds a generic message for fields without a custom one.
func DefaultMessage(field, tag string) string {
	fieldName := strings.ToLower(field[:1]) + field[1:]

	switch tag {
	case "required":
		return fmt.Sprintf("%s must not be empty", fieldName)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fieldName)
	default:
		return fmt.Sprintf("%s is not valid: %s", fieldName, tag)
	}
}

// MessagesFor turns a binding error into human-readable messages, one
// per failed field. Non-validation errors collapse to a single generic
// message so malformed JSON never echoes parser internals.
func MessagesFor(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"request body is not valid"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		if fieldMessages := CustomMessage(e.Field()); fieldMessages != nil {
			if msg, exists := fieldMessages[e.Tag()]; exists {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, DefaultMessage(e.Field(), e.Tag()))
	}

	return messages
}
