package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type signupShape struct {
	Email    string `validate:"omitempty,email"`
	Password string `validate:"required,min=8"`
	Birthday string `validate:"required,datetime=2006-01-02"`
}

func TestMessagesForValidationErrors(t *testing.T) {
	v := validator.New()

	err := v.Struct(signupShape{Email: "not-an-email", Password: "short", Birthday: "20-05-1990"})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	messages := MessagesFor(err)
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3: %v", len(messages), messages)
	}

	want := map[string]bool{
		"email must be a valid email address":       false,
		"password must be at least 8 characters":    false,
		"birthday must be an ISO date (YYYY-MM-DD)": false,
	}
	for _, msg := range messages {
		if _, ok := want[msg]; !ok {
			t.Errorf("unexpected message %q", msg)
			continue
		}
		want[msg] = true
	}
	for msg, seen := range want {
		if !seen {
			t.Errorf("missing message %q", msg)
		}
	}
}

func TestMessagesForNonValidationError(t *testing.T) {
	messages := MessagesFor(errors.New("unexpected EOF"))

	if len(messages) != 1 || messages[0] != "request body is not valid" {
		t.Errorf("messages = %v, want the generic body message", messages)
	}
}

func TestDefaultMessageLowercasesField(t *testing.T) {
	if got := DefaultMessage("Identification", "required"); got != "identification must not be empty" {
		t.Errorf("DefaultMessage() = %q", got)
	}
}
