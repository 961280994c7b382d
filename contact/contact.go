// Package contact implements the portfolio contact form: submission
// validation, the HTTP client that posts submissions, a Form state machine
// polled from the game loop, and the mail relay endpoint that delivers them.
package contact

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

// Validation errors. Check with errors.Is.
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmptyMessage = errors.New("message is empty")
)

// Submission is the JSON body posted to the relay.
type Submission struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate checks the email address and that the message is not blank.
func (s Submission) Validate() error {
	if err := ValidateEmail(s.Email); err != nil {
		return err
	}
	if strings.TrimSpace(s.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// ValidateEmail accepts addresses of the form local@domain.tld: exactly one
// "@", a non-empty local part, and a domain containing a dot that is neither
// its first nor last character. Whitespace is not allowed anywhere.
func ValidateEmail(s string) error {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return ErrInvalidEmail
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return ErrInvalidEmail
	}
	if !hasInnerDot(domain) {
		return ErrInvalidEmail
	}
	return nil
}

// hasInnerDot reports whether some dot has at least one character on each
// side.
func hasInnerDot(domain string) bool {
	for i := 1; i < len(domain)-1; i++ {
		if domain[i] == '.' {
			return true
		}
	}
	return false
}

// Response is the JSON body returned by the relay.
type Response struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// StatusError is returned by Client.Send for a non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("contact: relay returned %d: %s", e.Code, msg)
}
