// Package leadform holds the lead form rules shared by the submission client
// and the HTTP handlers, so both sides reject exactly the same input.
package leadform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RulesVersion identifies the current rule set. The client sends it with every
// request and the server logs it on startup, so drift shows up in the logs.
const RulesVersion = "2025-02-01"

// MinPhoneLength counts characters, separators included, not digits.
const MinPhoneLength = 10

// blank is any Unicode space separator, ASCII whitespace including \v, or the
// byte order mark.
const blank = `\s\x0B\p{Z}\x{FEFF}`

var emailPattern = regexp.MustCompile(`^[^` + blank + `@]+@[^` + blank + `@]+\.[^` + blank + `@]+$`)

type Kind string

const (
	NameRequired Kind = "NAME_REQUIRED"
	PhoneInvalid Kind = "PHONE_INVALID"
	EmailInvalid Kind = "EMAIL_INVALID"
)

// Notice is the transient toast a form shows to the visitor.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Destructive bool   `json:"destructive"`
}

type ValidationError struct {
	Kind  Kind
	Field string
}

var messages = map[Kind]struct {
	server string
	notice Notice
}{
	NameRequired: {
		server: "Please provide your name",
		notice: Notice{Title: "Name required", Description: "Please enter your name", Destructive: true},
	},
	PhoneInvalid: {
		server: "Please provide a valid phone number",
		notice: Notice{Title: "Phone required", Description: "Please enter a valid phone number", Destructive: true},
	},
	EmailInvalid: {
		server: "Please provide a valid email address",
		notice: Notice{Title: "Invalid email", Description: "Please enter a valid email address", Destructive: true},
	},
}

func (e *ValidationError) Error() string {
	if m, ok := messages[e.Kind]; ok {
		return m.server
	}
	return fmt.Sprintf("%s is invalid", e.Field)
}

// Notice returns the toast the client shows for this failure.
func (e *ValidationError) Notice() Notice {
	return messages[e.Kind].notice
}

// Validate checks the lead fields in order and returns the first failure.
func Validate(name, phone, email string) error {
	if trim(name) == "" {
		return &ValidationError{Kind: NameRequired, Field: "name"}
	}

	if utf8.RuneCountInString(trim(phone)) < MinPhoneLength {
		return &ValidationError{Kind: PhoneInvalid, Field: "phone"}
	}

	return ValidateEmail(email)
}

func ValidateEmail(email string) error {
	if email == "" || !emailPattern.MatchString(email) {
		return &ValidationError{Kind: EmailInvalid, Field: "email"}
	}
	return nil
}

func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
