// Package validation owns the single validator instance shared by every
// handler, together with the custom tags the User payloads rely on.
//
// validator.Validate caches struct metadata on first use and is safe for
// concurrent use, so one instance is built at package init and reused.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// studentIDPattern is "S" followed by exactly seven ASCII digits.
var studentIDPattern = regexp.MustCompile(`^S[0-9]{7}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// RegisterValidation only fails on an empty tag or a nil func, so the
	// errors below are programmer mistakes.
	if err := v.RegisterValidation("studentid", studentID); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("maildomain", mailDomain); err != nil {
		panic(err)
	}

	return v
}

// Struct validates s against its validate:"..." tags. On failure the
// error is a validator.ValidationErrors.
func Struct(s any) error {
	return validate.Struct(s)
}

// IsStudentID reports whether s is a well-formed student id.
func IsStudentID(s string) bool {
	return studentIDPattern.MatchString(s)
}

func studentID(fl validator.FieldLevel) bool {
	return IsStudentID(fl.Field().String())
}

// mailDomain tightens the library's "email" tag: the part after the last
// "@" must contain a dot and the address may not contain whitespace.
func mailDomain(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	if strings.ContainsAny(addr, " \t\r\n") {
		return false
	}

	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}

	domain := addr[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
