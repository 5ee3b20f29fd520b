// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/projects-api/internal/storage"
	"github.com/aanand-mishra/projects-api/internal/utils/request"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses return the resource itself. Error responses always
// look like:
//
//	{ "status": "error", "detail": "User already exists" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Detail string `json:"detail"` // human-readable error detail
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// NoContent writes a bodyless 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error wraps a fixed message into the standard Response shape.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Detail: msg,
	}
}

// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (DB failures, decode errors, etc.)
func GeneralError(err error) Response {
	return Error(err.Error())
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response, one sentence per failing field
// joined with ", ".
//
//	{ "status": "error", "detail": "field StudentID must match S followed by 7 digits" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email", "maildomain":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "studentid":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must match S followed by 7 digits", e.Field()))
		case "min":
			if e.Kind() == reflect.String {
				errMessages = append(errMessages,
					fmt.Sprintf("field %s must not be empty", e.Field()))
			} else {
				errMessages = append(errMessages,
					fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
			}
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Error(strings.Join(errMessages, ", "))
}

// WriteError maps err onto a status code and the error envelope:
//
//	validation / malformed request  → 422
//	storage.ErrUserExists           → 409
//	storage.Err*NotFound            → 404
//	anything else                   → 500
//
// Storage sentinels are reported by their own message, without the
// operation prefixes the backends wrap them in.
func WriteError(w http.ResponseWriter, err error) {
	var (
		validateErrs validator.ValidationErrors
		reqErr       *request.Error
	)

	switch {
	case errors.As(err, &validateErrs):
		WriteJSON(w, http.StatusUnprocessableEntity, ValidationError(validateErrs))
	case errors.As(err, &reqErr):
		WriteJSON(w, http.StatusUnprocessableEntity, GeneralError(reqErr))
	case errors.Is(err, storage.ErrUserExists):
		WriteJSON(w, http.StatusConflict, GeneralError(storage.ErrUserExists))
	case errors.Is(err, storage.ErrUserNotFound):
		WriteJSON(w, http.StatusNotFound, GeneralError(storage.ErrUserNotFound))
	case errors.Is(err, storage.ErrProjectNotFound):
		WriteJSON(w, http.StatusNotFound, GeneralError(storage.ErrProjectNotFound))
	default:
		slog.Error("internal error", slog.String("error", err.Error()))
		WriteJSON(w, http.StatusInternalServerError,
			Error(http.StatusText(http.StatusInternalServerError)))
	}
}
