// Package request holds the decoding steps every handler runs before it
// touches storage: path id parsing, JSON body decoding and struct
// validation.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/projects-api/internal/validation"
)

// Error is a malformed request: bad path id, empty body or undecodable
// JSON. It is reported as a validation failure.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// PathID parses the {id} path segment.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, &Error{Msg: "invalid id: must be an integer"}
	}
	return id, nil
}

// Bind decodes the JSON body into v and validates it. A failed
// validation returns the validator's ValidationErrors unchanged.
func Bind(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return &Error{Msg: "request body is empty"}
	}
	if err != nil {
		return &Error{Msg: err.Error()}
	}

	return validation.Struct(v)
}
