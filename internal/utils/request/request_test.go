package request

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/projects-api/internal/types"
)

func TestPathID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/users/7", nil)
	r.SetPathValue("id", "7")
	id, err := PathID(r)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	r.SetPathValue("id", "abc")
	_, err = PathID(r)
	var reqErr *Error
	assert.True(t, errors.As(err, &reqErr))
}

func TestBind(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"student_id":"S1234567","name":"Anthony","email":"user@example.com","age":24}`))

	var u types.User
	require.NoError(t, Bind(r, &u))
	assert.Equal(t, "S1234567", u.StudentID)
	require.NotNil(t, u.Age)
	assert.Equal(t, 24, *u.Age)
}

func TestBind_EmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(""))

	var u types.User
	err := Bind(r, &u)
	assert.EqualError(t, err, "request body is empty")
}

func TestBind_MalformedJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"age":"old"}`))

	var u types.User
	var reqErr *Error
	assert.True(t, errors.As(Bind(r, &u), &reqErr))
}

func TestBind_ValidationFailure(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"student_id":"S1234","name":"Anthony","email":"user@example.com"}`))

	var u types.User
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(Bind(r, &u), &verrs))
}
