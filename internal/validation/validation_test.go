package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/projects-api/internal/types"
)

func validUser() types.User {
	return types.User{
		StudentID: "S1234567",
		Name:      "Anthony",
		Email:     "user@example.com",
		Age:       ptr(24),
	}
}

func TestStruct_ValidUser(t *testing.T) {
	require.NoError(t, Struct(validUser()))
}

func TestStruct_BadStudentID(t *testing.T) {
	for _, sid := range []string{"S1234", "1234567", "S12345678", "s1234567", "S1234A67", ""} {
		t.Run(sid, func(t *testing.T) {
			u := validUser()
			u.StudentID = sid

			err := Struct(u)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, "StudentID", verrs[0].Field())
		})
	}
}

func TestStruct_BadEmail(t *testing.T) {
	for _, email := range []string{"", "plainaddress", "user@localhost", "user @example.com", "@example.com", "user@example."} {
		t.Run(email, func(t *testing.T) {
			u := validUser()
			u.Email = email
			assert.Error(t, Struct(u))
		})
	}
}

func TestStruct_MissingName(t *testing.T) {
	u := validUser()
	u.Name = ""
	assert.Error(t, Struct(u))
}

func TestStruct_UserPatch(t *testing.T) {
	name := "Conor"
	require.NoError(t, Struct(types.UserPatch{Name: &name}))
	require.NoError(t, Struct(types.UserPatch{}))

	bad := "s1234567"
	assert.Error(t, Struct(types.UserPatch{StudentID: &bad}))

	empty := ""
	assert.Error(t, Struct(types.UserPatch{Name: &empty}))
}

func TestStruct_Project(t *testing.T) {
	require.NoError(t, Struct(types.Project{Name: "Test Project", OwnerID: ptr(int64(1))}))
	assert.Error(t, Struct(types.Project{OwnerID: ptr(int64(1))}))
	assert.Error(t, Struct(types.Project{Name: "Test Project"}))

	// Owner 0 is left for the store to resolve.
	require.NoError(t, Struct(types.Project{Name: "Test Project", OwnerID: ptr(int64(0))}))
	require.NoError(t, Struct(types.ProjectPatch{OwnerID: ptr(int64(0))}))
}

func TestStruct_UserAge(t *testing.T) {
	u := validUser()
	u.Age = nil
	var errs validator.ValidationErrors
	require.True(t, errors.As(Struct(u), &errs))
	assert.Equal(t, "Age", errs[0].Field())
	assert.Equal(t, "required", errs[0].Tag())

	u.Age = ptr(0)
	require.NoError(t, Struct(u))
}

func TestIsStudentID(t *testing.T) {
	assert.True(t, IsStudentID("S0000002"))
	assert.False(t, IsStudentID("S000000２"))
}

func ptr[T any](v T) *T { return &v }
