// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// User represents a student account in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "studentid" and "maildomain" are custom tags registered
//     by the validation package.
//
// The same struct is used for the POST and PUT bodies; ID is ignored on
// input and always taken from the URL or assigned by the database.
// Age is a pointer so a missing or null "age" fails "required" while an
// explicit 0 is accepted.
type User struct {
	ID        int64  `json:"id"`
	StudentID string `json:"student_id" validate:"required,studentid"`
	Name      string `json:"name"       validate:"required"`
	Email     string `json:"email"      validate:"required,email,maildomain"`
	Age       *int   `json:"age"        validate:"required"`
}

// UserPatch is the PATCH body for a user. A nil field means "leave
// unchanged"; a non-nil field is validated and applied.
type UserPatch struct {
	StudentID *string `json:"student_id" validate:"omitempty,studentid"`
	Name      *string `json:"name"       validate:"omitempty,min=1"`
	Email     *string `json:"email"      validate:"omitempty,email,maildomain"`
	Age       *int    `json:"age"`
}

// Apply copies every present field of p onto u.
func (p UserPatch) Apply(u User) User {
	if p.StudentID != nil {
		u.StudentID = *p.StudentID
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Age != nil {
		u.Age = p.Age
	}
	return u
}

// Project is owned by exactly one User through OwnerID. OwnerID is a
// pointer so "required" only rejects a missing owner_id; any present
// value, 0 included, is resolved against the users table.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	OwnerID     *int64 `json:"owner_id"    validate:"required"`
}

// ProjectPatch is the PATCH body for a project.
type ProjectPatch struct {
	Name        *string `json:"name"        validate:"omitempty,min=1"`
	Description *string `json:"description"`
	OwnerID     *int64  `json:"owner_id"`
}

// Apply copies every present field of p onto pr.
func (p ProjectPatch) Apply(pr Project) Project {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.OwnerID != nil {
		pr.OwnerID = p.OwnerID
	}
	return pr
}
