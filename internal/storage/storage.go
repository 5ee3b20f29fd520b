// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// Handlers depend only on this interface, so tests inject an in-memory
// SQLite database and production can choose SQLite or PostgreSQL from
// config without any handler changes.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/projects-api/internal/types"
)

// Sentinel errors returned (possibly wrapped) by every backend.
// Handlers classify them with errors.Is.
var (
	ErrUserNotFound    = errors.New("User not found")
	ErrProjectNotFound = errors.New("Project not found")
	ErrUserExists      = errors.New("User already exists")
)

// UserStorage is the persistence contract for users.
type UserStorage interface {
	// CreateUser inserts u after checking that neither its student_id nor
	// its email is taken. Returns ErrUserExists on a clash.
	CreateUser(ctx context.Context, u types.User) (types.User, error)

	// GetUserByID returns ErrUserNotFound if no row matches.
	GetUserByID(ctx context.Context, id int64) (types.User, error)

	// GetUsers returns an empty slice (not nil) when there are no users.
	GetUsers(ctx context.Context) ([]types.User, error)

	// UpdateUserByID overwrites every field of an existing user.
	UpdateUserByID(ctx context.Context, id int64, u types.User) (types.User, error)

	// PatchUserByID applies only the present fields of p.
	PatchUserByID(ctx context.Context, id int64, p types.UserPatch) (types.User, error)

	DeleteUserByID(ctx context.Context, id int64) error
}

// ProjectStorage is the persistence contract for projects. Every write
// that sets owner_id resolves it first and returns ErrUserNotFound when
// the owner does not exist.
type ProjectStorage interface {
	CreateProject(ctx context.Context, p types.Project) (types.Project, error)
	GetProjectByID(ctx context.Context, id int64) (types.Project, error)
	GetProjects(ctx context.Context) ([]types.Project, error)
	UpdateProjectByID(ctx context.Context, id int64, p types.Project) (types.Project, error)
	PatchProjectByID(ctx context.Context, id int64, p types.ProjectPatch) (types.Project, error)
	DeleteProjectByID(ctx context.Context, id int64) error
}

// Storage is the full database contract.
type Storage interface {
	UserStorage
	ProjectStorage

	// Close releases the underlying connection pool.
	Close() error
}
