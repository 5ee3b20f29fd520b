// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk (or in memory for
// tests). Importing go-sqlite3 registers the "sqlite3" driver with
// database/sql; its Error type also tells us when a UNIQUE constraint
// fired.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/projects-api/internal/storage"
	"github.com/aanand-mishra/projects-api/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id TEXT    NOT NULL UNIQUE,
	name       TEXT    NOT NULL,
	email      TEXT    NOT NULL UNIQUE,
	age        INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	owner_id    INTEGER NOT NULL REFERENCES users(id)
);`

// New opens the SQLite database at path, creates both tables if they do
// not already exist, and returns a ready-to-use *SQLite.
//
// Pass ":memory:" for a throwaway database. The pool is pinned to one
// connection: an in-memory database lives and dies with its connection,
// and SQLite serialises writers anyway.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// withTx runs fn inside a transaction. The deferred Rollback releases the
// connection on every exit path; after a successful Commit it is a no-op.
func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

func getUser(ctx context.Context, q queryer, id int64) (types.User, error) {
	var u types.User
	err := q.QueryRowContext(ctx,
		"SELECT id, student_id, name, email, age FROM users WHERE id = ? LIMIT 1", id,
	).Scan(&u.ID, &u.StudentID, &u.Name, &u.Email, &u.Age)
	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, storage.ErrUserNotFound
	}
	if err != nil {
		return types.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// userTaken reports whether another user (id != exceptID) already holds
// studentID or email. Pass exceptID 0 on create.
func userTaken(ctx context.Context, q queryer, studentID, email string, exceptID int64) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE (student_id = ? OR email = ?) AND id <> ?",
		studentID, email, exceptID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return n > 0, nil
}

func (s *SQLite) CreateUser(ctx context.Context, u types.User) (types.User, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := userTaken(ctx, tx, u.StudentID, u.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return storage.ErrUserExists
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO users (student_id, name, email, age) VALUES (?, ?, ?, ?)",
			u.StudentID, u.Name, u.Email, u.Age,
		)
		if isUniqueViolation(err) {
			return storage.ErrUserExists
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		u.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert user: last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.User{}, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

func (s *SQLite) GetUserByID(ctx context.Context, id int64) (types.User, error) {
	u, err := getUser(ctx, s.Db, id)
	if err != nil {
		return types.User{}, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func (s *SQLite) GetUsers(ctx context.Context) ([]types.User, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT id, student_id, name, email, age FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetUsers: query: %w", err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.StudentID, &u.Name, &u.Email, &u.Age); err != nil {
			return nil, fmt.Errorf("GetUsers: scan row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetUsers: rows iteration: %w", err)
	}

	return users, nil
}

// replaceUser writes every column of u over row id inside tx.
func replaceUser(ctx context.Context, tx *sql.Tx, id int64, u types.User) error {
	taken, err := userTaken(ctx, tx, u.StudentID, u.Email, id)
	if err != nil {
		return err
	}
	if taken {
		return storage.ErrUserExists
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET student_id = ?, name = ?, email = ?, age = ? WHERE id = ?",
		u.StudentID, u.Name, u.Email, u.Age, id,
	)
	if isUniqueViolation(err) {
		return storage.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}

func (s *SQLite) UpdateUserByID(ctx context.Context, id int64, u types.User) (types.User, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getUser(ctx, tx, id); err != nil {
			return err
		}
		return replaceUser(ctx, tx, id, u)
	})
	if err != nil {
		return types.User{}, fmt.Errorf("UpdateUserByID: %w", err)
	}

	u.ID = id
	return u, nil
}

func (s *SQLite) PatchUserByID(ctx context.Context, id int64, p types.UserPatch) (types.User, error) {
	var patched types.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		patched = p.Apply(current)
		return replaceUser(ctx, tx, id, patched)
	})
	if err != nil {
		return types.User{}, fmt.Errorf("PatchUserByID: %w", err)
	}
	return patched, nil
}

func (s *SQLite) DeleteUserByID(ctx context.Context, id int64) error {
	res, err := s.Db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteUserByID: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteUserByID: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("DeleteUserByID: %w", storage.ErrUserNotFound)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Projects
// ─────────────────────────────────────────────────────────────────────────────

func getProject(ctx context.Context, q queryer, id int64) (types.Project, error) {
	var p types.Project
	err := q.QueryRowContext(ctx,
		"SELECT id, name, description, owner_id FROM projects WHERE id = ? LIMIT 1", id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Project{}, storage.ErrProjectNotFound
	}
	if err != nil {
		return types.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

// ownerExists returns storage.ErrUserNotFound if ownerID is nil or has no
// row. Id 0 is never assigned, so it always resolves to not found.
func ownerExists(ctx context.Context, q queryer, ownerID *int64) error {
	if ownerID == nil {
		return storage.ErrUserNotFound
	}
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", *ownerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("resolve owner %d: %w", *ownerID, err)
	}
	return nil
}

func (s *SQLite) CreateProject(ctx context.Context, p types.Project) (types.Project, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ownerExists(ctx, tx, p.OwnerID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO projects (name, description, owner_id) VALUES (?, ?, ?)",
			p.Name, p.Description, p.OwnerID,
		)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}

		p.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert project: last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Project{}, fmt.Errorf("CreateProject: %w", err)
	}
	return p, nil
}

func (s *SQLite) GetProjectByID(ctx context.Context, id int64) (types.Project, error) {
	p, err := getProject(ctx, s.Db, id)
	if err != nil {
		return types.Project{}, fmt.Errorf("GetProjectByID: %w", err)
	}
	return p, nil
}

func (s *SQLite) GetProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT id, name, description, owner_id FROM projects ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetProjects: query: %w", err)
	}
	defer rows.Close()

	projects := make([]types.Project, 0)
	for rows.Next() {
		var p types.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID); err != nil {
			return nil, fmt.Errorf("GetProjects: scan row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetProjects: rows iteration: %w", err)
	}

	return projects, nil
}

// replaceProject writes every column of p over row id. When checkOwner
// is set the owner must resolve first.
func replaceProject(ctx context.Context, tx *sql.Tx, id int64, p types.Project, checkOwner bool) error {
	if checkOwner {
		if err := ownerExists(ctx, tx, p.OwnerID); err != nil {
			return err
		}
	}

	_, err := tx.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ?, owner_id = ? WHERE id = ?",
		p.Name, p.Description, p.OwnerID, id,
	)
	if err != nil {
		return fmt.Errorf("update project %d: %w", id, err)
	}
	return nil
}

func (s *SQLite) UpdateProjectByID(ctx context.Context, id int64, p types.Project) (types.Project, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getProject(ctx, tx, id); err != nil {
			return err
		}
		return replaceProject(ctx, tx, id, p, true)
	})
	if err != nil {
		return types.Project{}, fmt.Errorf("UpdateProjectByID: %w", err)
	}

	p.ID = id
	return p, nil
}

func (s *SQLite) PatchProjectByID(ctx context.Context, id int64, p types.ProjectPatch) (types.Project, error) {
	var patched types.Project
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}
		patched = p.Apply(current)
		return replaceProject(ctx, tx, id, patched, p.OwnerID != nil)
	})
	if err != nil {
		return types.Project{}, fmt.Errorf("PatchProjectByID: %w", err)
	}
	return patched, nil
}

func (s *SQLite) DeleteProjectByID(ctx context.Context, id int64) error {
	res, err := s.Db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteProjectByID: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteProjectByID: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("DeleteProjectByID: %w", storage.ErrProjectNotFound)
	}
	return nil
}
