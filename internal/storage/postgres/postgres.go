// Package postgres implements storage.Storage on PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/projects-api/internal/storage"
	"github.com/aanand-mishra/projects-api/internal/types"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type Postgres struct {
	pool *pgxpool.Pool
}

func createUserTable() string {
	return `CREATE TABLE IF NOT EXISTS users
(
	id BIGSERIAL PRIMARY KEY,
	student_id VARCHAR(8) NOT NULL UNIQUE,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	age INTEGER NOT NULL
);`
}

// owner_id carries no FOREIGN KEY: owners are resolved by the
// application and deleting a user leaves its projects in place.
func createProjectTable() string {
	return `CREATE TABLE IF NOT EXISTS projects
(
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	owner_id BIGINT NOT NULL
);`
}

// New connects to databaseURL and creates the tables if needed.
func New(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	for _, q := range []string{createUserTable(), createProjectTable()} {
		if _, err := pool.Exec(ctx, q); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres.New: create tables: %w", err)
		}
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// withTx mirrors pgx.BeginFunc but keeps sentinel errors unwrapped.
func (p *Postgres) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Users

func getUser(ctx context.Context, q querier, id int64) (types.User, error) {
	var u types.User
	err := q.QueryRow(ctx,
		"SELECT id, student_id, name, email, age FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.StudentID, &u.Name, &u.Email, &u.Age)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.User{}, storage.ErrUserNotFound
	}
	if err != nil {
		return types.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func userTaken(ctx context.Context, q querier, studentID, email string, exceptID int64) (bool, error) {
	var taken bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE (student_id = $1 OR email = $2) AND id <> $3)",
		studentID, email, exceptID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return taken, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u types.User) (types.User, error) {
	err := p.withTx(ctx, func(tx pgx.Tx) error {
		taken, err := userTaken(ctx, tx, u.StudentID, u.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return storage.ErrUserExists
		}

		err = tx.QueryRow(ctx,
			"INSERT INTO users (student_id, name, email, age) VALUES ($1, $2, $3, $4) RETURNING id",
			u.StudentID, u.Name, u.Email, u.Age,
		).Scan(&u.ID)
		if isUniqueViolation(err) {
			return storage.ErrUserExists
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.User{}, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id int64) (types.User, error) {
	u, err := getUser(ctx, p.pool, id)
	if err != nil {
		return types.User{}, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func (p *Postgres) GetUsers(ctx context.Context) ([]types.User, error) {
	rows, err := p.pool.Query(ctx, "SELECT id, student_id, name, email, age FROM users ORDER BY id ASC")
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

func replaceUser(ctx context.Context, tx pgx.Tx, id int64, u types.User) error {
	taken, err := userTaken(ctx, tx, u.StudentID, u.Email, id)
	if err != nil {
		return err
	}
	if taken {
		return storage.ErrUserExists
	}

	_, err = tx.Exec(ctx,
		"UPDATE users SET student_id = $1, name = $2, email = $3, age = $4 WHERE id = $5",
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

func (p *Postgres) UpdateUserByID(ctx context.Context, id int64, u types.User) (types.User, error) {
	err := p.withTx(ctx, func(tx pgx.Tx) error {
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

func (p *Postgres) PatchUserByID(ctx context.Context, id int64, patch types.UserPatch) (types.User, error) {
	var patched types.User
	err := p.withTx(ctx, func(tx pgx.Tx) error {
		current, err := getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		patched = patch.Apply(current)
		return replaceUser(ctx, tx, id, patched)
	})
	if err != nil {
		return types.User{}, fmt.Errorf("PatchUserByID: %w", err)
	}
	return patched, nil
}

func (p *Postgres) DeleteUserByID(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("DeleteUserByID: exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteUserByID: %w", storage.ErrUserNotFound)
	}
	return nil
}

// Projects

func getProject(ctx context.Context, q querier, id int64) (types.Project, error) {
	var pr types.Project
	err := q.QueryRow(ctx,
		"SELECT id, name, description, owner_id FROM projects WHERE id = $1", id,
	).Scan(&pr.ID, &pr.Name, &pr.Description, &pr.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Project{}, storage.ErrProjectNotFound
	}
	if err != nil {
		return types.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	return pr, nil
}

func ownerExists(ctx context.Context, q querier, ownerID *int64) error {
	if ownerID == nil {
		return storage.ErrUserNotFound
	}
	var exists bool
	err := q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", *ownerID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("resolve owner %d: %w", *ownerID, err)
	}
	if !exists {
		return storage.ErrUserNotFound
	}
	return nil
}

func (p *Postgres) CreateProject(ctx context.Context, pr types.Project) (types.Project, error) {
	err := p.withTx(ctx, func(tx pgx.Tx) error {
		if err := ownerExists(ctx, tx, pr.OwnerID); err != nil {
			return err
		}
		err := tx.QueryRow(ctx,
			"INSERT INTO projects (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id",
			pr.Name, pr.Description, pr.OwnerID,
		).Scan(&pr.ID)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Project{}, fmt.Errorf("CreateProject: %w", err)
	}
	return pr, nil
}

func (p *Postgres) GetProjectByID(ctx context.Context, id int64) (types.Project, error) {
	pr, err := getProject(ctx, p.pool, id)
	if err != nil {
		return types.Project{}, fmt.Errorf("GetProjectByID: %w", err)
	}
	return pr, nil
}

func (p *Postgres) GetProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := p.pool.Query(ctx, "SELECT id, name, description, owner_id FROM projects ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("GetProjects: query: %w", err)
	}
	defer rows.Close()

	projects := make([]types.Project, 0)
	for rows.Next() {
		var pr types.Project
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.Description, &pr.OwnerID); err != nil {
			return nil, fmt.Errorf("GetProjects: scan row: %w", err)
		}
		projects = append(projects, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetProjects: rows iteration: %w", err)
	}
	return projects, nil
}

func replaceProject(ctx context.Context, tx pgx.Tx, id int64, pr types.Project, checkOwner bool) error {
	if checkOwner {
		if err := ownerExists(ctx, tx, pr.OwnerID); err != nil {
			return err
		}
	}
	_, err := tx.Exec(ctx,
		"UPDATE projects SET name = $1, description = $2, owner_id = $3 WHERE id = $4",
		pr.Name, pr.Description, pr.OwnerID, id,
	)
	if err != nil {
		return fmt.Errorf("update project %d: %w", id, err)
	}
	return nil
}

func (p *Postgres) UpdateProjectByID(ctx context.Context, id int64, pr types.Project) (types.Project, error) {
	err := p.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := getProject(ctx, tx, id); err != nil {
			return err
		}
		return replaceProject(ctx, tx, id, pr, true)
	})
	if err != nil {
		return types.Project{}, fmt.Errorf("UpdateProjectByID: %w", err)
	}
	pr.ID = id
	return pr, nil
}

func (p *Postgres) PatchProjectByID(ctx context.Context, id int64, patch types.ProjectPatch) (types.Project, error) {
	var patched types.Project
	err := p.withTx(ctx, func(tx pgx.Tx) error {
		current, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}
		patched = patch.Apply(current)
		return replaceProject(ctx, tx, id, patched, patch.OwnerID != nil)
	})
	if err != nil {
		return types.Project{}, fmt.Errorf("PatchProjectByID: %w", err)
	}
	return patched, nil
}

func (p *Postgres) DeleteProjectByID(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("DeleteProjectByID: exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteProjectByID: %w", storage.ErrProjectNotFound)
	}
	return nil
}
