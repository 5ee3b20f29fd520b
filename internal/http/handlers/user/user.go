// Package user contains all HTTP handlers related to the User resource.
//
// Each exported function is a factory: it receives the storage
// dependency once, at route registration, and returns the
// http.HandlerFunc that runs on every request.
//
//	router.HandleFunc("POST /api/users", user.New(storage))
package user

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/projects-api/internal/storage"
	"github.com/aanand-mishra/projects-api/internal/types"
	"github.com/aanand-mishra/projects-api/internal/utils/request"
	"github.com/aanand-mishra/projects-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/users
//
// Request body (JSON):
//
//	{ "student_id": "S1234567", "name": "Anthony", "email": "user@example.com", "age": 24 }
//
// Success response (201 Created): the stored user, including its id.
//
// Error responses:
//
//	422 Unprocessable — empty body, malformed JSON, bad student_id or email
//	409 Conflict      — student_id or email already taken ("User already exists")
//
// ─────────────────────────────────────────────────────────────────────────────
func New(s storage.UserStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a user")

		var u types.User
		if err := request.Bind(r, &u); err != nil {
			response.WriteError(w, err)
			return
		}
		u.ID = 0

		created, err := s.CreateUser(r.Context(), u)
		if err != nil {
			slog.Warn("user not created", slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		slog.Info("user created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetByID handles GET /api/users/{id}.
func GetByID(s storage.UserStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		slog.Info("getting a user", slog.Int64("id", id))

		u, err := s.GetUserByID(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, u)
	}
}

// GetList handles GET /api/users. Returns [] (not null) when empty.
func GetList(s storage.UserStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all users")

		users, err := s.GetUsers(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, users)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/users/update/{id}
// Replaces ALL fields of an existing user; the body is validated with the
// same rules as creation.
//
// Error responses:
//
//	422 Unprocessable — invalid id or body
//	404 Not Found     — "User not found"
//	409 Conflict      — new student_id or email belongs to another user
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(s storage.UserStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		slog.Info("updating a user", slog.Int64("id", id))

		var u types.User
		if err := request.Bind(r, &u); err != nil {
			response.WriteError(w, err)
			return
		}

		updated, err := s.UpdateUserByID(r.Context(), id, u)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		slog.Info("user updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Patch handles PATCH /api/users/patch/{id}. Only the fields present in
// the body are validated and applied.
func Patch(s storage.UserStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		slog.Info("patching a user", slog.Int64("id", id))

		var p types.UserPatch
		if err := request.Bind(r, &p); err != nil {
			response.WriteError(w, err)
			return
		}

		patched, err := s.PatchUserByID(r.Context(), id, p)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, patched)
	}
}

// Delete handles DELETE /api/users/delete/{id}: 204 on success, 404 if
// the user does not exist. Projects owned by the user are left in place.
func Delete(s storage.UserStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		slog.Info("deleting a user", slog.Int64("id", id))

		if err := s.DeleteUserByID(r.Context(), id); err != nil {
			response.WriteError(w, err)
			return
		}

		slog.Info("user deleted", slog.Int64("id", id))
		response.NoContent(w)
	}
}
