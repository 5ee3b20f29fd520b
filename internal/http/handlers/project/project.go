// Package project contains the HTTP handlers for the Project resource.
// They follow the same factory shape as package user.
package project

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/projects-api/internal/storage"
	"github.com/aanand-mishra/projects-api/internal/types"
	"github.com/aanand-mishra/projects-api/internal/utils/request"
	"github.com/aanand-mishra/projects-api/internal/utils/response"
)

// New handles POST /api/projects. The owner must exist; otherwise the
// response is 404 "User not found".
func New(s storage.ProjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a project")

		var p types.Project
		if err := request.Bind(r, &p); err != nil {
			response.WriteError(w, err)
			return
		}
		p.ID = 0

		created, err := s.CreateProject(r.Context(), p)
		if err != nil {
			slog.Warn("project not created",
				slog.Int64("owner_id", *p.OwnerID),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		slog.Info("project created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

func GetByID(s storage.ProjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		p, err := s.GetProjectByID(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, p)
	}
}

func GetList(s storage.ProjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := s.GetProjects(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, projects)
	}
}

// Update handles PUT /api/projects/update/{id}.
func Update(s storage.ProjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		slog.Info("updating a project", slog.Int64("id", id))

		var p types.Project
		if err := request.Bind(r, &p); err != nil {
			response.WriteError(w, err)
			return
		}

		updated, err := s.UpdateProjectByID(r.Context(), id, p)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Patch handles PATCH /api/projects/patch/{id}.
func Patch(s storage.ProjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		slog.Info("patching a project", slog.Int64("id", id))

		var p types.ProjectPatch
		if err := request.Bind(r, &p); err != nil {
			response.WriteError(w, err)
			return
		}

		patched, err := s.PatchProjectByID(r.Context(), id, p)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, patched)
	}
}

// Delete handles DELETE /api/projects/delete/{id}.
func Delete(s storage.ProjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		slog.Info("deleting a project", slog.Int64("id", id))

		if err := s.DeleteProjectByID(r.Context(), id); err != nil {
			response.WriteError(w, err)
			return
		}

		response.NoContent(w)
	}
}
