// Package router maps verbs and paths onto the resource handlers.
//
// Route table:
//
//	POST   /api/users                 → create a user
//	GET    /api/users                 → list all users
//	GET    /api/users/{id}            → get one user
//	PUT    /api/users/update/{id}     → replace a user
//	PATCH  /api/users/patch/{id}      → partially update a user
//	DELETE /api/users/delete/{id}     → delete a user
//
// and the same six routes under /api/projects.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/projects-api/internal/http/handlers/project"
	"github.com/aanand-mishra/projects-api/internal/http/handlers/user"
	"github.com/aanand-mishra/projects-api/internal/http/middleware"
	"github.com/aanand-mishra/projects-api/internal/storage"
)

// New returns the fully wrapped API handler. dbTimeout bounds each
// request's storage work; zero disables the bound.
func New(s storage.Storage, log *slog.Logger, dbTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users", user.New(s))
	mux.HandleFunc("GET /api/users", user.GetList(s))
	mux.HandleFunc("GET /api/users/{id}", user.GetByID(s))
	mux.HandleFunc("PUT /api/users/update/{id}", user.Update(s))
	mux.HandleFunc("PATCH /api/users/patch/{id}", user.Patch(s))
	mux.HandleFunc("DELETE /api/users/delete/{id}", user.Delete(s))

	mux.HandleFunc("POST /api/projects", project.New(s))
	mux.HandleFunc("GET /api/projects", project.GetList(s))
	mux.HandleFunc("GET /api/projects/{id}", project.GetByID(s))
	mux.HandleFunc("PUT /api/projects/update/{id}", project.Update(s))
	mux.HandleFunc("PATCH /api/projects/patch/{id}", project.Patch(s))
	mux.HandleFunc("DELETE /api/projects/delete/{id}", project.Delete(s))

	// Outermost first: every request gets an id before it is logged, and
	// panics are recovered inside the logger so the 500 is recorded.
	var h http.Handler = mux
	h = middleware.Timeout(dbTimeout)(h)
	h = middleware.Recover(log)(h)
	h = middleware.Logger(log)(h)
	h = middleware.CORS()(h)
	h = middleware.WithRequestID(h)

	return h
}
