package project

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/projects-api/internal/storage/sqlite"
	"github.com/aanand-mishra/projects-api/internal/types"
)

func newStore(t *testing.T) *sqlite.SQLite {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.CreateUser(context.Background(), types.User{
		StudentID: "S1234567", Name: "Anthony", Email: "user@example.com", Age: ptr(24),
	})
	require.NoError(t, err)
	return db
}

func serve(h http.HandlerFunc, pattern, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestNew(t *testing.T) {
	db := newStore(t)

	rec := serve(New(db), "POST /api/projects", http.MethodPost, "/api/projects",
		`{"name":"Test Project","description":"A test project","owner_id":1}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Test Project","description":"A test project","owner_id":1}`, rec.Body.String())
}

func TestNew_UnknownOwner(t *testing.T) {
	db := newStore(t)

	rec := serve(New(db), "POST /api/projects", http.MethodPost, "/api/projects",
		`{"name":"Test Project","owner_id":666}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"User not found"}`, rec.Body.String())
}

func TestNew_ZeroOwner(t *testing.T) {
	db := newStore(t)

	rec := serve(New(db), "POST /api/projects", http.MethodPost, "/api/projects",
		`{"name":"Test Project","owner_id":0}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"User not found"}`, rec.Body.String())
}

func TestNew_MissingOwner(t *testing.T) {
	db := newStore(t)

	rec := serve(New(db), "POST /api/projects", http.MethodPost, "/api/projects", `{"name":"Test Project"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNew_MissingName(t *testing.T) {
	db := newStore(t)

	rec := serve(New(db), "POST /api/projects", http.MethodPost, "/api/projects", `{"owner_id":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetByID_NotFound(t *testing.T) {
	db := newStore(t)

	rec := serve(GetByID(db), "GET /api/projects/{id}", http.MethodGet, "/api/projects/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"Project not found"}`, rec.Body.String())
}

func TestUpdate_UnknownOwner(t *testing.T) {
	db := newStore(t)
	_, err := db.CreateProject(context.Background(), types.Project{Name: "p", OwnerID: ptr(int64(1))})
	require.NoError(t, err)

	rec := serve(Update(db), "PUT /api/projects/update/{id}", http.MethodPut, "/api/projects/update/1",
		`{"name":"p","owner_id":42}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"User not found"}`, rec.Body.String())
}

func TestPatch_KeepsOtherFields(t *testing.T) {
	db := newStore(t)
	_, err := db.CreateProject(context.Background(), types.Project{Name: "PatchProject", Description: "keep me", OwnerID: ptr(int64(1))})
	require.NoError(t, err)

	rec := serve(Patch(db), "PATCH /api/projects/patch/{id}", http.MethodPatch, "/api/projects/patch/1",
		`{"name":"PatchedProject"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"PatchedProject","description":"keep me","owner_id":1}`, rec.Body.String())
}

func TestDelete(t *testing.T) {
	db := newStore(t)
	_, err := db.CreateProject(context.Background(), types.Project{Name: "p", OwnerID: ptr(int64(1))})
	require.NoError(t, err)

	rec := serve(Delete(db), "DELETE /api/projects/delete/{id}", http.MethodDelete, "/api/projects/delete/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(Delete(db), "DELETE /api/projects/delete/{id}", http.MethodDelete, "/api/projects/delete/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetList(t *testing.T) {
	db := newStore(t)

	rec := serve(GetList(db), "GET /api/projects", http.MethodGet, "/api/projects", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func ptr[T any](v T) *T { return &v }
