package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/folioworks/portfolio-api/internal/domain/project"
	"github.com/folioworks/portfolio-api/internal/http/handlers"
	"github.com/folioworks/portfolio-api/internal/ordering"
	"github.com/gin-gonic/gin"
)

type fakeProjectsRepo struct {
	listFn   func(ctx context.Context, filter project.ListProjectsFilter) ([]project.Project, int, error)
	getFn    func(ctx context.Context, id string) (project.Project, error)
	createFn func(ctx context.Context, req project.CreateProjectRequest) (project.Project, error)
	updateFn func(ctx context.Context, id string, req project.UpdateProjectRequest) (project.Project, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeProjectsRepo) List(ctx context.Context, filter project.ListProjectsFilter) ([]project.Project, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeProjectsRepo) GetByID(ctx context.Context, id string) (project.Project, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return project.Project{}, project.ErrNotFound
}

func (f *fakeProjectsRepo) Create(ctx context.Context, req project.CreateProjectRequest) (project.Project, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return project.Project{}, nil
}

func (f *fakeProjectsRepo) Update(ctx context.Context, id string, req project.UpdateProjectRequest) (project.Project, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return project.Project{}, nil
}

func (f *fakeProjectsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func newProjectsRouter(repo handlers.ProjectsStore) *gin.Engine {
	r := gin.New()
	h := handlers.NewProjectsHandler(repo)
	r.GET("/projects", h.ListProjects)
	r.GET("/projects/:id", h.GetProjectByID)
	r.POST("/projects", h.CreateProject)
	r.PUT("/projects/:id", h.UpdateProject)
	r.DELETE("/projects/:id", h.DeleteProject)
	return r
}

func TestListProjectsPaginationDefaults(t *testing.T) {
	var got project.ListProjectsFilter

	repo := &fakeProjectsRepo{listFn: func(_ context.Context, filter project.ListProjectsFilter) ([]project.Project, int, error) {
		got = filter
		return []project.Project{}, 0, nil
	}}

	r := newProjectsRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if got.Limit != 10 || got.Offset != 0 {
		t.Errorf("got limit=%d offset=%d, want 10/0", got.Limit, got.Offset)
	}
	if got.Search != nil || got.Category != nil {
		t.Errorf("filters should be nil when params absent: %+v", got)
	}
}

func TestListProjectsClampsLimit(t *testing.T) {
	var got project.ListProjectsFilter

	repo := &fakeProjectsRepo{listFn: func(_ context.Context, filter project.ListProjectsFilter) ([]project.Project, int, error) {
		got = filter
		return nil, 0, nil
	}}

	r := newProjectsRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/projects?page=3&limit=500&category=web", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got.Limit != 100 {
		t.Errorf("got limit %d, want clamp to 100", got.Limit)
	}
	if got.Offset != 200 {
		t.Errorf("got offset %d, want 200 (page 3 of 100)", got.Offset)
	}
	if got.Category == nil || *got.Category != "web" {
		t.Errorf("category filter not forwarded: %+v", got.Category)
	}
}

func TestCreateProjectConflict(t *testing.T) {
	repo := &fakeProjectsRepo{createFn: func(_ context.Context, _ project.CreateProjectRequest) (project.Project, error) {
		return project.Project{}, project.ErrAlreadyExists
	}}

	r := newProjectsRouter(repo)

	body := bytes.NewBufferString(`{"title":"Taken"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409", w.Code)
	}
}

func TestUpdateProjectInvalidPosition(t *testing.T) {
	repo := &fakeProjectsRepo{updateFn: func(_ context.Context, _ string, _ project.UpdateProjectRequest) (project.Project, error) {
		return project.Project{}, ordering.ErrInvalidPosition
	}}

	r := newProjectsRouter(repo)

	body := bytes.NewBufferString(`{"order":99}`)
	req := httptest.NewRequest(http.MethodPut, "/projects/p1", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", w.Code)
	}

	var resp struct {
		Error handlers.APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "invalid_position" {
		t.Errorf("got code %q, want invalid_position", resp.Error.Code)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	r := newProjectsRouter(&fakeProjectsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/projects/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}

func TestDeleteProjectNoContent(t *testing.T) {
	deleted := ""

	repo := &fakeProjectsRepo{deleteFn: func(_ context.Context, id string) error {
		deleted = id
		return nil
	}}

	r := newProjectsRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/projects/p1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got %d, want 204", w.Code)
	}
	if deleted != "p1" {
		t.Errorf("deleted %q, want p1", deleted)
	}
}
