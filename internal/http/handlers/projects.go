package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/domain/project"
	"github.com/folioworks/portfolio-api/internal/ordering"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type ProjectsStore interface {
	List(ctx context.Context, filter project.ListProjectsFilter) ([]project.Project, int, error)
	GetByID(ctx context.Context, id string) (project.Project, error)
	Create(ctx context.Context, req project.CreateProjectRequest) (project.Project, error)
	Update(ctx context.Context, id string, req project.UpdateProjectRequest) (project.Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectsHandler struct {
	repo ProjectsStore
}

func NewProjectsHandler(repo ProjectsStore) *ProjectsHandler {
	return &ProjectsHandler{repo: repo}
}

func (h *ProjectsHandler) ListProjects(ctx *gin.Context) {
	p := parsePagination(ctx)

	filter := project.ListProjectsFilter{
		Search:   optionalQuery(ctx, "search"),
		Category: optionalQuery(ctx, "category"),
		Limit:    p.Limit,
		Offset:   p.Offset(),
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list projects")
		return
	}

	ctx.JSON(http.StatusOK, listEnvelope(items, total, p))
}

func (h *ProjectsHandler) GetProjectByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	proj, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, "Project not found")
			return
		}
		RespondInternal(ctx, "Could not fetch project")
		return
	}

	ctx.JSON(http.StatusOK, proj)
}

func (h *ProjectsHandler) CreateProject(ctx *gin.Context) {
	var req project.CreateProjectRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	proj, err := h.repo.Create(cctx, req)

	if err != nil {
		switch {
		case errors.Is(err, project.ErrAlreadyExists):
			RespondConflict(ctx, "already_exists", "A project with this title already exists.")
		case errors.Is(err, ordering.ErrInvalidPosition):
			RespondError(ctx, http.StatusBadRequest, "invalid_position", "Requested order is out of range.", nil)
		default:
			RespondInternal(ctx, "Could not create project")
		}
		return
	}

	ctx.JSON(http.StatusCreated, proj)
}

func (h *ProjectsHandler) UpdateProject(ctx *gin.Context) {
	id := ctx.Param("id")

	var req project.UpdateProjectRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	proj, err := h.repo.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, project.ErrNotFound):
			RespondNotFound(ctx, "Project not found")
		case errors.Is(err, project.ErrAlreadyExists):
			RespondConflict(ctx, "already_exists", "A project with this title already exists.")
		case errors.Is(err, ordering.ErrInvalidPosition):
			RespondError(ctx, http.StatusBadRequest, "invalid_position", "Requested order is out of range.", nil)
		default:
			RespondInternal(ctx, "Could not update project")
		}
		return
	}

	ctx.JSON(http.StatusOK, proj)
}

func (h *ProjectsHandler) DeleteProject(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, "Project not found")
			return
		}
		RespondInternal(ctx, "Could not delete project")
		return
	}

	ctx.Status(http.StatusNoContent)
}
