package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/domain/skill"
	"github.com/folioworks/portfolio-api/internal/ordering"
	"github.com/gin-gonic/gin"
)

type SkillsStore interface {
	List(ctx context.Context, filter skill.ListSkillsFilter) ([]skill.Skill, int, error)
	GetByID(ctx context.Context, id string) (skill.Skill, error)
	Create(ctx context.Context, req skill.CreateSkillRequest) (skill.Skill, error)
	Update(ctx context.Context, id string, req skill.UpdateSkillRequest) (skill.Skill, error)
	Delete(ctx context.Context, id string) error
}

type SkillsHandler struct {
	repo SkillsStore
}

func NewSkillsHandler(repo SkillsStore) *SkillsHandler {
	return &SkillsHandler{repo: repo}
}

func (h *SkillsHandler) ListSkills(ctx *gin.Context) {
	p := parsePagination(ctx)

	filter := skill.ListSkillsFilter{
		Search:   optionalQuery(ctx, "search"),
		Category: optionalQuery(ctx, "category"),
		Limit:    p.Limit,
		Offset:   p.Offset(),
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list skills")
		return
	}

	ctx.JSON(http.StatusOK, listEnvelope(items, total, p))
}

func (h *SkillsHandler) GetSkillByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	s, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			RespondNotFound(ctx, "Skill not found")
			return
		}
		RespondInternal(ctx, "Could not fetch skill")
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *SkillsHandler) CreateSkill(ctx *gin.Context) {
	var req skill.CreateSkillRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	s, err := h.repo.Create(cctx, req)

	if err != nil {
		switch {
		case errors.Is(err, skill.ErrAlreadyExists):
			RespondConflict(ctx, "already_exists", "A skill with this name already exists.")
		case errors.Is(err, ordering.ErrInvalidPosition):
			RespondError(ctx, http.StatusBadRequest, "invalid_position", "Requested order is out of range.", nil)
		default:
			RespondInternal(ctx, "Could not create skill")
		}
		return
	}

	ctx.JSON(http.StatusCreated, s)
}

func (h *SkillsHandler) UpdateSkill(ctx *gin.Context) {
	id := ctx.Param("id")

	var req skill.UpdateSkillRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	s, err := h.repo.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, skill.ErrNotFound):
			RespondNotFound(ctx, "Skill not found")
		case errors.Is(err, skill.ErrAlreadyExists):
			RespondConflict(ctx, "already_exists", "A skill with this name already exists.")
		case errors.Is(err, ordering.ErrInvalidPosition):
			RespondError(ctx, http.StatusBadRequest, "invalid_position", "Requested order is out of range.", nil)
		default:
			RespondInternal(ctx, "Could not update skill")
		}
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *SkillsHandler) DeleteSkill(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			RespondNotFound(ctx, "Skill not found")
			return
		}
		RespondInternal(ctx, "Could not delete skill")
		return
	}

	ctx.Status(http.StatusNoContent)
}
