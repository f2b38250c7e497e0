package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/folioworks/portfolio-api/internal/cache"
	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/domain/herobanner"
	"github.com/folioworks/portfolio-api/internal/ordering"
	"github.com/gin-gonic/gin"
)

type HeroBannerStore interface {
	List(ctx context.Context, filter herobanner.ListTextsFilter) ([]herobanner.Text, int, error)
	GetByID(ctx context.Context, id string) (herobanner.Text, error)
	Create(ctx context.Context, req herobanner.CreateTextRequest) (herobanner.Text, error)
	Update(ctx context.Context, id string, req herobanner.UpdateTextRequest) (herobanner.Text, error)
	Delete(ctx context.Context, id string) error
}

const heroBannerCachePrefix = "herobanner:list:"

type HeroBannerHandler struct {
	repo  HeroBannerStore
	cache *cache.Cache // nil disables caching
}

func NewHeroBannerHandler(repo HeroBannerStore, c *cache.Cache) *HeroBannerHandler {
	return &HeroBannerHandler{repo: repo, cache: c}
}

func (h *HeroBannerHandler) invalidate() {
	if h.cache != nil {
		h.cache.DeletePrefix(heroBannerCachePrefix)
	}
}

func (h *HeroBannerHandler) ListTexts(ctx *gin.Context) {
	// the landing page polls this endpoint, so cache per query variant
	cacheKey := heroBannerCachePrefix + ctx.Request.URL.RawQuery
	if h.cache != nil {
		if v, ok := h.cache.Get(cacheKey); ok {
			RespondJSONWithETag(ctx, http.StatusOK, v)
			return
		}
	}

	p := parsePagination(ctx)

	filter := herobanner.ListTextsFilter{
		Search: optionalQuery(ctx, "search"),
		Limit:  p.Limit,
		Offset: p.Offset(),
	}

	if raw := ctx.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			RespondBadRequest(ctx, "active must be true or false", nil)
			return
		}
		filter.IsActive = &active
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list hero banner texts")
		return
	}

	body := listEnvelope(items, total, p)
	if h.cache != nil {
		h.cache.Set(cacheKey, body)
	}

	RespondJSONWithETag(ctx, http.StatusOK, body)
}

func (h *HeroBannerHandler) GetTextByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	text, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, herobanner.ErrNotFound) {
			RespondNotFound(ctx, "Hero banner text not found")
			return
		}
		RespondInternal(ctx, "Could not fetch hero banner text")
		return
	}

	ctx.JSON(http.StatusOK, text)
}

func (h *HeroBannerHandler) CreateText(ctx *gin.Context) {
	var req herobanner.CreateTextRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	text, err := h.repo.Create(cctx, req)

	if err != nil {
		switch {
		case errors.Is(err, herobanner.ErrAlreadyExists):
			RespondConflict(ctx, "already_exists", "This hero banner text already exists.")
		case errors.Is(err, ordering.ErrInvalidPosition):
			RespondError(ctx, http.StatusBadRequest, "invalid_position", "Requested order is out of range.", nil)
		default:
			RespondInternal(ctx, "Could not create hero banner text")
		}
		return
	}

	h.invalidate()
	ctx.JSON(http.StatusCreated, text)
}

func (h *HeroBannerHandler) UpdateText(ctx *gin.Context) {
	id := ctx.Param("id")

	var req herobanner.UpdateTextRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	text, err := h.repo.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, herobanner.ErrNotFound):
			RespondNotFound(ctx, "Hero banner text not found")
		case errors.Is(err, herobanner.ErrAlreadyExists):
			RespondConflict(ctx, "already_exists", "This hero banner text already exists.")
		case errors.Is(err, ordering.ErrInvalidPosition):
			RespondError(ctx, http.StatusBadRequest, "invalid_position", "Requested order is out of range.", nil)
		default:
			RespondInternal(ctx, "Could not update hero banner text")
		}
		return
	}

	h.invalidate()
	ctx.JSON(http.StatusOK, text)
}

func (h *HeroBannerHandler) DeleteText(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, herobanner.ErrNotFound) {
			RespondNotFound(ctx, "Hero banner text not found")
			return
		}
		RespondInternal(ctx, "Could not delete hero banner text")
		return
	}

	h.invalidate()
	ctx.Status(http.StatusNoContent)
}
