package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/folioworks/portfolio-api/internal/cache"
	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/domain/aboutme"
	"github.com/gin-gonic/gin"
)

type AboutMeStore interface {
	Get(ctx context.Context) (aboutme.AboutMe, error)
	Upsert(ctx context.Context, text string) (aboutme.AboutMe, error)
}

const aboutMeCacheKey = "aboutme"

type AboutMeHandler struct {
	repo  AboutMeStore
	cache *cache.Cache // nil disables caching
}

func NewAboutMeHandler(repo AboutMeStore, c *cache.Cache) *AboutMeHandler {
	return &AboutMeHandler{repo: repo, cache: c}
}

func (h *AboutMeHandler) GetAboutMe(ctx *gin.Context) {
	if h.cache != nil {
		if v, ok := h.cache.Get(aboutMeCacheKey); ok {
			RespondJSONWithETag(ctx, http.StatusOK, v)
			return
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	doc, err := h.repo.Get(cctx)

	if err != nil {
		if errors.Is(err, aboutme.ErrNotFound) {
			RespondNotFound(ctx, "About me text has not been set yet")
			return
		}
		RespondInternal(ctx, "Could not fetch about me text")
		return
	}

	if h.cache != nil {
		h.cache.Set(aboutMeCacheKey, doc)
	}

	RespondJSONWithETag(ctx, http.StatusOK, doc)
}

func (h *AboutMeHandler) UpdateAboutMe(ctx *gin.Context) {
	var req aboutme.UpdateAboutMeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	doc, err := h.repo.Upsert(cctx, req.Text)

	if err != nil {
		RespondInternal(ctx, "Could not update about me text")
		return
	}

	if h.cache != nil {
		h.cache.Delete(aboutMeCacheKey)
	}

	ctx.JSON(http.StatusOK, doc)
}
