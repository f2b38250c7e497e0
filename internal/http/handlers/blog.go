package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/domain/blogpost"
	"github.com/gin-gonic/gin"
)

type BlogStore interface {
	List(ctx context.Context, filter blogpost.ListPostsFilter) ([]blogpost.Post, int, error)
	GetByID(ctx context.Context, id string) (blogpost.Post, error)
	Create(ctx context.Context, req blogpost.CreatePostRequest) (blogpost.Post, error)
	Update(ctx context.Context, id string, req blogpost.UpdatePostRequest) (blogpost.Post, error)
	Delete(ctx context.Context, id string) error
}

type BlogHandler struct {
	repo BlogStore
}

func NewBlogHandler(repo BlogStore) *BlogHandler {
	return &BlogHandler{repo: repo}
}

func (h *BlogHandler) ListPosts(ctx *gin.Context) {
	p := parsePagination(ctx)

	filter := blogpost.ListPostsFilter{
		Search: optionalQuery(ctx, "search"),
		Tag:    optionalQuery(ctx, "tag"),
		Limit:  p.Limit,
		Offset: p.Offset(),
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list blog posts")
		return
	}

	ctx.JSON(http.StatusOK, listEnvelope(items, total, p))
}

func (h *BlogHandler) GetPostByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	post, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, blogpost.ErrNotFound) {
			RespondNotFound(ctx, "Blog post not found")
			return
		}
		RespondInternal(ctx, "Could not fetch blog post")
		return
	}

	ctx.JSON(http.StatusOK, post)
}

func (h *BlogHandler) CreatePost(ctx *gin.Context) {
	var req blogpost.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	post, err := h.repo.Create(cctx, req)

	if err != nil {
		if errors.Is(err, blogpost.ErrAlreadyExists) {
			RespondConflict(ctx, "already_exists", "A blog post with this title already exists.")
			return
		}
		RespondInternal(ctx, "Could not create blog post")
		return
	}

	ctx.JSON(http.StatusCreated, post)
}

func (h *BlogHandler) UpdatePost(ctx *gin.Context) {
	id := ctx.Param("id")

	var req blogpost.UpdatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	post, err := h.repo.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, blogpost.ErrNotFound):
			RespondNotFound(ctx, "Blog post not found")
		case errors.Is(err, blogpost.ErrAlreadyExists):
			RespondConflict(ctx, "already_exists", "A blog post with this title already exists.")
		default:
			RespondInternal(ctx, "Could not update blog post")
		}
		return
	}

	ctx.JSON(http.StatusOK, post)
}

func (h *BlogHandler) DeletePost(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, blogpost.ErrNotFound) {
			RespondNotFound(ctx, "Blog post not found")
			return
		}
		RespondInternal(ctx, "Could not delete blog post")
		return
	}

	ctx.Status(http.StatusNoContent)
}
