package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/folioworks/portfolio-api/internal/cache"
	"github.com/folioworks/portfolio-api/internal/domain/herobanner"
	"github.com/folioworks/portfolio-api/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type fakeHeroBannerRepo struct {
	listFn   func(ctx context.Context, filter herobanner.ListTextsFilter) ([]herobanner.Text, int, error)
	getFn    func(ctx context.Context, id string) (herobanner.Text, error)
	createFn func(ctx context.Context, req herobanner.CreateTextRequest) (herobanner.Text, error)
	updateFn func(ctx context.Context, id string, req herobanner.UpdateTextRequest) (herobanner.Text, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeHeroBannerRepo) List(ctx context.Context, filter herobanner.ListTextsFilter) ([]herobanner.Text, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeHeroBannerRepo) GetByID(ctx context.Context, id string) (herobanner.Text, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return herobanner.Text{}, herobanner.ErrNotFound
}

func (f *fakeHeroBannerRepo) Create(ctx context.Context, req herobanner.CreateTextRequest) (herobanner.Text, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return herobanner.Text{}, nil
}

func (f *fakeHeroBannerRepo) Update(ctx context.Context, id string, req herobanner.UpdateTextRequest) (herobanner.Text, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return herobanner.Text{}, nil
}

func (f *fakeHeroBannerRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func newHeroBannerRouter(repo handlers.HeroBannerStore, c *cache.Cache) *gin.Engine {
	r := gin.New()
	h := handlers.NewHeroBannerHandler(repo, c)
	r.GET("/hero-banner", h.ListTexts)
	r.POST("/hero-banner", h.CreateText)
	return r
}

func TestListHeroBannerTextsServesFromCache(t *testing.T) {
	calls := 0

	repo := &fakeHeroBannerRepo{listFn: func(_ context.Context, _ herobanner.ListTextsFilter) ([]herobanner.Text, int, error) {
		calls++
		return []herobanner.Text{{ID: "t1", Text: "hello", IsActive: true, Order: 1}}, 1, nil
	}}

	r := newHeroBannerRouter(repo, cache.New(time.Minute))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/hero-banner", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i+1, w.Code)
		}
	}

	if calls != 1 {
		t.Errorf("repo hit %d times, want cached after first", calls)
	}
}

func TestHeroBannerMutationInvalidatesCache(t *testing.T) {
	calls := 0

	repo := &fakeHeroBannerRepo{
		listFn: func(_ context.Context, _ herobanner.ListTextsFilter) ([]herobanner.Text, int, error) {
			calls++
			return nil, 0, nil
		},
		createFn: func(_ context.Context, req herobanner.CreateTextRequest) (herobanner.Text, error) {
			return herobanner.Text{ID: "t2", Text: req.Text, IsActive: true, Order: 1}, nil
		},
	}

	r := newHeroBannerRouter(repo, cache.New(time.Minute))

	get := func() {
		req := httptest.NewRequest(http.MethodGet, "/hero-banner", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	get()
	get() // cached

	body := bytes.NewBufferString(`{"text":"fresh tagline"}`)
	req := httptest.NewRequest(http.MethodPost, "/hero-banner", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d", w.Code)
	}

	get() // must go back to the repo

	if calls != 2 {
		t.Errorf("repo hit %d times, want 2 (cache dropped after create)", calls)
	}
}

func TestListHeroBannerTextsActiveFilter(t *testing.T) {
	var got herobanner.ListTextsFilter

	repo := &fakeHeroBannerRepo{listFn: func(_ context.Context, filter herobanner.ListTextsFilter) ([]herobanner.Text, int, error) {
		got = filter
		return nil, 0, nil
	}}

	r := newHeroBannerRouter(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/hero-banner?active=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got.IsActive == nil || !*got.IsActive {
		t.Errorf("active filter not forwarded: %+v", got.IsActive)
	}

	req = httptest.NewRequest(http.MethodGet, "/hero-banner?active=banana", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("bad bool: got %d, want 400", w.Code)
	}
}
