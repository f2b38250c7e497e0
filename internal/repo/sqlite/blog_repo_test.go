package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/folioworks/portfolio-api/internal/domain/blogpost"
	"github.com/folioworks/portfolio-api/internal/repo/sqlite"
)

func TestBlogPostsCRUDAndFilters(t *testing.T) {
	pool := newTestPool(t)
	repo := sqlite.NewBlogRepo(pool, nil)
	ctx := context.Background()

	older := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, blogpost.CreatePostRequest{
		Title:           "Profiling Go services",
		Content:         "pprof walkthrough",
		PublicationDate: &older,
		Tags:            []string{"go", "performance"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = repo.Create(ctx, blogpost.CreatePostRequest{
		Title:           "SQLite in production",
		Content:         "WAL and single writers",
		PublicationDate: &newer,
		Tags:            []string{"sqlite"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Create(ctx, blogpost.CreatePostRequest{Title: "Profiling Go services", Content: "dup"}); !errors.Is(err, blogpost.ErrAlreadyExists) {
		t.Fatalf("got %v, want ErrAlreadyExists", err)
	}

	// newest first
	items, total, err := repo.List(ctx, blogpost.ListPostsFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("got %d items (total %d), want 2", len(items), total)
	}
	if items[0].Title != "SQLite in production" {
		t.Errorf("expected newest post first, got %q", items[0].Title)
	}

	tag := "performance"
	items, total, err = repo.List(ctx, blogpost.ListPostsFilter{Tag: &tag, Limit: 10})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != first.ID {
		t.Errorf("tag filter: got %d items (total %d)", len(items), total)
	}

	search := "walkthrough"
	_, total, err = repo.List(ctx, blogpost.ListPostsFilter{Search: &search, Limit: 10})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if total != 1 {
		t.Errorf("search filter: got total %d, want 1", total)
	}

	content := "updated content"
	updated, err := repo.Update(ctx, first.ID, blogpost.UpdatePostRequest{Content: &content})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != content {
		t.Errorf("got content %q", updated.Content)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, first.ID); !errors.Is(err, blogpost.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound after delete", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, blogpost.ErrNotFound) {
		t.Fatalf("double delete: got %v, want ErrNotFound", err)
	}
}
