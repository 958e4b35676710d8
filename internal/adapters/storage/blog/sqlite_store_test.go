package blog

import (
	"context"
	"errors"
	"testing"
	"time"

	"backoffice/internal/adapters/storage"
	"backoffice/internal/adapters/storage/storagetest"
	domain "backoffice/internal/domain/blog"
)

// TestSQLiteStore_FullRowUpdate verifies edits replace every column.
func TestSQLiteStore_FullRowUpdate(t *testing.T) {
	s := NewSQLiteStore(storagetest.OpenDB(t))
	ctx := context.Background()
	created := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

	id, err := s.Create(ctx, domain.Post{Title: "Draft", Content: "x", Author: "A", Status: domain.StatusDraft, CreatedAt: created, UpdatedAt: created})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	edited := domain.Post{ID: id, Title: "Pepper soup guide", Content: "# Heat", Author: "Chef B", Status: domain.StatusPublished, UpdatedAt: created.Add(time.Hour)}
	if err := s.Update(ctx, edited); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != edited.Title || got.Content != edited.Content || got.Author != edited.Author || got.Status != edited.Status {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	n, _ := s.Count(ctx, ListFilter{Status: domain.StatusPublished, Search: "pepper"})
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}

	if err := s.Update(ctx, domain.Post{ID: 999, Title: "t", Content: "c", Author: "a", Status: domain.StatusDraft}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update missing = %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByID after delete = %v", err)
	}
}
