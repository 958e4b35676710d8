package orchestrators

import (
	"context"
	"testing"

	"backoffice/internal/domain/menu"
	"backoffice/internal/domain/user"
)

// TestExecuteSeedAdmin tests the admin is created once and never overwritten.
func TestExecuteSeedAdmin(t *testing.T) {
	store := newMockUserStore()
	deps := SeedAdminDeps{UserStore: store, Now: fixedNow}
	ctx := context.Background()

	if err := ExecuteSeedAdmin(ctx, deps, "Admin@Example.com", "change-me-now"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(store.users))
	}
	var u user.User
	for _, v := range store.users {
		u = v
	}
	if u.Email != "admin@example.com" || !u.IsAdmin() || !u.IsActive() {
		t.Errorf("unexpected admin: %+v", u)
	}
	if err := ExecuteSeedAdmin(ctx, deps, "admin@example.com", "another-password"); err != nil {
		t.Fatalf("unexpected error on reseed: %v", err)
	}
	if len(store.users) != 1 {
		t.Errorf("expected reseed to be a no-op, got %d users", len(store.users))
	}
}

// TestExecuteSeedCategories tests defaults are created only on an empty table.
func TestExecuteSeedCategories(t *testing.T) {
	store := newMockMenuStore()
	store.categories = map[int64]menu.Category{}
	ctx := context.Background()

	if err := ExecuteSeedCategories(ctx, SeedCategoriesDeps{MenuStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.categories) != len(DefaultCategories) {
		t.Fatalf("expected %d categories, got %d", len(DefaultCategories), len(store.categories))
	}
	if err := ExecuteSeedCategories(ctx, SeedCategoriesDeps{MenuStore: store}); err != nil {
		t.Fatal(err)
	}
	if len(store.categories) != len(DefaultCategories) {
		t.Error("expected second seed to be a no-op")
	}
}
