package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"backoffice/internal/adapters/storage"
	"backoffice/internal/domain/menu"
	"backoffice/internal/domain/user"
)

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	UserStore interface {
		GetByEmail(ctx context.Context, email string) (user.User, error)
		Create(ctx context.Context, u user.User) (int64, error)
	}
	Now func() time.Time
}

// ExecuteSeedAdmin creates the initial admin account if the email is not registered.
// POST: an admin with email exists; an existing account is left untouched
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, email, password string) error {
	_, err := deps.UserStore.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	u := user.User{
		Name:      "Administrator",
		Email:     email,
		Role:      user.RoleAdmin,
		Status:    user.StatusActive,
		CreatedAt: deps.Now(),
	}
	u.Normalize()
	if err := u.Validate(); err != nil {
		return err
	}
	if err := u.SetPassword(password); err != nil {
		return err
	}
	id, err := deps.UserStore.Create(ctx, u)
	if err != nil {
		return err
	}
	slog.Info("seed_event", "event", "admin_created", "user_id", id, "email", u.Email)
	return nil
}

// DefaultCategories are created on an empty database.
var DefaultCategories = []string{"Main Dishes", "Soups", "Sides", "Drinks", "Desserts"}

// SeedCategoriesDeps holds dependencies for SeedCategories.
type SeedCategoriesDeps struct {
	MenuStore interface {
		ListCategories(ctx context.Context) ([]menu.Category, error)
		CreateCategory(ctx context.Context, c menu.Category) (int64, error)
	}
}

// ExecuteSeedCategories creates DefaultCategories when no category exists.
func ExecuteSeedCategories(ctx context.Context, deps SeedCategoriesDeps) error {
	existing, err := deps.MenuStore.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range DefaultCategories {
		if _, err := deps.MenuStore.CreateCategory(ctx, menu.Category{Name: name, Status: menu.StatusActive}); err != nil {
			return err
		}
	}
	slog.Info("seed_event", "event", "categories_created", "count", len(DefaultCategories))
	return nil
}
