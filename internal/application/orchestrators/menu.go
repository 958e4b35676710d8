package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"backoffice/internal/adapters/storage"
	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/menu"
)

// MenuStoreForOrchestrator defines the store interface needed by menu orchestrators.
type MenuStoreForOrchestrator interface {
	GetByID(ctx context.Context, id int64) (menu.Item, error)
	Create(ctx context.Context, item menu.Item) (int64, error)
	Update(ctx context.Context, item menu.Item) error
	Delete(ctx context.Context, id int64) (menu.Item, error)
	SetStatus(ctx context.Context, id int64, status string) error
	SetFeatured(ctx context.Context, id int64, featured bool) error
	GetCategory(ctx context.Context, id int64) (menu.Category, error)
	SetCategoryStatus(ctx context.Context, id int64, status string) error
}

// ImageStorage stores menu photos.
type ImageStorage interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(name string) error
}

// ImageUpload is an optional file attached to a menu form.
type ImageUpload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// MenuDeps holds dependencies for the menu orchestrators.
type MenuDeps struct {
	MenuStore MenuStoreForOrchestrator
	Images    ImageStorage
	Activity  ActivityDeps
	Now       func() time.Time
}

// MenuItemInput carries form input for creating or editing a menu item.
type MenuItemInput struct {
	Actor       Actor
	ID          int64 // zero on create
	Name        string
	Description string
	Price       string
	CategoryID  int64
	IsAvailable bool
	IsFeatured  bool
	Status      string // empty keeps the current status (active on create)
	Image       *ImageUpload
}

// buildItem validates the form fields onto item.
func buildItem(ctx context.Context, item menu.Item, input MenuItemInput, deps MenuDeps) (menu.Item, error) {
	price, err := menu.ParsePrice(input.Price)
	if err != nil {
		return menu.Item{}, err
	}
	item.Name = strings.TrimSpace(input.Name)
	item.Description = strings.TrimSpace(input.Description)
	item.Price = price
	item.CategoryID = input.CategoryID
	item.IsAvailable = input.IsAvailable
	item.IsFeatured = input.IsFeatured
	if input.Status != "" {
		item.Status = input.Status
	}
	if err := item.Validate(); err != nil {
		return menu.Item{}, err
	}
	if _, err := deps.MenuStore.GetCategory(ctx, item.CategoryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return menu.Item{}, menu.ErrInvalidCategory
		}
		return menu.Item{}, err
	}
	if input.Image != nil {
		if err := menu.ValidateImage(input.Image.Filename, input.Image.Size); err != nil {
			return menu.Item{}, err
		}
	}
	return item, nil
}

// saveImage stores the upload, if any, and returns the stored name.
func saveImage(input MenuItemInput, deps MenuDeps) (string, error) {
	if input.Image == nil {
		return "", nil
	}
	if deps.Images == nil {
		return "", errors.New("image storage is not configured")
	}
	name, err := deps.Images.Save(input.Image.Filename, io.LimitReader(input.Image.Body, menu.MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("save menu image: %w", err)
	}
	return name, nil
}

// removeImage deletes a stored photo, logging rather than failing.
func removeImage(deps MenuDeps, name string) {
	if name == "" || deps.Images == nil {
		return
	}
	if err := deps.Images.Remove(name); err != nil {
		slog.Warn("menu_event", "event", "image_remove_failed", "image", name, "error", err)
	}
}

// ExecuteCreateMenuItem validates the form, stores the optional photo and inserts the item.
// PRE: input.CategoryID names an existing category
// POST: on success one row exists with status active; on failure no row and no file remain
func ExecuteCreateMenuItem(ctx context.Context, input MenuItemInput, deps MenuDeps) (menu.Item, error) {
	now := deps.Now()
	item, err := buildItem(ctx, menu.Item{Status: menu.StatusActive, CreatedAt: now}, input, deps)
	if err != nil {
		return menu.Item{}, err
	}
	item.UpdatedAt = now

	if item.Image, err = saveImage(input, deps); err != nil {
		return menu.Item{}, err
	}
	if item.ID, err = deps.MenuStore.Create(ctx, item); err != nil {
		removeImage(deps, item.Image)
		return menu.Item{}, err
	}

	slog.Info("menu_event", "event", "menu_item_created", "item_id", item.ID, "name", item.Name)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeMenuItem,
		Action:      activity.ActionCreate,
		Description: "Added new menu item: " + item.Name,
		EntityType:  activity.TypeMenuItem,
		EntityID:    item.ID,
	})
	return item, nil
}

// ExecuteUpdateMenuItem applies an edit. A new photo replaces the old one, which
// is removed only after the row is saved.
// PRE: input.ID names an existing item
// POST: on failure the row and the old photo are unchanged and no new file remains
func ExecuteUpdateMenuItem(ctx context.Context, input MenuItemInput, deps MenuDeps) (menu.Item, error) {
	existing, err := deps.MenuStore.GetByID(ctx, input.ID)
	if err != nil {
		return menu.Item{}, err
	}
	item, err := buildItem(ctx, existing, input, deps)
	if err != nil {
		return menu.Item{}, err
	}
	item.UpdatedAt = deps.Now()

	newImage, err := saveImage(input, deps)
	if err != nil {
		return menu.Item{}, err
	}
	if newImage != "" {
		item.Image = newImage
	}
	if err := deps.MenuStore.Update(ctx, item); err != nil {
		removeImage(deps, newImage)
		return menu.Item{}, err
	}
	if newImage != "" {
		removeImage(deps, existing.Image)
	}

	slog.Info("menu_event", "event", "menu_item_updated", "item_id", item.ID, "image_replaced", newImage != "")
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeMenuItem,
		Action:      activity.ActionUpdate,
		Description: "Updated menu item: " + item.Name,
		EntityType:  activity.TypeMenuItem,
		EntityID:    item.ID,
	})
	return item, nil
}

// DeleteMenuItemInput carries input for ExecuteDeleteMenuItem.
type DeleteMenuItemInput struct {
	Actor Actor
	ID    int64
}

// ExecuteDeleteMenuItem removes the row, then the photo. A photo that cannot be
// removed does not fail the delete.
// POST: row gone; if the row delete fails the photo is untouched
func ExecuteDeleteMenuItem(ctx context.Context, input DeleteMenuItemInput, deps MenuDeps) (menu.Item, error) {
	if input.ID <= 0 {
		return menu.Item{}, fmt.Errorf("menu item %d: %w", input.ID, storage.ErrNotFound)
	}
	item, err := deps.MenuStore.Delete(ctx, input.ID)
	if err != nil {
		return menu.Item{}, err
	}
	removeImage(deps, item.Image)

	slog.Info("menu_event", "event", "menu_item_deleted", "item_id", item.ID, "name", item.Name)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeMenuItem,
		Action:      activity.ActionDelete,
		Description: "Deleted menu item: " + item.Name,
		EntityType:  activity.TypeMenuItem,
		EntityID:    item.ID,
	})
	return item, nil
}

// UpdateStatusInput carries a status or featured toggle from the list pages.
type UpdateStatusInput struct {
	Actor    Actor
	Target   string // menu.StatusTarget value
	ID       int64
	Status   string
	Featured *bool // set when toggling is_featured instead of status
}

// ExecuteUpdateStatus toggles status on a menu item or category, or is_featured on a menu item.
// PRE: Target parses as a menu.StatusTarget
// POST: exactly one column of one row changes
func ExecuteUpdateStatus(ctx context.Context, input UpdateStatusInput, deps MenuDeps) error {
	target, err := menu.ParseStatusTarget(input.Target)
	if err != nil {
		return err
	}
	if input.ID <= 0 {
		return fmt.Errorf("%s %d: %w", target, input.ID, storage.ErrNotFound)
	}

	var description string
	switch {
	case input.Featured != nil:
		if !target.SupportsFeatured() {
			return menu.ErrFeaturedNotAllowed
		}
		if err := deps.MenuStore.SetFeatured(ctx, input.ID, *input.Featured); err != nil {
			return err
		}
		description = fmt.Sprintf("Set menu item #%d featured to %t", input.ID, *input.Featured)
	case !menu.ValidStatus(input.Status):
		return menu.ErrInvalidStatus
	case target == menu.TargetCategory:
		if err := deps.MenuStore.SetCategoryStatus(ctx, input.ID, input.Status); err != nil {
			return err
		}
		description = fmt.Sprintf("Changed category #%d status to %s", input.ID, input.Status)
	default:
		if err := deps.MenuStore.SetStatus(ctx, input.ID, input.Status); err != nil {
			return err
		}
		description = fmt.Sprintf("Changed menu item #%d status to %s", input.ID, input.Status)
	}

	slog.Info("menu_event", "event", "status_updated", "target", string(target), "id", input.ID)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        string(target),
		Action:      activity.ActionStatus,
		Description: description,
		EntityType:  string(target),
		EntityID:    input.ID,
	})
	return nil
}
