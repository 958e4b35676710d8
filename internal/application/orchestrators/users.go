package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/user"
)

// UserStoreForOrchestrator defines the store interface needed by user orchestrators.
type UserStoreForOrchestrator interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (int64, error)
	Update(ctx context.Context, u user.User) error
	SetStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// UserDeps holds dependencies for the user orchestrators.
type UserDeps struct {
	UserStore UserStoreForOrchestrator
	Activity  ActivityDeps
	Now       func() time.Time
}

// UserInput carries form input for creating or editing a user.
type UserInput struct {
	Actor    Actor
	ID       int64 // zero on create
	Name     string
	Email    string
	Phone    string
	Password string // required on create, optional on edit
	Role     string
	Status   string
}

// ExecuteCreateUser validates and inserts a user with a bcrypt password hash.
// PRE: Email is not already registered
// POST: Returns the stored user; ErrEmailTaken on duplicate email
func ExecuteCreateUser(ctx context.Context, input UserInput, deps UserDeps) (user.User, error) {
	status := input.Status
	if status == "" {
		status = user.StatusActive
	}
	u := user.User{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      input.Role,
		Status:    status,
		CreatedAt: deps.Now(),
	}
	u.Normalize()
	if err := u.Validate(); err != nil {
		return user.User{}, err
	}
	if err := u.SetPassword(input.Password); err != nil {
		return user.User{}, err
	}

	id, err := deps.UserStore.Create(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	u.ID = id

	slog.Info("user_event", "event", "user_created", "user_id", u.ID, "role", u.Role, "by", input.Actor.UserID)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeUser,
		Action:      activity.ActionCreate,
		Description: fmt.Sprintf("Created %s account: %s", u.Role, u.Name),
		EntityType:  activity.TypeUser,
		EntityID:    u.ID,
	})
	return u, nil
}

// ExecuteCreateCustomer creates a user with the customer role regardless of input.Role.
func ExecuteCreateCustomer(ctx context.Context, input UserInput, deps UserDeps) (user.User, error) {
	input.Role = user.RoleCustomer
	return ExecuteCreateUser(ctx, input, deps)
}

// ExecuteUpdateUser edits a user. An admin cannot deactivate or demote themselves.
// PRE: input.ID names an existing user
// POST: fields replaced; password hash replaced only when Password is non-empty
func ExecuteUpdateUser(ctx context.Context, input UserInput, deps UserDeps) (user.User, error) {
	u, err := deps.UserStore.GetByID(ctx, input.ID)
	if err != nil {
		return user.User{}, err
	}
	if input.Actor.UserID == u.ID && (input.Status != user.StatusActive || input.Role != user.RoleAdmin) {
		return user.User{}, user.ErrSelfAction
	}

	u.Name = input.Name
	u.Email = input.Email
	u.Phone = input.Phone
	u.Role = input.Role
	u.Status = input.Status
	u.Normalize()
	if err := u.Validate(); err != nil {
		return user.User{}, err
	}
	if input.Password != "" {
		if err := u.SetPassword(input.Password); err != nil {
			return user.User{}, err
		}
	}
	if err := deps.UserStore.Update(ctx, u); err != nil {
		return user.User{}, err
	}

	slog.Info("user_event", "event", "user_updated", "user_id", u.ID, "password_changed", input.Password != "")
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeUser,
		Action:      activity.ActionUpdate,
		Description: "Updated user: " + u.Name,
		EntityType:  activity.TypeUser,
		EntityID:    u.ID,
	})
	return u, nil
}

// UserActionInput targets one user from the list page.
type UserActionInput struct {
	Actor Actor
	ID    int64
}

// ExecuteDeleteUser removes a user other than the acting admin.
// POST: ErrSelfAction when the target is the actor; nothing is deleted
func ExecuteDeleteUser(ctx context.Context, input UserActionInput, deps UserDeps) error {
	if err := user.GuardSelf(input.Actor.UserID, input.ID); err != nil {
		return err
	}
	u, err := deps.UserStore.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}
	if err := deps.UserStore.Delete(ctx, u.ID); err != nil {
		return err
	}

	slog.Info("user_event", "event", "user_deleted", "user_id", u.ID, "by", input.Actor.UserID)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeUser,
		Action:      activity.ActionDelete,
		Description: "Deleted user: " + u.Name,
		EntityType:  activity.TypeUser,
		EntityID:    u.ID,
	})
	return nil
}

// ExecuteToggleUserStatus flips a user between active and inactive and returns the new status.
// POST: ErrSelfAction when the target is the actor
func ExecuteToggleUserStatus(ctx context.Context, input UserActionInput, deps UserDeps) (string, error) {
	if err := user.GuardSelf(input.Actor.UserID, input.ID); err != nil {
		return "", err
	}
	u, err := deps.UserStore.GetByID(ctx, input.ID)
	if err != nil {
		return "", err
	}
	status := u.ToggleStatus()
	if err := deps.UserStore.SetStatus(ctx, u.ID, status); err != nil {
		return "", err
	}

	slog.Info("user_event", "event", "user_status_changed", "user_id", u.ID, "status", status)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeUser,
		Action:      activity.ActionStatus,
		Description: fmt.Sprintf("Changed %s status to %s", u.Name, status),
		EntityType:  activity.TypeUser,
		EntityID:    u.ID,
	})
	return status, nil
}
