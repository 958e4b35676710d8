package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/user"
)

// UserStoreForLogin defines the store interface needed by Login.
type UserStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// LoginResult carries the identity placed in the new session.
type LoginResult struct {
	UserID int64
	Name   string
	Email  string
	Role   string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	UserStore UserStoreForLogin
	Activity  ActivityDeps
}

// ErrInvalidCredentials is returned for any unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ExecuteLogin validates credentials and returns the identity for session creation.
// PRE: Email and Password provided
// POST: ErrInvalidCredentials for unknown email or wrong password; user.ErrInactive for disabled accounts
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := deps.UserStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := u.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.IsActive() {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "inactive")
		return LoginResult{}, user.ErrInactive
	}

	slog.Info("auth_event", "event", "login_success", "user_id", u.ID, "role", u.Role)
	actor := Actor{UserID: u.ID, Name: u.Name, IP: input.IP}
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       actor,
		Type:        activity.TypeAuth,
		Action:      activity.ActionLogin,
		Description: u.Name + " signed in",
		EntityType:  activity.TypeUser,
		EntityID:    u.ID,
	})
	return LoginResult{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

// ExecuteLogout records a sign-out.
func ExecuteLogout(ctx context.Context, actor Actor, deps LoginDeps) {
	slog.Info("auth_event", "event", "logout", "user_id", actor.UserID)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       actor,
		Type:        activity.TypeAuth,
		Action:      activity.ActionLogout,
		Description: actor.Name + " signed out",
		EntityType:  activity.TypeUser,
		EntityID:    actor.UserID,
	})
}
