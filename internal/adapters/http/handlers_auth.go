package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/domain/user"
)

type loginForm struct {
	Email    string `label:"Email" validate:"required,email"`
	Password string `label:"Password" validate:"required"`
}

// handleLoginPage renders the sign-in form, or sends a signed-in admin home.
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok && sess.IsAdmin() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{"Title": "Sign in"})
}

// handleLogin handles POST /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	form := loginForm{Email: strings.TrimSpace(r.FormValue("email")), Password: r.FormValue("password")}
	if err := validate.Struct(form); err != nil {
		renderStatus(w, r, http.StatusUnprocessableEntity, "login.html", map[string]any{
			"Title":  "Sign in",
			"Email":  form.Email,
			"Errors": formErrors(err),
		})
		return
	}

	deps := orchestrators.LoginDeps{
		UserStore: stores.UserStore,
		Activity:  orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow},
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    form.Email,
		Password: form.Password,
		IP:       middleware.ClientIP(r),
	}, deps)
	if err == nil && result.Role != user.RoleAdmin {
		slog.Info("auth_event", "event", "login_refused", "user_id", result.UserID, "role", result.Role)
		err = orchestrators.ErrInvalidCredentials
	}
	if err != nil {
		msg := orchestrators.ErrInvalidCredentials.Error()
		if errors.Is(err, user.ErrInactive) {
			msg = user.ErrInactive.Error()
		}
		renderStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Title":  "Sign in",
			"Email":  form.Email,
			"Errors": []string{sentence(msg)},
		})
		return
	}

	token, err := sessions.Create(result.UserID, result.Email, result.Name, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	redirectWith(w, r, middleware.FlashSuccess, "Welcome back, "+result.Name+"!", "/admin")
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		orchestrators.ExecuteLogout(r.Context(), actor(r), orchestrators.LoginDeps{
			UserStore: stores.UserStore,
			Activity:  orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow},
		})
		slog.Debug("auth_event", "event", "session_closed", "user_id", sess.UserID)
	}
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	redirectWith(w, r, middleware.FlashSuccess, "You have been signed out.", "/login")
}
