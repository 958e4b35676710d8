package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/adapters/storage"
	"backoffice/internal/application/listutil"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/application/projections"
	"backoffice/internal/domain/user"
)

type userForm struct {
	ID       int64
	Name     string `label:"Name" validate:"required,max=100"`
	Email    string `label:"Email" validate:"required,email"`
	Phone    string `label:"Phone" validate:"max=30"`
	Password string `label:"Password" validate:"omitempty,min=8"`
	Role     string `label:"Role" validate:"required,oneof=admin customer driver delivery ambassador"`
	Status   string `label:"Status" validate:"required,oneof=active inactive"`
}

func userDeps() orchestrators.UserDeps {
	return orchestrators.UserDeps{
		UserStore: stores.UserStore,
		Activity:  orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow},
		Now:       timeNow,
	}
}

// handleUsers renders GET /admin/users. With ?toggle_status&id= it flips the
// user's status first and redirects back to the list.
func handleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("toggle_status") {
		toggleUserStatus(w, r, q.Get("id"))
		return
	}

	params := listutil.ParseListParams(q, projections.UserFilterKeys...)
	result, err := projections.QueryListUsers(r.Context(), projections.ListUsersQuery{Params: params}, projections.ListUsersDeps{
		UserStore: stores.UserStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	renderTemplate(w, r, "users_list.html", map[string]any{
		"Title":     "Users",
		"Result":    result,
		"Roles":     user.ValidRoles,
		"Statuses":  user.ValidStatuses,
		"CurrentID": sess.UserID,
	})
}

func toggleUserStatus(w http.ResponseWriter, r *http.Request, rawID string) {
	if !sameOriginNavigation(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	id, ok := parseID(rawID)
	if !ok {
		redirectWith(w, r, middleware.FlashError, "Invalid user.", "/admin/users")
		return
	}
	status, err := orchestrators.ExecuteToggleUserStatus(r.Context(), orchestrators.UserActionInput{Actor: actor(r), ID: id}, userDeps())
	if err != nil {
		redirectWith(w, r, middleware.FlashError, publicMessage(err), "/admin/users")
		return
	}
	if status == user.StatusInactive {
		dropSessions(id)
	}
	redirectWith(w, r, middleware.FlashSuccess, "User status changed to "+status+".", "/admin/users")
}

// dropSessions signs a user out everywhere after they lose access.
func dropSessions(userID int64) {
	if n := sessions.DeleteForUser(userID); n > 0 {
		slog.Info("auth_event", "event", "sessions_revoked", "user_id", userID, "count", n)
	}
}

// handleUsersPost handles POST /admin/users. Forms send _method=DELETE to remove a row.
func handleUsersPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if r.FormValue("_method") != http.MethodDelete {
		http.Error(w, "Unsupported action", http.StatusBadRequest)
		return
	}
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		redirectWith(w, r, middleware.FlashError, "Invalid user.", "/admin/users")
		return
	}
	if err := orchestrators.ExecuteDeleteUser(r.Context(), orchestrators.UserActionInput{Actor: actor(r), ID: id}, userDeps()); err != nil {
		redirectWith(w, r, middleware.FlashError, publicMessage(err), "/admin/users")
		return
	}
	dropSessions(id)
	redirectWith(w, r, middleware.FlashSuccess, "User deleted successfully.", "/admin/users")
}

// userFormPage describes one of the three user forms.
type userFormPage struct {
	Title    string
	Action   string
	Customer bool // role fixed to customer, status fixed to active
}

var (
	newUserPage     = userFormPage{Title: "Add User", Action: "/admin/users/new"}
	newCustomerPage = userFormPage{Title: "Add Customer", Action: "/admin/customers/new", Customer: true}
)

func renderUserForm(w http.ResponseWriter, r *http.Request, status int, page userFormPage, form userForm, errs []string) {
	renderStatus(w, r, status, "user_form.html", map[string]any{
		"Title":    page.Title,
		"Page":     page,
		"Form":     form,
		"Roles":    user.ValidRoles,
		"Statuses": user.ValidStatuses,
		"Errors":   errs,
	})
}

func readUserForm(r *http.Request) userForm {
	return userForm{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
		Status:   r.FormValue("status"),
	}
}

func (f userForm) input(r *http.Request) orchestrators.UserInput {
	return orchestrators.UserInput{
		Actor:    actor(r),
		ID:       f.ID,
		Name:     f.Name,
		Email:    f.Email,
		Phone:    f.Phone,
		Password: f.Password,
		Role:     f.Role,
		Status:   f.Status,
	}
}

// handleUserNewForm renders GET /admin/users/new
func handleUserNewForm(w http.ResponseWriter, r *http.Request) {
	renderUserForm(w, r, http.StatusOK, newUserPage, userForm{Role: user.RoleCustomer, Status: user.StatusActive}, nil)
}

// handleCustomerNewForm renders GET /admin/customers/new
func handleCustomerNewForm(w http.ResponseWriter, r *http.Request) {
	renderUserForm(w, r, http.StatusOK, newCustomerPage, userForm{Role: user.RoleCustomer, Status: user.StatusActive}, nil)
}

// handleUserCreate handles POST /admin/users/new
func handleUserCreate(w http.ResponseWriter, r *http.Request) {
	createUser(w, r, newUserPage, orchestrators.ExecuteCreateUser)
}

// handleCustomerCreate handles POST /admin/customers/new
func handleCustomerCreate(w http.ResponseWriter, r *http.Request) {
	createUser(w, r, newCustomerPage, orchestrators.ExecuteCreateCustomer)
}

type createUserFunc func(ctx context.Context, input orchestrators.UserInput, deps orchestrators.UserDeps) (user.User, error)

func createUser(w http.ResponseWriter, r *http.Request, page userFormPage, create createUserFunc) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	form := readUserForm(r)
	if page.Customer {
		form.Role, form.Status = user.RoleCustomer, user.StatusActive
	}
	if form.Password == "" {
		renderUserForm(w, r, http.StatusUnprocessableEntity, page, form, []string{sentence(user.ErrEmptyPassword.Error())})
		return
	}
	if err := validate.Struct(form); err != nil {
		renderUserForm(w, r, http.StatusUnprocessableEntity, page, form, formErrors(err))
		return
	}

	u, err := create(r.Context(), form.input(r), userDeps())
	if err != nil {
		renderUserForm(w, r, http.StatusUnprocessableEntity, page, form, []string{publicMessage(err)})
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, fmt.Sprintf("%s %q added successfully.", sentence(u.Role), u.Name), "/admin/users")
}

// handleUserEditForm renders GET /admin/users/edit?id=
func handleUserEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	u, err := stores.UserStore.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderUserForm(w, r, http.StatusOK, editUserPage(id), userForm{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Role:   u.Role,
		Status: u.Status,
	}, nil)
}

func editUserPage(id int64) userFormPage {
	return userFormPage{Title: "Edit User", Action: fmt.Sprintf("/admin/users/edit?id=%d", id)}
}

// handleUserUpdate handles POST /admin/users/edit?id=
func handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	form := readUserForm(r)
	form.ID = id
	page := editUserPage(id)
	if err := validate.Struct(form); err != nil {
		renderUserForm(w, r, http.StatusUnprocessableEntity, page, form, formErrors(err))
		return
	}

	u, err := orchestrators.ExecuteUpdateUser(r.Context(), form.input(r), userDeps())
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		renderUserForm(w, r, http.StatusUnprocessableEntity, page, form, []string{publicMessage(err)})
		return
	}
	// Sessions carry the role they were issued with.
	if !u.IsActive() || u.Role != user.RoleAdmin {
		dropSessions(u.ID)
	}
	redirectWith(w, r, middleware.FlashSuccess, fmt.Sprintf("User %q updated successfully.", u.Name), "/admin/users")
}
