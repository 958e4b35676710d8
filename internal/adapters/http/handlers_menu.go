package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/adapters/storage"
	"backoffice/internal/application/listutil"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/application/projections"
	"backoffice/internal/domain/menu"
)

// maxMenuBody bounds a menu form post: the largest photo plus room for the fields.
const maxMenuBody = menu.MaxImageBytes + 1<<20

// menuItemForm mirrors the add/edit form so a rejected post re-renders as typed.
type menuItemForm struct {
	ID          int64
	Name        string `label:"Name" validate:"required,max=100"`
	Description string `label:"Description" validate:"max=1000"`
	Price       string `label:"Price" validate:"required"`
	CategoryID  int64  `label:"Category" validate:"gt=0"`
	IsAvailable bool
	IsFeatured  bool
	Status      string `label:"Status" validate:"omitempty,oneof=active inactive"`
	Image       string // current photo on edit
}

func menuDeps() orchestrators.MenuDeps {
	deps := orchestrators.MenuDeps{
		MenuStore: stores.MenuStore,
		Activity:  orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow},
		Now:       timeNow,
	}
	if imageStore != nil {
		deps.Images = imageStore
	}
	return deps
}

// handleMenuList renders GET /admin/menu
func handleMenuList(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), projections.MenuFilterKeys...)
	result, err := projections.QueryListMenu(r.Context(), projections.ListMenuQuery{Params: params}, projections.ListMenuDeps{
		MenuStore: stores.MenuStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "menu_list.html", map[string]any{
		"Title":  "Menu Items",
		"Result": result,
	})
}

// renderMenuForm shows the add or edit form with any validation errors.
func renderMenuForm(w http.ResponseWriter, r *http.Request, status int, form menuItemForm, errs []string) {
	categories, err := stores.MenuStore.ListCategories(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	title, action := "Add Menu Item", "/admin/menu/new"
	if form.ID > 0 {
		title, action = "Edit Menu Item", fmt.Sprintf("/admin/menu/edit?id=%d", form.ID)
	}
	renderStatus(w, r, status, "menu_form.html", map[string]any{
		"Title":      title,
		"Action":     action,
		"Form":       form,
		"Categories": categories,
		"Errors":     errs,
	})
}

// handleMenuNewForm renders GET /admin/menu/new
func handleMenuNewForm(w http.ResponseWriter, r *http.Request) {
	renderMenuForm(w, r, http.StatusOK, menuItemForm{IsAvailable: true}, nil)
}

// handleMenuEditForm renders GET /admin/menu/edit?id=
func handleMenuEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}
	item, err := stores.MenuStore.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderMenuForm(w, r, http.StatusOK, menuItemForm{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		CategoryID:  item.CategoryID,
		IsAvailable: item.IsAvailable,
		IsFeatured:  item.IsFeatured,
		Status:      item.Status,
		Image:       item.Image,
	}, nil)
}

// readMenuForm parses a multipart menu post. The returned upload is nil when no
// file was chosen; the caller closes the file.
func readMenuForm(w http.ResponseWriter, r *http.Request) (menuItemForm, *orchestrators.ImageUpload, multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMenuBody)
	if err := r.ParseMultipartForm(maxMenuBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return menuItemForm{}, nil, nil, menu.ErrImageTooLarge
		}
		return menuItemForm{}, nil, nil, err
	}
	categoryID, _ := parseID(r.FormValue("category_id"))
	form := menuItemForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		CategoryID:  categoryID,
		IsAvailable: isChecked(r, "is_available"),
		IsFeatured:  isChecked(r, "is_featured"),
		Status:      r.FormValue("status"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, nil, nil, nil
	}
	if err != nil {
		return form, nil, nil, err
	}
	if header.Filename == "" {
		file.Close()
		return form, nil, nil, nil
	}
	return form, &orchestrators.ImageUpload{Filename: header.Filename, Size: header.Size, Body: file}, file, nil
}

func (f menuItemForm) input(r *http.Request, image *orchestrators.ImageUpload) orchestrators.MenuItemInput {
	return orchestrators.MenuItemInput{
		Actor:       actor(r),
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		CategoryID:  f.CategoryID,
		IsAvailable: f.IsAvailable,
		IsFeatured:  f.IsFeatured,
		Status:      f.Status,
		Image:       image,
	}
}

// handleMenuCreate handles POST /admin/menu/new
func handleMenuCreate(w http.ResponseWriter, r *http.Request) {
	form, image, file, err := readMenuForm(w, r)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		renderMenuForm(w, r, http.StatusUnprocessableEntity, form, []string{publicMessage(err)})
		return
	}
	if err := validate.Struct(form); err != nil {
		renderMenuForm(w, r, http.StatusUnprocessableEntity, form, formErrors(err))
		return
	}

	item, err := orchestrators.ExecuteCreateMenuItem(r.Context(), form.input(r, image), menuDeps())
	if err != nil {
		renderMenuForm(w, r, http.StatusUnprocessableEntity, form, []string{publicMessage(err)})
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, "Menu item \""+item.Name+"\" added successfully.", "/admin/menu")
}

// handleMenuUpdate handles POST /admin/menu/edit?id=
func handleMenuUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}
	existing, err := stores.MenuStore.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	form, image, file, err := readMenuForm(w, r)
	if file != nil {
		defer file.Close()
	}
	form.ID, form.Image = id, existing.Image
	if err != nil {
		renderMenuForm(w, r, http.StatusUnprocessableEntity, form, []string{publicMessage(err)})
		return
	}
	if err := validate.Struct(form); err != nil {
		renderMenuForm(w, r, http.StatusUnprocessableEntity, form, formErrors(err))
		return
	}

	item, err := orchestrators.ExecuteUpdateMenuItem(r.Context(), form.input(r, image), menuDeps())
	if err != nil {
		renderMenuForm(w, r, http.StatusUnprocessableEntity, form, []string{publicMessage(err)})
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, "Menu item \""+item.Name+"\" updated successfully.", "/admin/menu")
}

// handleMenuDelete handles GET /admin/menu/delete?id=
func handleMenuDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		redirectWith(w, r, middleware.FlashError, "Invalid menu item.", "/admin/menu")
		return
	}
	item, err := orchestrators.ExecuteDeleteMenuItem(r.Context(), orchestrators.DeleteMenuItemInput{Actor: actor(r), ID: id}, menuDeps())
	if err != nil {
		redirectWith(w, r, middleware.FlashError, "Error deleting menu item: "+publicMessage(err), "/admin/menu")
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, "Menu item \""+item.Name+"\" deleted successfully.", "/admin/menu")
}

// handleUpdateStatus handles POST /admin/update-status (JSON). An unknown
// type answers 500 with "Invalid type" for compatibility with existing pages.
func handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Message: "Invalid request"})
		return
	}
	id, _ := parseID(r.FormValue("id"))
	input := orchestrators.UpdateStatusInput{
		Actor:  actor(r),
		Target: r.FormValue("type"),
		ID:     id,
		Status: r.FormValue("status"),
	}
	if _, ok := r.Form["is_featured"]; ok {
		featured := isChecked(r, "is_featured")
		input.Featured = &featured
	}

	err := orchestrators.ExecuteUpdateStatus(r.Context(), input, menuDeps())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, jsonResponse{Success: true, Message: "Status updated successfully"})
	case errors.Is(err, menu.ErrInvalidTarget):
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Message: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, jsonResponse{Message: "Record not found"})
	case errors.Is(err, menu.ErrInvalidStatus), errors.Is(err, menu.ErrFeaturedNotAllowed):
		writeJSON(w, http.StatusBadRequest, jsonResponse{Message: sentence(err.Error())})
	default:
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Message: publicMessage(err)})
	}
}
