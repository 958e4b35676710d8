package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/adapters/storage"
	"backoffice/internal/application/listutil"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/application/projections"
	"backoffice/internal/domain/blog"
)

type postForm struct {
	ID      int64
	Title   string `label:"Title" validate:"required,max=200"`
	Content string `label:"Content" validate:"required"`
	Author  string `label:"Author" validate:"required,max=100"`
	Status  string `label:"Status" validate:"required,oneof=draft published"`
}

func blogDeps() orchestrators.BlogDeps {
	return orchestrators.BlogDeps{
		BlogStore: stores.BlogStore,
		Activity:  orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow},
		Now:       timeNow,
	}
}

// handleBlogList renders GET /admin/blog
func handleBlogList(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), projections.BlogFilterKeys...)
	result, err := projections.QueryListBlog(r.Context(), projections.ListBlogQuery{Params: params}, projections.ListBlogDeps{
		BlogStore: stores.BlogStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "blog_list.html", map[string]any{
		"Title":  "Blog Posts",
		"Result": result,
	})
}

func renderPostForm(w http.ResponseWriter, r *http.Request, status int, form postForm, errs []string) {
	title, action := "New Blog Post", "/admin/blog/new"
	if form.ID > 0 {
		title, action = "Edit Blog Post", fmt.Sprintf("/admin/blog/edit?id=%d", form.ID)
	}
	renderStatus(w, r, status, "blog_form.html", map[string]any{
		"Title":    title,
		"Action":   action,
		"Form":     form,
		"Statuses": []string{blog.StatusDraft, blog.StatusPublished},
		"Errors":   errs,
	})
}

func readPostForm(r *http.Request) postForm {
	return postForm{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: r.FormValue("content"),
		Author:  strings.TrimSpace(r.FormValue("author")),
		Status:  r.FormValue("status"),
	}
}

func (f postForm) input(r *http.Request) orchestrators.PostInput {
	return orchestrators.PostInput{
		Actor:   actor(r),
		ID:      f.ID,
		Title:   f.Title,
		Content: f.Content,
		Author:  f.Author,
		Status:  f.Status,
	}
}

// handleBlogNewForm renders GET /admin/blog/new
func handleBlogNewForm(w http.ResponseWriter, r *http.Request) {
	form := postForm{Status: blog.StatusDraft}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		form.Author = sess.Name
	}
	renderPostForm(w, r, http.StatusOK, form, nil)
}

// handleBlogCreate handles POST /admin/blog/new
func handleBlogCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	form := readPostForm(r)
	if err := validate.Struct(form); err != nil {
		renderPostForm(w, r, http.StatusUnprocessableEntity, form, formErrors(err))
		return
	}
	post, err := orchestrators.ExecuteCreatePost(r.Context(), form.input(r), blogDeps())
	if err != nil {
		renderPostForm(w, r, http.StatusUnprocessableEntity, form, []string{publicMessage(err)})
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, fmt.Sprintf("Blog post %q created successfully.", post.Title), "/admin/blog")
}

// handleBlogEditForm renders GET /admin/blog/edit?id=
func handleBlogEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}
	post, err := stores.BlogStore.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Blog post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderPostForm(w, r, http.StatusOK, postForm{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Author:  post.Author,
		Status:  post.Status,
	}, nil)
}

// handleBlogUpdate handles POST /admin/blog/edit?id= with a full-row update.
func handleBlogUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	form := readPostForm(r)
	form.ID = id
	if err := validate.Struct(form); err != nil {
		renderPostForm(w, r, http.StatusUnprocessableEntity, form, formErrors(err))
		return
	}
	post, err := orchestrators.ExecuteUpdatePost(r.Context(), form.input(r), blogDeps())
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Blog post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		renderPostForm(w, r, http.StatusUnprocessableEntity, form, []string{publicMessage(err)})
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, fmt.Sprintf("Blog post %q updated successfully.", post.Title), "/admin/blog")
}

// handleBlogDelete handles POST /admin/blog/delete
func handleBlogDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		redirectWith(w, r, middleware.FlashError, "Invalid blog post.", "/admin/blog")
		return
	}
	if err := orchestrators.ExecuteDeletePost(r.Context(), orchestrators.DeletePostInput{Actor: actor(r), ID: id}, blogDeps()); err != nil {
		redirectWith(w, r, middleware.FlashError, "Error deleting blog post: "+publicMessage(err), "/admin/blog")
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, "Blog post deleted successfully.", "/admin/blog")
}
