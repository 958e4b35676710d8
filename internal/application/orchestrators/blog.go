package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/blog"
)

// BlogStoreForOrchestrator defines the store interface needed by blog orchestrators.
type BlogStoreForOrchestrator interface {
	GetByID(ctx context.Context, id int64) (blog.Post, error)
	Create(ctx context.Context, p blog.Post) (int64, error)
	Update(ctx context.Context, p blog.Post) error
	Delete(ctx context.Context, id int64) error
}

// BlogDeps holds dependencies for the blog orchestrators.
type BlogDeps struct {
	BlogStore BlogStoreForOrchestrator
	Activity  ActivityDeps
	Now       func() time.Time
}

// PostInput carries form input for a blog post.
type PostInput struct {
	Actor   Actor
	ID      int64 // zero on create
	Title   string
	Content string
	Author  string
	Status  string
}

func (in PostInput) apply(p *blog.Post) {
	p.Title = strings.TrimSpace(in.Title)
	p.Content = in.Content
	p.Author = strings.TrimSpace(in.Author)
	p.Status = in.Status
}

// ExecuteCreatePost inserts a blog post.
// POST: Returns the stored post
func ExecuteCreatePost(ctx context.Context, input PostInput, deps BlogDeps) (blog.Post, error) {
	now := deps.Now()
	p := blog.Post{CreatedAt: now, UpdatedAt: now}
	input.apply(&p)
	if p.Status == "" {
		p.Status = blog.StatusDraft
	}
	if err := p.Validate(); err != nil {
		return blog.Post{}, err
	}
	id, err := deps.BlogStore.Create(ctx, p)
	if err != nil {
		return blog.Post{}, err
	}
	p.ID = id

	slog.Info("blog_event", "event", "post_created", "post_id", p.ID, "status", p.Status)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeBlog,
		Action:      activity.ActionCreate,
		Description: "Created blog post: " + p.Title,
		EntityType:  activity.TypeBlog,
		EntityID:    p.ID,
	})
	return p, nil
}

// ExecuteUpdatePost replaces every editable field of a post.
// PRE: input.ID names an existing post
// POST: title, content, author, status and updated_at are written together
func ExecuteUpdatePost(ctx context.Context, input PostInput, deps BlogDeps) (blog.Post, error) {
	p, err := deps.BlogStore.GetByID(ctx, input.ID)
	if err != nil {
		return blog.Post{}, err
	}
	input.apply(&p)
	p.UpdatedAt = deps.Now()
	if err := p.Validate(); err != nil {
		return blog.Post{}, err
	}
	if err := deps.BlogStore.Update(ctx, p); err != nil {
		return blog.Post{}, err
	}

	slog.Info("blog_event", "event", "post_updated", "post_id", p.ID, "status", p.Status)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeBlog,
		Action:      activity.ActionUpdate,
		Description: "Updated blog post: " + p.Title,
		EntityType:  activity.TypeBlog,
		EntityID:    p.ID,
	})
	return p, nil
}

// DeletePostInput carries input for ExecuteDeletePost.
type DeletePostInput struct {
	Actor Actor
	ID    int64
}

// ExecuteDeletePost removes a post.
func ExecuteDeletePost(ctx context.Context, input DeletePostInput, deps BlogDeps) error {
	p, err := deps.BlogStore.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}
	if err := deps.BlogStore.Delete(ctx, p.ID); err != nil {
		return err
	}

	slog.Info("blog_event", "event", "post_deleted", "post_id", p.ID)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeBlog,
		Action:      activity.ActionDelete,
		Description: "Deleted blog post: " + p.Title,
		EntityType:  activity.TypeBlog,
		EntityID:    p.ID,
	})
	return nil
}
