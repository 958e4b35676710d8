package blog

import (
	"errors"
	"strings"
	"time"
)

// Field limits.
const (
	MaxTitleLength  = 200
	MaxAuthorLength = 100
)

// Status constants
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Domain errors
var (
	ErrEmptyTitle    = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title cannot exceed 200 characters")
	ErrEmptyContent  = errors.New("content is required")
	ErrEmptyAuthor   = errors.New("author is required")
	ErrAuthorTooLong = errors.New("author cannot exceed 100 characters")
	ErrInvalidStatus = errors.New("status must be draft or published")
)

// Post is a blog article. Content is Markdown.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Author    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Post has valid data.
// PRE: Post struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Post) Validate() error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyContent
	}
	author := strings.TrimSpace(p.Author)
	if author == "" {
		return ErrEmptyAuthor
	}
	if len(author) > MaxAuthorLength {
		return ErrAuthorTooLong
	}
	if p.Status != StatusDraft && p.Status != StatusPublished {
		return ErrInvalidStatus
	}
	return nil
}

// IsPublished reports whether the post is visible on the storefront.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// Excerpt returns the first n runes of the content, suffixed with an ellipsis when truncated.
func (p *Post) Excerpt(n int) string {
	r := []rune(strings.TrimSpace(p.Content))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
