package menu

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field limits.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	MaxImageBytes        = 5 << 20
)

// Status constants shared by menu items and categories.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// AllowedImageExts lists the accepted upload extensions for menu images.
var AllowedImageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Domain errors
var (
	ErrEmptyName          = errors.New("name is required")
	ErrNameTooLong        = errors.New("name cannot exceed 100 characters")
	ErrDescriptionTooLong = errors.New("description cannot exceed 1000 characters")
	ErrInvalidPrice       = errors.New("price must be a number greater than zero")
	ErrInvalidCategory    = errors.New("please select a valid category")
	ErrInvalidStatus      = errors.New("status must be active or inactive")
	ErrImageType          = errors.New("image must be a jpg, jpeg, png, gif or webp file")
	ErrImageTooLarge      = errors.New("image must be 5MB or smaller")
	ErrInvalidTarget      = errors.New("Invalid type")
	ErrFeaturedNotAllowed = errors.New("featured flag only applies to menu items")
)

// Item is a dish on the menu.
type Item struct {
	ID           int64
	Name         string
	Description  string
	Price        decimal.Decimal
	Image        string // stored filename relative to the upload directory, empty if none
	CategoryID   int64
	CategoryName string // populated by joined reads
	IsAvailable  bool
	IsFeatured   bool
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category groups menu items.
type Category struct {
	ID     int64
	Name   string
	Status string
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Item) Validate() error {
	name := strings.TrimSpace(i.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(i.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !i.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if i.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if i.Status != StatusActive && i.Status != StatusInactive {
		return ErrInvalidStatus
	}
	return nil
}

// ParsePrice converts form input into a price.
// POST: Returns ErrInvalidPrice for non-numeric or non-positive input
func ParsePrice(raw string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !p.IsPositive() {
		return decimal.Zero, ErrInvalidPrice
	}
	return p.Round(2), nil
}

// ValidateImage checks an upload's extension and size.
// PRE: filename is the client-supplied name
// POST: Returns nil when the extension is allowed and size <= MaxImageBytes
func ValidateImage(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, a := range AllowedImageExts {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrImageType
	}
	if size > MaxImageBytes {
		return ErrImageTooLarge
	}
	return nil
}

// StatusTarget names an entity whose status may be toggled from the list pages.
type StatusTarget string

// Status toggle targets.
const (
	TargetMenuItem StatusTarget = "menu_item"
	TargetCategory StatusTarget = "category"
)

// ParseStatusTarget maps request input onto the closed set of toggle targets.
func ParseStatusTarget(raw string) (StatusTarget, error) {
	switch StatusTarget(raw) {
	case TargetMenuItem, TargetCategory:
		return StatusTarget(raw), nil
	}
	return "", ErrInvalidTarget
}

// SupportsFeatured reports whether the target carries an is_featured flag.
func (t StatusTarget) SupportsFeatured() bool {
	return t == TargetMenuItem
}

// ValidStatus reports whether s is a valid item or category status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
