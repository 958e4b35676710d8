package activity

import (
	"errors"
	"strings"
	"time"
)

// Activity types. The set is closed; anything else renders with the fallbacks.
const (
	TypeMenuItem   = "menu_item"
	TypeCategory   = "category"
	TypeUser       = "user"
	TypeOrder      = "order"
	TypeBlog       = "blog"
	TypeAmbassador = "ambassador"
	TypeNewsletter = "newsletter"
	TypeEmail      = "email"
	TypeImage      = "image"
	TypeAuth       = "auth"
	TypeSystem     = "system"
)

// Activity actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionStatus = "status"
	ActionSend   = "send"
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionExport = "export"
	ActionUpload = "upload"
)

// Presentation fallbacks for unknown types.
const (
	DefaultIcon  = "info"
	DefaultColor = "gray"
)

// SystemActor is displayed when an entry has no acting user.
const SystemActor = "System"

// MaxDescriptionLength bounds the stored description.
const MaxDescriptionLength = 500

// Domain errors
var (
	ErrEmptyType        = errors.New("activity type is required")
	ErrEmptyAction      = errors.New("activity action is required")
	ErrEmptyDescription = errors.New("activity description is required")
)

var typeIcons = map[string]string{
	TypeMenuItem:   "utensils",
	TypeCategory:   "folder",
	TypeUser:       "user",
	TypeOrder:      "shopping-bag",
	TypeBlog:       "file-text",
	TypeAmbassador: "award",
	TypeNewsletter: "mail",
	TypeEmail:      "send",
	TypeImage:      "image",
	TypeAuth:       "lock",
	TypeSystem:     "settings",
}

var actionIcons = map[string]string{
	ActionCreate: "plus-circle",
	ActionUpdate: "edit",
	ActionDelete: "trash",
	ActionStatus: "toggle-right",
	ActionLogin:  "log-in",
	ActionLogout: "log-out",
	ActionExport: "download",
	ActionUpload: "upload",
}

var typeColors = map[string]string{
	TypeMenuItem:   "orange",
	TypeCategory:   "amber",
	TypeUser:       "blue",
	TypeOrder:      "green",
	TypeBlog:       "purple",
	TypeAmbassador: "pink",
	TypeNewsletter: "teal",
	TypeEmail:      "indigo",
	TypeImage:      "cyan",
	TypeAuth:       "yellow",
	TypeSystem:     "slate",
}

// Entry is one audit-trail row. Entries are append-only.
type Entry struct {
	ID          int64
	UserID      int64 // 0 when the system acted
	UserName    string
	Type        string
	Action      string
	Description string
	EntityType  string
	EntityID    int64
	IPAddress   string
	CreatedAt   time.Time
}

// Validate checks that the entry carries the required fields.
// PRE: Entry struct is populated
// POST: Returns nil if valid; Description is truncated to MaxDescriptionLength
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(e.Action) == "" {
		return ErrEmptyAction
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > MaxDescriptionLength {
		e.Description = e.Description[:MaxDescriptionLength]
	}
	return nil
}

// ActorName returns the acting user's name, or SystemActor.
func (e Entry) ActorName() string {
	if e.UserID == 0 || e.UserName == "" {
		return SystemActor
	}
	return e.UserName
}

// Icon returns the glyph for this entry.
func (e Entry) Icon() string {
	return IconFor(e.Type, e.Action)
}

// Color returns the color token for this entry.
func (e Entry) Color() string {
	return ColorFor(e.Type)
}

// IconFor maps an activity type and action onto a glyph id.
// Known actions refine known types; unknown types always get DefaultIcon.
func IconFor(activityType, action string) string {
	base, ok := typeIcons[activityType]
	if !ok {
		return DefaultIcon
	}
	if icon, ok := actionIcons[action]; ok {
		return icon
	}
	return base
}

// ColorFor maps an activity type onto a color token.
func ColorFor(activityType string) string {
	if c, ok := typeColors[activityType]; ok {
		return c
	}
	return DefaultColor
}

// Types returns the known activity types in display order.
func Types() []string {
	return []string{
		TypeMenuItem, TypeCategory, TypeUser, TypeOrder, TypeBlog,
		TypeAmbassador, TypeNewsletter, TypeEmail, TypeImage, TypeAuth, TypeSystem,
	}
}
