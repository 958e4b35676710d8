package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"backoffice/internal/adapters/email"
	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/adapters/storage"
	"backoffice/internal/adapters/uploads"
	"backoffice/internal/application/listutil"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/domain/ambassador"
	"backoffice/internal/domain/blog"
	"backoffice/internal/domain/menu"
	"backoffice/internal/domain/newsletter"
	"backoffice/internal/domain/order"
	"backoffice/internal/domain/user"
)

//go:embed templates/*.html
var templateFS embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// jsonResponse is the envelope every JSON endpoint answers with.
type jsonResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	NewCount *int   `json:"new_count,omitempty"`
	Result   any    `json:"result,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// actor identifies the signed-in admin for activity records.
func actor(r *http.Request) orchestrators.Actor {
	a := orchestrators.Actor{IP: middleware.ClientIP(r)}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		a.UserID = sess.UserID
		a.Name = sess.Name
	}
	return a
}

// parseID reads a positive record id. Anything else reports false.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// isChecked reads an HTML checkbox.
func isChecked(r *http.Request, name string) bool {
	switch r.FormValue(name) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// sameOriginNavigation reports whether a GET that changes state was started
// from one of our own pages. gorilla/csrf only checks unsafe methods, so the
// toggle and delete links rely on Sec-Fetch-Site instead. Clients that do not
// send the header are let through.
func sameOriginNavigation(r *http.Request) bool {
	site := r.Header.Get("Sec-Fetch-Site")
	return site == "" || site == "same-origin"
}

// redirectWith queues a flash message and redirects with 303.
func redirectWith(w http.ResponseWriter, r *http.Request, kind, message, to string) {
	if flashes != nil {
		flashes.Add(w, r, kind, message)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// publicErrors are domain failures whose text is safe to show the admin.
var publicErrors = []error{
	menu.ErrEmptyName, menu.ErrNameTooLong, menu.ErrDescriptionTooLong, menu.ErrInvalidPrice,
	menu.ErrInvalidCategory, menu.ErrInvalidStatus, menu.ErrImageType, menu.ErrImageTooLarge,
	menu.ErrInvalidTarget, menu.ErrFeaturedNotAllowed,
	user.ErrEmptyName, user.ErrNameTooLong, user.ErrEmptyEmail, user.ErrInvalidEmail,
	user.ErrPhoneTooLong, user.ErrInvalidRole, user.ErrInvalidStatus, user.ErrEmptyPassword,
	user.ErrPasswordTooShort, user.ErrWrongPassword, user.ErrEmailTaken, user.ErrSelfAction,
	user.ErrInactive,
	blog.ErrEmptyTitle, blog.ErrTitleTooLong, blog.ErrEmptyContent, blog.ErrEmptyAuthor,
	blog.ErrAuthorTooLong, blog.ErrInvalidStatus,
	ambassador.ErrInvalidDecision, ambassador.ErrAlreadyDecided,
	newsletter.ErrEmptySubject, newsletter.ErrSubjectTooLong, newsletter.ErrEmptyContent,
	newsletter.ErrNotDraft, newsletter.ErrNotSending, newsletter.ErrNoRecipients,
	newsletter.ErrAlreadyUnsubscribe,
	order.ErrInvalidDocument, order.ErrNoItems,
	orchestrators.ErrEmailUnavailable, orchestrators.ErrSendFailed, orchestrators.ErrInvalidRecipient,
	orchestrators.ErrNotificationNotFound, orchestrators.ErrSubscriberNotFound,
	orchestrators.ErrInvalidCredentials,
	uploads.ErrAssetExists, uploads.ErrAssetType, uploads.ErrAssetNotFound, uploads.ErrInvalidName,
	email.ErrNoRecipients,
	storage.ErrNotFound,
}

// genericMessage is shown for failures that must not leak details.
const genericMessage = "Something went wrong. Please try again."

// publicMessage returns the text shown to the admin for err. Known domain
// errors keep their own text; anything else is logged and replaced.
func publicMessage(err error) string {
	for _, known := range publicErrors {
		if errors.Is(err, known) {
			return sentence(known.Error())
		}
	}
	slog.Error("internal_error", "error", err.Error())
	return genericMessage
}

// sentence upper-cases the first letter of s.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// validate binds struct tags on form structs; domain Validate methods cover the rest.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// formErrors turns a validation failure into messages for the form page.
func formErrors(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{publicMessage(err)}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required", "gt":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return msgs
}

// formatMoney renders an amount with the configured currency prefix.
func formatMoney(d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderStatus(w, r, http.StatusOK, templateName, data)
}

// renderStatus renders templateName inside the layout. The page is buffered so a
// template failure never leaves half a page behind.
func renderStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())

	// Flashes are drained before any byte is written so the cleared cookie is sent.
	var messages []middleware.FlashMessage
	if flashes != nil {
		messages = flashes.Pop(w, r)
	}

	funcMap := template.FuncMap{
		"isLoggedIn":   func() bool { return loggedIn },
		"currentName":  func() string { return sess.Name },
		"currentEmail": func() string { return sess.Email },
		"csrfToken":    func() string { return csrf.Token(r) },
		"csrfField":    func() template.HTML { return csrf.TemplateField(r) },
		"flashes":      func() []middleware.FlashMessage { return messages },
		"list":         func(items ...string) []string { return items },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
		"money": formatMoney,
		"imageURL": func(name string) string {
			if imageStore == nil {
				return ""
			}
			return imageStore.URL(name)
		},
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"fmtDate": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("Jan 2, 2006")
		},
		"pageQuery": func(p listutil.ListParams, page int) template.URL {
			return template.URL(p.Query(page))
		},
		"fileSize": func(n int64) string {
			switch {
			case n >= 1<<20:
				return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
			case n >= 1<<10:
				return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
			}
			return fmt.Sprintf("%d B", n)
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, fmt.Errorf("parse %s: %w", templateName, err))
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", templateName, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("render_write_failed", "template", templateName, "error", err.Error())
	}
}
