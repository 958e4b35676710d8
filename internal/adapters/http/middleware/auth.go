package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	domainUser "backoffice/internal/domain/user"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionTTL bounds how long a login stays valid.
const SessionTTL = 12 * time.Hour

// SecureCookies marks the session cookie Secure. Set from config at startup.
var SecureCookies bool

// Session is the authenticated identity carried through a request.
type Session struct {
	UserID    int64
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.Role == domainUser.RoleAdmin
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores a new session and returns the token.
// PRE: userID > 0, role is non-empty
// POST: Session is stored, token is returned
func (ss *SessionStore) Create(userID int64, email, name, role string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: ss.now(),
	}
	return token, nil
}

// Get retrieves a session by token.
// POST: Returns the session if present and not expired; expired sessions are dropped
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(session.CreatedAt) > SessionTTL {
		ss.Delete(token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// DeleteForUser ends every session of a user, e.g. after deactivation.
func (ss *SessionStore) DeleteForUser(userID int64) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for token, s := range ss.sessions {
		if s.UserID == userID {
			delete(ss.sessions, token)
			n++
		}
	}
	return n
}

const sessionCookieName = "backoffice_session"

// Auth returns middleware that extracts the session from the cookie and puts it in the context.
// It does NOT block unauthenticated requests; RequireAdmin does that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// guardBody is the JSON error shape returned to AJAX callers.
type guardBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RequireAdmin blocks requests that lack an admin session.
// HTML callers are redirected to /login (no session) or refused with 403 (wrong role).
// JSON callers get 401 or 403 with a {"success":false} body.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSessionFromContext(r.Context())
		switch {
		case ok && session.IsAdmin():
			next.ServeHTTP(w, r)
		case WantsJSON(r) && !ok:
			writeGuardJSON(w, http.StatusUnauthorized, "Unauthorized")
		case WantsJSON(r):
			writeGuardJSON(w, http.StatusForbidden, "Forbidden")
		case !ok:
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		default:
			http.Error(w, "Forbidden", http.StatusForbidden)
		}
	})
}

func writeGuardJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(guardBody{Success: false, Message: message})
}

// jsonPaths are endpoints that only ever answer with JSON.
var jsonPaths = map[string]bool{
	"/admin/update-status":             true,
	"/admin/send-email":                true,
	"/admin/notifications/read":        true,
	"/admin/newsletter/campaigns/send": true,
	"/admin/perf":                      true,
	"/admin/outbox":                    true,
	"/admin/outbox/retry":              true,
	"/admin/outbox/abandon":            true,
}

// WantsJSON reports whether the caller expects a JSON answer.
func WantsJSON(r *http.Request) bool {
	if jsonPaths[r.URL.Path] {
		return true
	}
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionToken returns the raw session cookie value, or "".
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
