package middleware

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

func init() {
	gob.Register(FlashMessage{})
}

// Flash message types, used as CSS modifiers by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const flashSessionName = "backoffice_flash"

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Type    string
	Message string
}

// Flashes queues and drains flash messages in a signed cookie.
type Flashes struct {
	store sessions.Store
}

// NewFlashes creates a flash queue signed with key.
// PRE: key is 32 or 64 bytes
func NewFlashes(key []byte, secure bool) *Flashes {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store}
}

// Add queues a message. It must run before the response header is written.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, kind, message string) {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil {
		// A tampered or stale cookie decodes to a fresh session; keep going.
		slog.Debug("flash_event", "event", "cookie_reset", "error", err.Error())
	}
	session.AddFlash(FlashMessage{Type: kind, Message: message})
	if err := session.Save(r, w); err != nil {
		slog.Error("flash_event", "event", "save_failed", "error", err.Error())
	}
}

// Success queues a success message.
func (f *Flashes) Success(w http.ResponseWriter, r *http.Request, message string) {
	f.Add(w, r, FlashSuccess, message)
}

// Error queues an error message.
func (f *Flashes) Error(w http.ResponseWriter, r *http.Request, message string) {
	f.Add(w, r, FlashError, message)
}

// Pop returns and clears the queued messages.
// POST: the cookie is rewritten empty when messages were read
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []FlashMessage {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	messages := make([]FlashMessage, 0, len(raw))
	for _, v := range raw {
		if fm, ok := v.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	if err := session.Save(r, w); err != nil {
		slog.Error("flash_event", "event", "save_failed", "error", err.Error())
	}
	return messages
}
