package outbox

import (
	"errors"
	"time"
)

// Status constants for the job lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Action types handled by the background worker.
const (
	ActionNewsletterCampaign = "newsletter_campaign"
)

// DefaultMaxAttempts applies when an entry is created without a limit.
const DefaultMaxAttempts = 3

// Domain errors
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrTerminal        = errors.New("entry is in a terminal state")
)

// Entry is a unit of deferred work written in the same request that asked for it
// and executed later by the background worker.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ExternalID      string // result reference returned by the executor
	ErrorMessage    string
}

// NewEntry builds a pending entry.
// PRE: id, actionType and payload are non-empty; maxAttempts <= 0 selects DefaultMaxAttempts
// POST: Returns a validated pending entry
func NewEntry(id, actionType, payload string, maxAttempts int, now time.Time) (Entry, error) {
	e := Entry{
		ID:          id,
		ActionType:  actionType,
		Payload:     payload,
		Status:      StatusPending,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks that the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid; MaxAttempts defaulted when unset
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// IsTerminal reports whether the worker will never pick the entry up again.
func (e *Entry) IsTerminal() bool {
	switch e.Status {
	case StatusDone, StatusAbandoned:
		return true
	case StatusFailed:
		return e.Attempts >= e.MaxAttempts
	}
	return false
}

// MarkAttempt records the start of an execution.
// POST: Attempts incremented, LastAttemptedAt is now, Status is retrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess records a completed execution.
// POST: Status is done, ExternalID set, ErrorMessage cleared
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records a failed execution. The entry becomes failed once attempts are exhausted.
// POST: ErrorMessage set; Status is failed when Attempts >= MaxAttempts
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned stops the worker from retrying.
// POST: Status is abandoned
func (e *Entry) MarkAbandoned() error {
	if e.Status == StatusDone {
		return ErrTerminal
	}
	e.Status = StatusAbandoned
	return nil
}

// ReadyAt returns when the entry may next be attempted, using exponential backoff
// of base * 2^(attempts-1) capped at max.
func (e *Entry) ReadyAt(base, max time.Duration) time.Time {
	if e.LastAttemptedAt.IsZero() {
		return e.CreatedAt
	}
	delay := base << (e.Attempts - 1)
	if delay > max || delay <= 0 {
		delay = max
	}
	return e.LastAttemptedAt.Add(delay)
}
