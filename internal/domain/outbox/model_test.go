package outbox_test

import (
	"errors"
	"testing"
	"time"

	"backoffice/internal/domain/outbox"
)

var fixedNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

// TestNewEntry verifies validation and defaults.
func TestNewEntry(t *testing.T) {
	if _, err := outbox.NewEntry("1", "", "{}", 1, fixedNow); !errors.Is(err, outbox.ErrEmptyActionType) {
		t.Errorf("missing action type = %v", err)
	}
	if _, err := outbox.NewEntry("1", outbox.ActionNewsletterCampaign, "", 1, fixedNow); !errors.Is(err, outbox.ErrEmptyPayload) {
		t.Errorf("missing payload = %v", err)
	}
	e, err := outbox.NewEntry("1", outbox.ActionNewsletterCampaign, `{"campaign_id":1}`, 0, fixedNow)
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if e.Status != outbox.StatusPending || e.MaxAttempts != outbox.DefaultMaxAttempts {
		t.Errorf("status=%q max=%d", e.Status, e.MaxAttempts)
	}
}

// TestEntry_SingleAttemptFailure verifies a one-shot entry fails terminally.
func TestEntry_SingleAttemptFailure(t *testing.T) {
	e, _ := outbox.NewEntry("1", outbox.ActionNewsletterCampaign, "{}", 1, fixedNow)
	e.MarkAttempt(fixedNow)
	e.MarkFailed(errors.New("provider down"))
	if e.Status != outbox.StatusFailed || !e.IsTerminal() {
		t.Errorf("status=%q terminal=%v", e.Status, e.IsTerminal())
	}
	if e.ErrorMessage != "provider down" {
		t.Errorf("ErrorMessage = %q", e.ErrorMessage)
	}
}

// TestEntry_RetryBackoff verifies ReadyAt grows with attempts and respects the cap.
func TestEntry_RetryBackoff(t *testing.T) {
	e, _ := outbox.NewEntry("1", outbox.ActionNewsletterCampaign, "{}", 5, fixedNow)
	if !e.ReadyAt(time.Minute, time.Hour).Equal(fixedNow) {
		t.Error("fresh entry should be ready immediately")
	}
	e.MarkAttempt(fixedNow)
	e.MarkFailed(errors.New("x"))
	if e.Status != outbox.StatusRetrying {
		t.Fatalf("status = %q, want retrying", e.Status)
	}
	if got := e.ReadyAt(time.Minute, time.Hour); !got.Equal(fixedNow.Add(time.Minute)) {
		t.Errorf("after 1 attempt ReadyAt = %v", got)
	}
	e.MarkAttempt(fixedNow)
	e.MarkAttempt(fixedNow)
	if got := e.ReadyAt(time.Minute, time.Hour); !got.Equal(fixedNow.Add(4 * time.Minute)) {
		t.Errorf("after 3 attempts ReadyAt = %v", got)
	}
	if got := e.ReadyAt(time.Hour, 90*time.Minute); !got.Equal(fixedNow.Add(90 * time.Minute)) {
		t.Errorf("capped ReadyAt = %v", got)
	}
}

// TestEntry_Abandon verifies done entries cannot be abandoned.
func TestEntry_Abandon(t *testing.T) {
	e, _ := outbox.NewEntry("1", outbox.ActionNewsletterCampaign, "{}", 1, fixedNow)
	if err := e.MarkAbandoned(); err != nil || e.Status != outbox.StatusAbandoned {
		t.Fatalf("MarkAbandoned = %v status=%q", err, e.Status)
	}
	e.MarkSuccess("ok")
	if err := e.MarkAbandoned(); !errors.Is(err, outbox.ErrTerminal) {
		t.Errorf("abandon done = %v, want ErrTerminal", err)
	}
}
