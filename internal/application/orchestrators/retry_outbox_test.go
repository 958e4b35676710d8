package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "backoffice/internal/domain/outbox"
)

type stubExecutor struct {
	calls int
	ref   string
	err   error
}

func (s *stubExecutor) Execute(context.Context, string) (string, error) {
	s.calls++
	return s.ref, s.err
}

func pendingEntry(id string, maxAttempts int) domain.Entry {
	e, _ := domain.NewEntry(id, domain.ActionNewsletterCampaign, `{"campaign_id":1}`, maxAttempts, fixedTime.Add(-time.Minute))
	return e
}

func newTestProcessor(store *mockOutboxStore, exec ActionExecutor) *OutboxProcessor {
	p := NewOutboxProcessor(store, map[string]ActionExecutor{domain.ActionNewsletterCampaign: exec})
	p.now = fixedNow
	return p
}

// TestOutboxProcessor_Success tests a successful run marks the entry done.
func TestOutboxProcessor_Success(t *testing.T) {
	store := newMockOutboxStore(pendingEntry("e1", 1))
	exec := &stubExecutor{ref: "track-1"}

	if err := newTestProcessor(store, exec).ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := store.entries["e1"]
	if e.Status != domain.StatusDone || e.ExternalID != "track-1" || e.Attempts != 1 {
		t.Errorf("unexpected entry: %+v", e)
	}
}

// TestOutboxProcessor_SingleAttemptFails tests a one-shot entry fails permanently.
func TestOutboxProcessor_SingleAttemptFails(t *testing.T) {
	store := newMockOutboxStore(pendingEntry("e1", 1))
	exec := &stubExecutor{err: errBoom}
	p := newTestProcessor(store, exec)

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := store.entries["e1"]
	if e.Status != domain.StatusFailed || e.ErrorMessage != "boom" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if err := p.ProcessSingle(context.Background(), "e1"); !errors.Is(err, domain.ErrTerminal) {
		t.Errorf("expected ErrTerminal, got %v", err)
	}
	if exec.calls != 1 {
		t.Errorf("expected 1 call, got %d", exec.calls)
	}
}

// TestOutboxProcessor_Backoff tests a retrying entry waits for its backoff window.
func TestOutboxProcessor_Backoff(t *testing.T) {
	store := newMockOutboxStore(pendingEntry("e1", 3))
	exec := &stubExecutor{err: errBoom}
	p := newTestProcessor(store, exec)
	ctx := context.Background()

	if err := p.ProcessPending(ctx); err != nil {
		t.Fatal(err)
	}
	if store.entries["e1"].Status != domain.StatusRetrying {
		t.Fatalf("expected retrying, got %s", store.entries["e1"].Status)
	}
	// Same instant: still inside the 30s window.
	if err := p.ProcessPending(ctx); err != nil {
		t.Fatal(err)
	}
	if exec.calls != 1 {
		t.Errorf("expected backoff to skip the entry, got %d calls", exec.calls)
	}
	p.now = func() time.Time { return fixedTime.Add(time.Minute) }
	if err := p.ProcessPending(ctx); err != nil {
		t.Fatal(err)
	}
	if exec.calls != 2 || store.entries["e1"].Attempts != 2 {
		t.Errorf("expected second attempt, got %d calls", exec.calls)
	}
}

// TestOutboxProcessor_UnknownAction tests an entry without an executor is failed, not left spinning.
func TestOutboxProcessor_UnknownAction(t *testing.T) {
	e := pendingEntry("e1", 1)
	e.ActionType = "carrier_pigeon"
	store := newMockOutboxStore(e)

	if err := newTestProcessor(store, &stubExecutor{}).ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := store.entries["e1"]; got.Status != domain.StatusFailed || got.ErrorMessage == "" {
		t.Errorf("unexpected entry: %+v", got)
	}
}

// TestOutboxProcessor_AbandonEntry tests abandoning pending and completed entries.
func TestOutboxProcessor_AbandonEntry(t *testing.T) {
	done := pendingEntry("done", 1)
	done.MarkSuccess("x")
	store := newMockOutboxStore(pendingEntry("e1", 3), done)
	p := newTestProcessor(store, &stubExecutor{})

	if err := p.AbandonEntry(context.Background(), "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.entries["e1"].Status != domain.StatusAbandoned {
		t.Errorf("expected abandoned, got %s", store.entries["e1"].Status)
	}
	if err := p.AbandonEntry(context.Background(), "done"); !errors.Is(err, domain.ErrTerminal) {
		t.Errorf("expected ErrTerminal, got %v", err)
	}
}

type jobRecorder struct {
	actions []string
	failed  int
}

func (j *jobRecorder) RecordJob(actionType string, _ time.Time, err error) {
	j.actions = append(j.actions, actionType)
	if err != nil {
		j.failed++
	}
}

// TestOutboxProcessor_Observe tests every executor run is reported to the observer.
func TestOutboxProcessor_Observe(t *testing.T) {
	store := newMockOutboxStore(pendingEntry("e1", 1), pendingEntry("e2", 1))
	p := newTestProcessor(store, &stubExecutor{err: errBoom})
	rec := &jobRecorder{}
	p.Observe(rec)

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.actions) != 2 || rec.failed != 2 {
		t.Errorf("observed %v with %d failures, want 2 failed runs", rec.actions, rec.failed)
	}
	if rec.actions[0] != domain.ActionNewsletterCampaign {
		t.Errorf("action = %q", rec.actions[0])
	}
}
