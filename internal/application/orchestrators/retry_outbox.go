package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domain "backoffice/internal/domain/outbox"
)

// OutboxStoreForProcessor defines the store interface needed by OutboxProcessor.
type OutboxStoreForProcessor interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
}

// ActionExecutor executes one type of deferred action.
type ActionExecutor interface {
	// Execute runs the action with the given JSON payload and returns a
	// reference to the result (e.g. a tracking ID).
	Execute(ctx context.Context, payload string) (string, error)
}

// JobObserver receives the timing of every executor run.
type JobObserver interface {
	RecordJob(actionType string, started time.Time, err error)
}

// OutboxProcessor runs pending outbox entries through their executors.
type OutboxProcessor struct {
	store     OutboxStoreForProcessor
	executors map[string]ActionExecutor
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
	now       func() time.Time
	observer  JobObserver

	mu sync.Mutex // one pass at a time
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store OutboxStoreForProcessor, executors map[string]ActionExecutor) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		baseDelay: 30 * time.Second,
		maxDelay:  time.Hour,
		batchSize: 10,
		now:       time.Now,
	}
}

// Observe attaches a JobObserver. Passing nil disables observation.
func (p *OutboxProcessor) Observe(o JobObserver) {
	p.observer = o
}

// ProcessPending runs every pending entry whose backoff has elapsed.
// POST: each processed entry is saved with its new status
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}
	for _, entry := range entries {
		if p.now().Before(entry.ReadyAt(p.baseDelay, p.maxDelay)) {
			continue
		}
		if err := p.run(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err.Error())
		}
	}
	return nil
}

// ProcessSingle runs one entry immediately, ignoring backoff (admin retry).
// PRE: entry exists and is not terminal
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	if entry.IsTerminal() {
		return fmt.Errorf("entry %s: %w", entryID, domain.ErrTerminal)
	}
	return p.run(ctx, entry)
}

// run executes one attempt and persists the outcome.
func (p *OutboxProcessor) run(ctx context.Context, entry domain.Entry) error {
	entry.MarkAttempt(p.now())

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkFailed(fmt.Errorf("no executor registered for action type: %s", entry.ActionType))
		return p.store.Save(ctx, entry)
	}

	started := time.Now()
	externalID, err := executor.Execute(ctx, entry.Payload)
	if p.observer != nil {
		p.observer.RecordJob(entry.ActionType, started, err)
	}
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "status", entry.Status, "error", err.Error())
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, entry)
}

// AbandonEntry stops an entry from being retried.
// POST: status abandoned; ErrTerminal if the entry already completed
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	if err := entry.MarkAbandoned(); err != nil {
		return err
	}
	slog.Info("outbox_entry_abandoned", "entry_id", entry.ID, "action_type", entry.ActionType)
	return p.store.Save(ctx, entry)
}

// StartBackgroundWorker periodically processes pending outbox entries until stopCh is closed.
func StartBackgroundWorker(processor *OutboxProcessor, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := processor.ProcessPending(ctx); err != nil {
					slog.Error("outbox_background_process_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("outbox_background_worker_stopped")
				return
			}
		}
	}()
}
