package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// NoopSender logs sends without delivering them. Used in development when no
// provider key is configured.
type NoopSender struct {
	seq atomic.Int64
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email but does not deliver it.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	if err := req.Validate(); err != nil {
		return SendResult{}, err
	}
	slog.Info("noop_email_send", "to", req.To, "subject", req.Subject)
	return s.result(), nil
}

// SendBatch logs the batch but does not deliver.
func (s *NoopSender) SendBatch(_ context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return results, err
		}
		results = append(results, s.result())
	}
	slog.Info("noop_email_batch", "count", len(reqs))
	return results, nil
}

func (s *NoopSender) result() SendResult {
	return SendResult{MessageID: fmt.Sprintf("noop-%d", s.seq.Add(1)), SentAt: time.Now()}
}

var (
	_ Sender = (*NoopSender)(nil)
	_ Sender = (*ResendSender)(nil)
)
