package projections

import (
	"context"

	domainOutbox "backoffice/internal/domain/outbox"
)

// OutboxViewLimit bounds each outbox section.
const OutboxViewLimit = 50

// ListOutboxDeps holds dependencies for ListOutbox.
type ListOutboxDeps struct {
	OutboxStore OutboxStore
}

// ListOutboxResult carries recent entries and the failed ones an admin may abandon.
type ListOutboxResult struct {
	Recent []domainOutbox.Entry
	Failed []domainOutbox.Entry
}

// QueryListOutbox returns recent outbox entries and failed campaign sends.
func QueryListOutbox(ctx context.Context, deps ListOutboxDeps) (ListOutboxResult, error) {
	recent, err := deps.OutboxStore.ListRecent(ctx, OutboxViewLimit)
	if err != nil {
		return ListOutboxResult{}, err
	}
	failed, err := deps.OutboxStore.ListByActionType(ctx, domainOutbox.ActionNewsletterCampaign, domainOutbox.StatusFailed, OutboxViewLimit)
	if err != nil {
		return ListOutboxResult{}, err
	}
	return ListOutboxResult{Recent: recent, Failed: failed}, nil
}
