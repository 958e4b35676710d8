package projections

import (
	"context"

	"backoffice/internal/adapters/storage/activity"
	"backoffice/internal/application/listutil"
	domainActivity "backoffice/internal/domain/activity"
)

// ActivityFilterKeys are the query parameters the activity log understands.
var ActivityFilterKeys = []string{"type", "from", "to"}

// ListActivityQuery carries the parsed list request.
type ListActivityQuery struct {
	Params listutil.ListParams
}

// ListActivityDeps holds dependencies for ListActivity.
type ListActivityDeps struct {
	ActivityStore ActivityStore
}

// ListActivityResult carries one page of the activity log.
type ListActivityResult struct {
	Entries []domainActivity.Entry
	Types   []string
	Page    listutil.PageInfo
	Params  listutil.ListParams
}

// QueryListActivity returns one page of the activity log, newest first.
// Dates that are not YYYY-MM-DD are dropped by the store's predicate builder.
func QueryListActivity(ctx context.Context, query ListActivityQuery, deps ListActivityDeps) (ListActivityResult, error) {
	filter := activity.ListFilter{
		Type:   query.Params.Get("type"),
		From:   query.Params.Get("from"),
		To:     query.Params.Get("to"),
		Search: query.Params.Search,
	}
	entries, page, err := paginate(ctx, query.Params.Page, listutil.PerPageActivity,
		func(ctx context.Context) (int, error) { return deps.ActivityStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainActivity.Entry, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.ActivityStore.List(ctx, f)
		})
	if err != nil {
		return ListActivityResult{}, err
	}
	return ListActivityResult{Entries: entries, Types: domainActivity.Types(), Page: page, Params: query.Params}, nil
}
