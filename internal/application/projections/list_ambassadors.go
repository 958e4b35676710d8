package projections

import (
	"context"

	"backoffice/internal/adapters/storage/ambassador"
	"backoffice/internal/application/listutil"
	domainAmbassador "backoffice/internal/domain/ambassador"
)

// AmbassadorFilterKeys are the query parameters the application list understands.
var AmbassadorFilterKeys = []string{"status"}

// ListAmbassadorsQuery carries the parsed list request.
type ListAmbassadorsQuery struct {
	Params listutil.ListParams
}

// ListAmbassadorsDeps holds dependencies for ListAmbassadors.
type ListAmbassadorsDeps struct {
	AmbassadorStore AmbassadorStore
}

// ListAmbassadorsResult carries one page of applications.
type ListAmbassadorsResult struct {
	Applications []domainAmbassador.Application
	Pending      int
	Page         listutil.PageInfo
	Params       listutil.ListParams
}

// QueryListAmbassadors returns one page of ambassador applications and the pending total.
func QueryListAmbassadors(ctx context.Context, query ListAmbassadorsQuery, deps ListAmbassadorsDeps) (ListAmbassadorsResult, error) {
	filter := ambassador.ListFilter{
		Status: query.Params.Get("status"),
		Search: query.Params.Search,
	}
	apps, page, err := paginate(ctx, query.Params.Page, listutil.PerPageAmbassadors,
		func(ctx context.Context) (int, error) { return deps.AmbassadorStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainAmbassador.Application, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.AmbassadorStore.List(ctx, f)
		})
	if err != nil {
		return ListAmbassadorsResult{}, err
	}
	pending, err := deps.AmbassadorStore.Count(ctx, ambassador.ListFilter{Status: domainAmbassador.StatusPending})
	if err != nil {
		return ListAmbassadorsResult{}, err
	}
	return ListAmbassadorsResult{Applications: apps, Pending: pending, Page: page, Params: query.Params}, nil
}
