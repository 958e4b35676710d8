package projections

import (
	"context"

	"backoffice/internal/adapters/storage/orders"
	"backoffice/internal/application/listutil"
	domainOrder "backoffice/internal/domain/order"
)

// OrderFilterKeys are the query parameters the order list understands.
var OrderFilterKeys = []string{"status"}

// ListOrdersQuery carries the parsed list request.
type ListOrdersQuery struct {
	Params listutil.ListParams
}

// ListOrdersDeps holds dependencies for ListOrders.
type ListOrdersDeps struct {
	OrderStore OrderStore
}

// ListOrdersResult carries one page of orders without their line items.
type ListOrdersResult struct {
	Orders []domainOrder.Order
	Page   listutil.PageInfo
	Params listutil.ListParams
}

// QueryListOrders returns one page of orders, newest first.
func QueryListOrders(ctx context.Context, query ListOrdersQuery, deps ListOrdersDeps) (ListOrdersResult, error) {
	filter := orders.ListFilter{
		Status: query.Params.Get("status"),
		Search: query.Params.Search,
	}
	list, page, err := paginate(ctx, query.Params.Page, listutil.PerPageOrders,
		func(ctx context.Context) (int, error) { return deps.OrderStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainOrder.Order, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.OrderStore.List(ctx, f)
		})
	if err != nil {
		return ListOrdersResult{}, err
	}
	return ListOrdersResult{Orders: list, Page: page, Params: query.Params}, nil
}
