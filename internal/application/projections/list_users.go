package projections

import (
	"context"

	"backoffice/internal/adapters/storage/users"
	"backoffice/internal/application/listutil"
	domainUser "backoffice/internal/domain/user"
)

// UserFilterKeys are the query parameters the user list understands.
var UserFilterKeys = []string{"role", "status"}

// ListUsersQuery carries the parsed list request.
type ListUsersQuery struct {
	Params listutil.ListParams
}

// ListUsersDeps holds dependencies for ListUsers.
type ListUsersDeps struct {
	UserStore UserStore
}

// ListUsersResult carries one page of users.
type ListUsersResult struct {
	Users  []domainUser.User
	Page   listutil.PageInfo
	Params listutil.ListParams
}

// QueryListUsers returns one page of users filtered by role, status and search text.
func QueryListUsers(ctx context.Context, query ListUsersQuery, deps ListUsersDeps) (ListUsersResult, error) {
	filter := users.ListFilter{
		Role:   query.Params.Get("role"),
		Status: query.Params.Get("status"),
		Search: query.Params.Search,
	}
	list, page, err := paginate(ctx, query.Params.Page, listutil.PerPageUsers,
		func(ctx context.Context) (int, error) { return deps.UserStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainUser.User, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.UserStore.List(ctx, f)
		})
	if err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: list, Page: page, Params: query.Params}, nil
}
