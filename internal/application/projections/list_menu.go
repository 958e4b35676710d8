package projections

import (
	"context"
	"strconv"

	"backoffice/internal/adapters/storage/menu"
	"backoffice/internal/application/listutil"
	domainMenu "backoffice/internal/domain/menu"
)

// MenuFilterKeys are the query parameters the menu list understands.
var MenuFilterKeys = []string{"category", "status"}

// ListMenuQuery carries the parsed list request.
type ListMenuQuery struct {
	Params listutil.ListParams
}

// ListMenuDeps holds dependencies for ListMenu.
type ListMenuDeps struct {
	MenuStore MenuStore
}

// ListMenuResult carries one page of menu items plus the category filter options.
type ListMenuResult struct {
	Items      []domainMenu.Item
	Categories []domainMenu.Category
	Page       listutil.PageInfo
	Params     listutil.ListParams
}

// QueryListMenu returns one page of menu items.
// A malformed category id is ignored rather than rejected.
func QueryListMenu(ctx context.Context, query ListMenuQuery, deps ListMenuDeps) (ListMenuResult, error) {
	categoryID, _ := strconv.ParseInt(query.Params.Get("category"), 10, 64)
	filter := menu.ListFilter{
		CategoryID: categoryID,
		Status:     query.Params.Get("status"),
		Search:     query.Params.Search,
	}

	items, page, err := paginate(ctx, query.Params.Page, listutil.PerPageMenu,
		func(ctx context.Context) (int, error) { return deps.MenuStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainMenu.Item, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.MenuStore.List(ctx, f)
		})
	if err != nil {
		return ListMenuResult{}, err
	}
	categories, err := deps.MenuStore.ListCategories(ctx)
	if err != nil {
		return ListMenuResult{}, err
	}
	return ListMenuResult{Items: items, Categories: categories, Page: page, Params: query.Params}, nil
}
