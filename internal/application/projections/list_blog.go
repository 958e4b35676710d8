package projections

import (
	"context"

	"backoffice/internal/adapters/storage/blog"
	"backoffice/internal/application/listutil"
	domainBlog "backoffice/internal/domain/blog"
)

// BlogFilterKeys are the query parameters the blog list understands.
var BlogFilterKeys = []string{"status"}

// ListBlogQuery carries the parsed list request.
type ListBlogQuery struct {
	Params listutil.ListParams
}

// ListBlogDeps holds dependencies for ListBlog.
type ListBlogDeps struct {
	BlogStore BlogStore
}

// ListBlogResult carries one page of posts.
type ListBlogResult struct {
	Posts  []domainBlog.Post
	Page   listutil.PageInfo
	Params listutil.ListParams
}

// QueryListBlog returns one page of blog posts, newest first.
func QueryListBlog(ctx context.Context, query ListBlogQuery, deps ListBlogDeps) (ListBlogResult, error) {
	filter := blog.ListFilter{
		Status: query.Params.Get("status"),
		Search: query.Params.Search,
	}
	posts, page, err := paginate(ctx, query.Params.Page, listutil.PerPageBlog,
		func(ctx context.Context) (int, error) { return deps.BlogStore.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainBlog.Post, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.BlogStore.List(ctx, f)
		})
	if err != nil {
		return ListBlogResult{}, err
	}
	return ListBlogResult{Posts: posts, Page: page, Params: query.Params}, nil
}
