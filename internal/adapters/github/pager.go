package github

import "context"

// Page is one batch from a cursor paginated collection
type Page[T any] struct {
	Items     []T
	HasNext   bool
	EndCursor string
}

// PageFetch fetches one page; cursor is nil on the first call and the
// previous page's EndCursor afterwards
type PageFetch[T any] func(ctx context.Context, cursor *string) (Page[T], error)

// ForEachPage walks a paginated collection strictly in cursor order,
// invoking visit once per batch. It stops when HasNext is false, when
// maxPages (>0) is reached, or when ctx is cancelled between pages.
// The walk is finite and non restartable.
func ForEachPage[T any](ctx context.Context, maxPages int, fetch PageFetch[T], visit func(items []T) error) error {
	var cursor *string
	for n := 0; maxPages <= 0 || n < maxPages; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		pg, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}
		if visit != nil {
			if err := visit(pg.Items); err != nil {
				return err
			}
		}
		if !pg.HasNext {
			return nil
		}
		c := pg.EndCursor
		cursor = &c
	}
	return nil
}

// CollectPages drains a paginated collection into one slice
func CollectPages[T any](ctx context.Context, maxPages int, fetch PageFetch[T]) ([]T, error) {
	var out []T
	err := ForEachPage(ctx, maxPages, fetch, func(items []T) error {
		out = append(out, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
