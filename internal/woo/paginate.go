package woo

import "context"

// drainPageSize is the fixed per_page used by full pagination drains.
const drainPageSize = 100

// PageFunc fetches one page of a paginated resource. It returns the page's
// rows and the total page count the server reported, 0 when the pagination
// header was absent.
type PageFunc[T any] func(ctx context.Context, page int) (items []T, totalPages int, err error)

// DrainPages exhaustively fetches every page of a resource, accumulating
// rows in page order. The loop is bounded by the server-reported total-pages
// value; when the header is absent the current page is treated as the last,
// which guards against an infinite loop on upstreams that omit pagination
// metadata. An empty page also terminates the drain.
//
// On a mid-drain error the rows collected so far are returned with the
// error, so callers can degrade to a partial (usually empty) result.
func DrainPages[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var all []T
	page := 1
	for {
		items, reported, err := fetch(ctx, page)
		if err != nil {
			return all, err
		}
		all = append(all, items...)

		last := page
		if reported > 0 {
			last = reported
		}
		if len(items) == 0 || page >= last {
			return all, nil
		}
		page++
	}
}
