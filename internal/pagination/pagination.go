// Package pagination implements the offset-pagination protocol shared by all
// list endpoints: exact count, filter/sort/slice fetch, self-describing
// next/previous continuation links and post-slice item enrichment.
package pagination

import (
	"context"
	"fmt"

	"parkify/internal/query"
)

// Page is the stable wire shape consumed by every list screen.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Source answers a single page request against the backing store. Count sees
// only the descriptor's filter state; Fetch and RankByDistance apply filters,
// then ordering, then the offset/limit slice.
type Source[T any] interface {
	Count(ctx context.Context, d query.Descriptor) (int, error)
	Fetch(ctx context.Context, d query.Descriptor) ([]T, error)
	RankByDistance(ctx context.Context, origin query.Coordinate, d query.Descriptor) ([]T, error)
}

// Enricher fills in optional per-item fields after the page slice is fixed.
// It must not change which items were selected or their order; a failure
// leaves the optional field absent and never fails the page.
type Enricher[T any] func(ctx context.Context, item *T)

// Paginate executes one page request. A failing count or fetch aborts the
// whole request; an empty result set short-circuits before any fetch.
func Paginate[T any](ctx context.Context, d query.Descriptor, src Source[T], basePath string, enrich Enricher[T]) (*Page[T], error) {
	total, err := src.Count(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	if total == 0 {
		return &Page[T]{Results: []T{}}, nil
	}

	var items []T
	if d.Sort == query.SortDistance && d.Origin != nil {
		items, err = src.RankByDistance(ctx, *d.Origin, d)
	} else {
		items, err = src.Fetch(ctx, d)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if items == nil {
		items = []T{}
	}

	if enrich != nil {
		for i := range items {
			enrich(ctx, &items[i])
		}
	}

	page := &Page[T]{Count: total, Results: items}
	if next := d.Offset + d.Limit; next < total {
		page.Next = link(basePath, d, next)
	}
	if prev := d.Offset - d.Limit; prev >= 0 {
		page.Previous = link(basePath, d, prev)
	}
	return page, nil
}

// link re-serializes the full descriptor with an adjusted offset, so paging
// never drops active filters or sort state.
func link(basePath string, d query.Descriptor, offset int) *string {
	d.Offset = offset
	s := basePath + "?" + query.Encode(d).Encode()
	return &s
}
