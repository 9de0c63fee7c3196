package pagination

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"parkify/internal/query"
)

type fakeSource struct {
	total       int
	items       []string
	countErr    error
	fetchErr    error
	fetchCalls  int
	rankCalls   int
	lastFetched query.Descriptor
}

func (f *fakeSource) Count(_ context.Context, _ query.Descriptor) (int, error) {
	return f.total, f.countErr
}

func (f *fakeSource) Fetch(_ context.Context, d query.Descriptor) ([]string, error) {
	f.fetchCalls++
	f.lastFetched = d
	return f.items, f.fetchErr
}

func (f *fakeSource) RankByDistance(_ context.Context, _ query.Coordinate, d query.Descriptor) ([]string, error) {
	f.rankCalls++
	f.lastFetched = d
	return f.items, f.fetchErr
}

func TestPaginateEmpty(t *testing.T) {
	src := &fakeSource{total: 0}
	page, err := Paginate[string](context.Background(), query.Descriptor{Limit: 5}, src, "/things", nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, page.Count)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.Equal(t, 0, src.fetchCalls, "empty result set must not fetch")
}

func TestPaginateLinks(t *testing.T) {
	d := query.Descriptor{Offset: 5, Limit: 5, Sort: query.SortPrice, Search: "riverside"}
	src := &fakeSource{total: 12, items: []string{"a", "b", "c", "d", "e"}}

	page, err := Paginate[string](context.Background(), d, src, "/things", nil)
	assert.NoError(t, err)
	assert.Equal(t, 12, page.Count)
	assert.Len(t, page.Results, 5)

	if assert.NotNil(t, page.Next) {
		assert.True(t, strings.HasPrefix(*page.Next, "/things?"))
		params, perr := url.ParseQuery(strings.TrimPrefix(*page.Next, "/things?"))
		assert.NoError(t, perr)
		assert.Equal(t, "10", params.Get("offset"))
		assert.Equal(t, "5", params.Get("limit"))
		assert.Equal(t, "riverside", params.Get("search"), "links carry filter state")
	}
	if assert.NotNil(t, page.Previous) {
		params, perr := url.ParseQuery(strings.TrimPrefix(*page.Previous, "/things?"))
		assert.NoError(t, perr)
		assert.Equal(t, "0", params.Get("offset"))
	}
}

func TestPaginateBoundaries(t *testing.T) {
	t.Run("first page has no previous", func(t *testing.T) {
		src := &fakeSource{total: 12, items: []string{"a"}}
		page, err := Paginate[string](context.Background(), query.Descriptor{Limit: 5}, src, "/things", nil)
		assert.NoError(t, err)
		assert.Nil(t, page.Previous)
		assert.NotNil(t, page.Next)
	})

	t.Run("last page has no next", func(t *testing.T) {
		src := &fakeSource{total: 12, items: []string{"a", "b"}}
		page, err := Paginate[string](context.Background(), query.Descriptor{Offset: 10, Limit: 5}, src, "/things", nil)
		assert.NoError(t, err)
		assert.Nil(t, page.Next)
		assert.NotNil(t, page.Previous)
	})

	t.Run("exact fit has no next", func(t *testing.T) {
		src := &fakeSource{total: 10, items: []string{"a"}}
		page, err := Paginate[string](context.Background(), query.Descriptor{Offset: 5, Limit: 5}, src, "/things", nil)
		assert.NoError(t, err)
		assert.Nil(t, page.Next)
	})
}

func TestPaginateDistanceRouting(t *testing.T) {
	origin := &query.Coordinate{Latitude: 51.5, Longitude: -0.1}

	t.Run("distance sort with origin ranks", func(t *testing.T) {
		src := &fakeSource{total: 3, items: []string{"a"}}
		d := query.Descriptor{Limit: 5, Sort: query.SortDistance, Origin: origin}
		_, err := Paginate[string](context.Background(), d, src, "/things", nil)
		assert.NoError(t, err)
		assert.Equal(t, 1, src.rankCalls)
		assert.Equal(t, 0, src.fetchCalls)
	})

	t.Run("other sorts fetch", func(t *testing.T) {
		src := &fakeSource{total: 3, items: []string{"a"}}
		d := query.Descriptor{Limit: 5, Sort: query.SortPrice, Origin: origin}
		_, err := Paginate[string](context.Background(), d, src, "/things", nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, src.rankCalls)
		assert.Equal(t, 1, src.fetchCalls)
	})
}

func TestPaginateEnrichment(t *testing.T) {
	src := &fakeSource{total: 2, items: []string{"a", "b"}}
	enrich := func(_ context.Context, item *string) {
		*item = strings.ToUpper(*item)
	}

	page, err := Paginate[string](context.Background(), query.Descriptor{Limit: 5}, src, "/things", enrich)
	assert.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, page.Results)
}

func TestPaginateErrors(t *testing.T) {
	t.Run("count error aborts", func(t *testing.T) {
		src := &fakeSource{countErr: errors.New("boom")}
		_, err := Paginate[string](context.Background(), query.Descriptor{Limit: 5}, src, "/things", nil)
		assert.ErrorContains(t, err, "count")
		assert.Equal(t, 0, src.fetchCalls)
	})

	t.Run("fetch error aborts", func(t *testing.T) {
		src := &fakeSource{total: 3, fetchErr: errors.New("boom")}
		_, err := Paginate[string](context.Background(), query.Descriptor{Limit: 5}, src, "/things", nil)
		assert.ErrorContains(t, err, "fetch")
	})

	t.Run("nil fetch result becomes empty slice", func(t *testing.T) {
		src := &fakeSource{total: 3, items: nil}
		page, err := Paginate[string](context.Background(), query.Descriptor{Offset: 0, Limit: 5}, src, "/things", nil)
		assert.NoError(t, err)
		assert.NotNil(t, page.Results)
	})
}
