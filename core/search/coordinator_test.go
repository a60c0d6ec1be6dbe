package search_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/labsearch/core/search/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) search.Registry {
	t.Helper()
	r, err := search.NewRegistry(search.DefaultIndexes...)
	require.NoError(t, err)
	return r
}

func TestCoordinatorSearchValidation(t *testing.T) {
	type testCase struct {
		Description string
		Request     search.Request
		ExpectErr   error
	}

	testCases := []testCase{
		{
			Description: "should reject an empty index list",
			Request:     search.Request{Indexes: []string{}, Query: "covid", Page: 1, PerPage: 20},
			ExpectErr:   search.InvalidRequestError{Field: "indexes", Reason: "must contain at least 1 entries"},
		},
		{
			Description: "should reject a missing index list",
			Request:     search.Request{Query: "covid", Page: 1, PerPage: 20},
			ExpectErr:   search.InvalidRequestError{Field: "indexes", Reason: "must be specified"},
		},
		{
			Description: "should reject an unknown index and name it",
			Request:     search.Request{Indexes: []string{"projects", "unknown_index"}, Query: "covid", Page: 1, PerPage: 20},
			ExpectErr:   search.UnknownIndexError{Index: "unknown_index", Known: []string{"projects", "samples", "illumina_runs"}},
		},
		{
			Description: "should reject duplicate indexes",
			Request:     search.Request{Indexes: []string{"projects", "projects"}, Query: "covid", Page: 1, PerPage: 20},
			ExpectErr:   search.InvalidRequestError{Field: "indexes", Reason: "must not contain duplicates"},
		},
		{
			Description: "should reject a blank query",
			Request:     search.Request{Indexes: []string{"projects"}, Query: "   ", Page: 1, PerPage: 20},
			ExpectErr:   search.InvalidRequestError{Field: "query", Reason: "must be specified"},
		},
		{
			Description: "should reject page below 1",
			Request:     search.Request{Indexes: []string{"projects"}, Query: "covid", Page: 0, PerPage: 20},
			ExpectErr:   search.InvalidRequestError{Field: "page", Reason: "cannot be less than 1"},
		},
		{
			Description: "should reject a page whose offset overflows",
			Request:     search.Request{Indexes: []string{"projects"}, Query: "covid", Page: math.MaxInt/50 + 1, PerPage: 100},
			ExpectErr:   search.InvalidRequestError{Field: "page", Reason: fmt.Sprintf("cannot be greater than %d", (math.MaxInt-100)/100+1)},
		},
		{
			Description: "should reject per_page above the maximum",
			Request:     search.Request{Indexes: []string{"projects"}, Query: "covid", Page: 1, PerPage: 101},
			ExpectErr:   search.InvalidRequestError{Field: "per_page", Reason: "cannot be greater than 100"},
		},
		{
			Description: "should reject an unsupported sort order",
			Request:     search.Request{Indexes: []string{"projects"}, Query: "covid", Page: 1, PerPage: 20, SortOrder: "sideways"},
			ExpectErr:   search.InvalidRequestError{Field: "sort_order", Reason: `value "sideways" not recognized, only support "asc desc"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			client := mocks.NewIndexQueryClient(t)
			c := search.NewCoordinator(newRegistry(t), client)

			_, err := c.Search(context.Background(), tc.Request)

			assert.Equal(t, tc.ExpectErr, err)
			assert.True(t, errors.Is(err, search.ErrInvalidRequest))
			client.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
		})
	}
}

func TestCoordinatorSearch(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("should page through 150 matches of a single index", func(t *testing.T) {
		client := mocks.NewIndexQueryClient(t)
		client.EXPECT().Query(mock.Anything, search.IndexQuery{
			Index: "projects", Text: "covid", Page: 1, PerPage: 20, SortOrder: search.SortAscending,
		}).Return(documents("projects", 20), 150, nil)

		c := search.NewCoordinator(newRegistry(t), client)
		resp, err := c.Search(ctx, search.Request{Indexes: []string{"projects"}, Query: "covid", Page: 1, PerPage: 20})
		require.NoError(t, err)

		o, ok := resp.Results.Get("projects")
		require.True(t, ok)
		assert.True(t, o.Success)
		assert.Len(t, o.Items, 20)
		assert.Equal(t, 150, o.Total)
		assert.Equal(t, 8, o.TotalPages)
		assert.True(t, o.HasNext)
		assert.False(t, o.HasPrev)
		assert.Equal(t, 150, resp.TotalAcrossIndexes)
		assert.False(t, resp.PartialFailure)
		assert.Equal(t, 100.0, resp.SuccessRate)
	})

	t.Run("should isolate a timed out index from a healthy one", func(t *testing.T) {
		client := mocks.NewIndexQueryClient(t)
		client.EXPECT().Query(mock.Anything, mock.MatchedBy(func(q search.IndexQuery) bool { return q.Index == "projects" })).
			Return(documents("projects", 3), 3, nil)
		client.EXPECT().Query(mock.Anything, mock.MatchedBy(func(q search.IndexQuery) bool { return q.Index == "samples" })).
			RunAndReturn(func(ctx context.Context, q search.IndexQuery) ([]search.Document, int, error) {
				<-ctx.Done()
				return nil, 0, ctx.Err()
			})

		c := search.NewCoordinator(newRegistry(t), client,
			search.WithTimeout(50*time.Millisecond),
			search.WithClock(func() time.Time { return fixed }),
		)
		resp, err := c.Search(ctx, search.Request{Indexes: []string{"projects", "samples"}, Query: "covid", Page: 1, PerPage: 20})
		require.NoError(t, err)

		projects, _ := resp.Results.Get("projects")
		samples, _ := resp.Results.Get("samples")
		assert.True(t, projects.Success)
		assert.Equal(t, 3, projects.Total)
		assert.False(t, samples.Success)
		require.NotNil(t, samples.Error)
		assert.Equal(t, search.ErrorKindTimeout, samples.Error.Kind)
		assert.Equal(t, fixed, samples.Error.Timestamp)
		assert.True(t, resp.PartialFailure)
		assert.Equal(t, 50.0, resp.SuccessRate)
		assert.Equal(t, 3, resp.TotalAcrossIndexes)

		total, _ := resp.Summary.Get("samples")
		assert.Zero(t, total)
	})

	t.Run("should keep results in request order", func(t *testing.T) {
		client := mocks.NewIndexQueryClient(t)
		client.EXPECT().Query(mock.Anything, mock.Anything).
			RunAndReturn(func(ctx context.Context, q search.IndexQuery) ([]search.Document, int, error) {
				return documents(q.Index, 1), 1, nil
			})

		order := []string{"illumina_runs", "projects", "samples"}
		c := search.NewCoordinator(newRegistry(t), client)
		resp, err := c.Search(ctx, search.Request{Indexes: order, Query: "x", Page: 1, PerPage: 5})
		require.NoError(t, err)

		assert.Equal(t, order, resp.Results.Names())
		assert.Equal(t, order, resp.Summary.Names())
		assert.Equal(t, order, resp.IndexesSearched)
	})

	t.Run("should normalize sort fields before querying", func(t *testing.T) {
		client := mocks.NewIndexQueryClient(t)
		client.EXPECT().Query(mock.Anything, search.IndexQuery{
			Index: "samples", Text: "covid", Page: 1, PerPage: 20, SortBy: "name", SortOrder: search.SortDescending,
		}).Return(nil, 0, nil)

		c := search.NewCoordinator(newRegistry(t), client)
		resp, err := c.Search(ctx, search.Request{
			Indexes: []string{"samples"}, Query: "  covid ", Page: 1, PerPage: 20, SortBy: " name", SortOrder: "DESC",
		})
		require.NoError(t, err)
		assert.Equal(t, "covid", resp.Query)
	})

	t.Run("should not mutate the caller's index slice", func(t *testing.T) {
		client := mocks.NewIndexQueryClient(t)
		client.EXPECT().Query(mock.Anything, mock.Anything).Return(nil, 0, nil)

		indexes := []string{"projects", "samples"}
		c := search.NewCoordinator(newRegistry(t), client)
		resp, err := c.Search(ctx, search.Request{Indexes: indexes, Query: "x", Page: 1, PerPage: 20})
		require.NoError(t, err)

		resp.IndexesSearched[0] = "changed"
		assert.Equal(t, []string{"projects", "samples"}, indexes)
	})
}

func TestCoordinatorFailureIsolation(t *testing.T) {
	failures := map[string]error{
		"projects":      search.EngineError{Kind: search.ErrorKindConnection, Err: errors.New("connection refused")},
		"samples":       nil,
		"illumina_runs": search.EngineError{Kind: search.ErrorKindPermission, Err: errors.New("forbidden")},
	}
	orderings := [][]string{
		{"projects", "samples", "illumina_runs"},
		{"samples", "illumina_runs", "projects"},
		{"illumina_runs", "projects", "samples"},
	}

	for _, order := range orderings {
		t.Run(fmt.Sprint(order), func(t *testing.T) {
			client := mocks.NewIndexQueryClient(t)
			client.EXPECT().Query(mock.Anything, mock.Anything).
				RunAndReturn(func(ctx context.Context, q search.IndexQuery) ([]search.Document, int, error) {
					if err := failures[q.Index]; err != nil {
						return nil, 0, err
					}
					return documents(q.Index, 2), 2, nil
				})

			c := search.NewCoordinator(newRegistry(t), client)
			resp, err := c.Search(context.Background(), search.Request{Indexes: order, Query: "x", Page: 1, PerPage: 20})
			require.NoError(t, err)

			samples, _ := resp.Results.Get("samples")
			assert.True(t, samples.Success)
			assert.Equal(t, 2, samples.Total)

			projects, _ := resp.Results.Get("projects")
			require.NotNil(t, projects.Error)
			assert.Equal(t, search.ErrorKindConnection, projects.Error.Kind)

			runs, _ := resp.Results.Get("illumina_runs")
			require.NotNil(t, runs.Error)
			assert.Equal(t, search.ErrorKindPermission, runs.Error.Kind)

			assert.True(t, resp.PartialFailure)
			assert.InDelta(t, 100.0/3, resp.SuccessRate, 0.0001)
		})
	}
}

func TestCoordinatorIdempotence(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	client := mocks.NewIndexQueryClient(t)
	client.EXPECT().Query(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, q search.IndexQuery) ([]search.Document, int, error) {
			if q.Index == "samples" {
				return nil, 0, search.EngineError{Kind: search.ErrorKindIndexNotFound, Index: q.Index}
			}
			return documents(q.Index, 4), 42, nil
		})

	c := search.NewCoordinator(newRegistry(t), client, search.WithClock(func() time.Time { return fixed }))
	req := search.Request{Indexes: []string{"projects", "samples"}, Query: "x", Page: 2, PerPage: 4}

	first, err := c.Search(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), req)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(search.Results{}, search.Summary{}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("responses differ (-first +second):\n%s", diff)
	}
}

func documents(index string, n int) []search.Document {
	docs := make([]search.Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, search.Document{
			ID:        fmt.Sprintf("%s-%d", index, i),
			Name:      fmt.Sprintf("%s document %d", index, i),
			IndexName: index,
			Attributes: []search.Attribute{
				{Key: "lab", Value: "genomics"},
			},
		})
	}
	return docs
}

func TestMaxPage(t *testing.T) {
	for _, perPage := range []int{1, search.DefaultPerPage, search.MaxPerPage} {
		t.Run(fmt.Sprintf("per_page %d", perPage), func(t *testing.T) {
			page := search.MaxPage(perPage)
			q := search.IndexQuery{Page: page, PerPage: perPage}

			assert.GreaterOrEqual(t, q.Offset(), 0)
			assert.LessOrEqual(t, q.Offset(), math.MaxInt-perPage)
		})
	}
}
