package bleve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/labsearch/internal/store/bleve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDocs = []indexing.Document{
	{ID: "s-1", Name: "Nasal swab", Attributes: []search.Attribute{{Key: "lab", Value: "north"}, {Key: "batch", Value: "b2"}}},
	{ID: "s-2", Name: "Throat swab", Attributes: []search.Attribute{{Key: "lab", Value: "south"}, {Key: "batch", Value: "b1"}}},
	{ID: "s-3", Name: "Blood draw", Attributes: []search.Attribute{{Key: "lab", Value: "north"}, {Key: "batch", Value: "b3"}}},
}

func seed(t *testing.T, e *bleve.Engine, index string, docs ...indexing.Document) {
	t.Helper()
	for _, doc := range docs {
		require.NoError(t, e.Upsert(context.Background(), index, doc))
	}
}

func ids(docs []search.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestEngineQuery(t *testing.T) {
	ctx := context.Background()
	e := bleve.New(bleve.Config{}, nil)
	t.Cleanup(func() { e.Close() })
	seed(t, e, "samples", sampleDocs...)

	type testCase struct {
		Description string
		Query       search.IndexQuery
		ExpectedIDs []string
		Total       int
	}

	testCases := []testCase{
		{
			Description: "should match every document for a wildcard",
			Query:       search.IndexQuery{Index: "samples", Text: "*", Page: 1, PerPage: 10},
			ExpectedIDs: []string{"s-1", "s-2", "s-3"},
			Total:       3,
		},
		{
			Description: "should match substrings case-insensitively",
			Query:       search.IndexQuery{Index: "samples", Text: "SWA", Page: 1, PerPage: 10},
			ExpectedIDs: []string{"s-1", "s-2"},
			Total:       2,
		},
		{
			Description: "should require every token to match",
			Query:       search.IndexQuery{Index: "samples", Text: "swab north", Page: 1, PerPage: 10},
			ExpectedIDs: []string{"s-1"},
			Total:       1,
		},
		{
			Description: "should match attribute values",
			Query:       search.IndexQuery{Index: "samples", Text: "south", Page: 1, PerPage: 10},
			ExpectedIDs: []string{"s-2"},
			Total:       1,
		},
		{
			Description: "should return nothing when no document matches",
			Query:       search.IndexQuery{Index: "samples", Text: "plasma", Page: 1, PerPage: 10},
			ExpectedIDs: []string{},
			Total:       0,
		},
		{
			Description: "should page through matches while reporting the full total",
			Query:       search.IndexQuery{Index: "samples", Text: "*", Page: 2, PerPage: 2},
			ExpectedIDs: []string{"s-3"},
			Total:       3,
		},
		{
			Description: "should sort by name descending",
			Query:       search.IndexQuery{Index: "samples", Text: "*", Page: 1, PerPage: 10, SortBy: "name", SortOrder: search.SortDescending},
			ExpectedIDs: []string{"s-2", "s-1", "s-3"},
			Total:       3,
		},
		{
			Description: "should sort by an attribute",
			Query:       search.IndexQuery{Index: "samples", Text: "*", Page: 1, PerPage: 10, SortBy: "batch", SortOrder: search.SortAscending},
			ExpectedIDs: []string{"s-2", "s-1", "s-3"},
			Total:       3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			docs, total, err := e.Query(ctx, tc.Query)
			require.NoError(t, err)

			assert.Equal(t, tc.ExpectedIDs, ids(docs))
			assert.Equal(t, tc.Total, total)
		})
	}

	t.Run("should return the stored document", func(t *testing.T) {
		docs, _, err := e.Query(ctx, search.IndexQuery{Index: "samples", Text: "blood", Page: 1, PerPage: 10})
		require.NoError(t, err)
		require.Len(t, docs, 1)

		assert.Equal(t, search.Document{
			ID:         "s-3",
			Name:       "Blood draw",
			IndexName:  "samples",
			Attributes: []search.Attribute{{Key: "lab", Value: "north"}, {Key: "batch", Value: "b3"}},
		}, docs[0])
	})

	t.Run("should report a missing index", func(t *testing.T) {
		_, _, err := e.Query(ctx, search.IndexQuery{Index: "projects", Text: "*", Page: 1, PerPage: 10})

		var engErr search.EngineError
		require.True(t, errors.As(err, &engErr))
		assert.Equal(t, search.ErrorKindIndexNotFound, engErr.Kind)
		assert.EqualError(t, err, "engine error: search: index 'projects': no such index [projects]")
	})
}

func TestEngineUpsert(t *testing.T) {
	ctx := context.Background()
	e := bleve.New(bleve.Config{}, nil)
	t.Cleanup(func() { e.Close() })

	seed(t, e, "projects", indexing.Document{ID: "p-1", Name: "covid"})
	seed(t, e, "projects", indexing.Document{ID: "p-1", Name: "influenza"})

	docs, total, err := e.Query(ctx, search.IndexQuery{Index: "projects", Text: "*", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "influenza", docs[0].Name)
}

func TestEngineDelete(t *testing.T) {
	ctx := context.Background()
	e := bleve.New(bleve.Config{}, nil)
	t.Cleanup(func() { e.Close() })
	seed(t, e, "samples", sampleDocs...)

	t.Run("should remove the document", func(t *testing.T) {
		require.NoError(t, e.Delete(ctx, "samples", "s-2"))

		docs, total, err := e.Query(ctx, search.IndexQuery{Index: "samples", Text: "*", Page: 1, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"s-1", "s-3"}, ids(docs))
	})

	t.Run("should ignore a missing document", func(t *testing.T) {
		assert.NoError(t, e.Delete(ctx, "samples", "s-404"))
	})

	t.Run("should ignore a missing index", func(t *testing.T) {
		assert.NoError(t, e.Delete(ctx, "illumina_runs", "run-1"))

		exists, err := e.IndexExists(ctx, "illumina_runs")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestEngineMigrate(t *testing.T) {
	ctx := context.Background()
	e := bleve.New(bleve.Config{Path: t.TempDir()}, nil)
	t.Cleanup(func() { e.Close() })

	require.NoError(t, e.Migrate(ctx, search.DefaultIndexes...))
	for _, name := range search.DefaultIndexes {
		exists, err := e.IndexExists(ctx, name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	require.NoError(t, e.DropIndex(ctx, "projects"))
	exists, err := e.IndexExists(ctx, "projects")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEngineReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := bleve.New(bleve.Config{Path: dir}, nil)
	seed(t, first, "samples", sampleDocs...)
	require.NoError(t, first.Close())

	second := bleve.New(bleve.Config{Path: dir}, nil)
	t.Cleanup(func() { second.Close() })

	docs, total, err := second.Query(ctx, search.IndexQuery{Index: "samples", Text: "swab", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"s-1", "s-2"}, ids(docs))
	assert.Equal(t, "bleve ("+dir+")", second.Info())
}
