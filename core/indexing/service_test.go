package indexing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/indexing/mocks"
	"github.com/goto/labsearch/core/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePublish(t *testing.T) {
	ctx := context.Background()
	registry, err := search.NewRegistry(search.DefaultIndexes...)
	require.NoError(t, err)

	type testCase struct {
		Description string
		Index       string
		Document    indexing.Document
		Setup       func(p *mocks.Publisher)
		ExpectErr   error
	}

	testCases := []testCase{
		{
			Description: "should reject an unregistered index",
			Index:       "runs",
			Document:    indexing.Document{ID: "r-1", Name: "run 1"},
			ExpectErr:   search.UnknownIndexError{Index: "runs", Known: search.DefaultIndexes},
		},
		{
			Description: "should reject an empty id",
			Index:       "projects",
			Document:    indexing.Document{ID: " ", Name: "covid"},
			ExpectErr:   indexing.ErrEmptyID,
		},
		{
			Description: "should reject an empty name",
			Index:       "projects",
			Document:    indexing.Document{ID: "p-1"},
			ExpectErr:   indexing.ErrEmptyName,
		},
		{
			Description: "should publish a normalized document",
			Index:       "samples",
			Document:    indexing.Document{ID: " s-1 ", Name: "swab"},
			Setup: func(p *mocks.Publisher) {
				p.EXPECT().EnqueueIndexDocumentJob(ctx, "samples", indexing.Document{
					ID: "s-1", Name: "swab", Attributes: []search.Attribute{},
				}).Return(nil)
			},
		},
		{
			Description: "should wrap publisher errors",
			Index:       "samples",
			Document:    indexing.Document{ID: "s-1", Name: "swab", Attributes: []search.Attribute{{Key: "lab", Value: "a"}}},
			Setup: func(p *mocks.Publisher) {
				p.EXPECT().EnqueueIndexDocumentJob(ctx, "samples", indexing.Document{
					ID: "s-1", Name: "swab", Attributes: []search.Attribute{{Key: "lab", Value: "a"}},
				}).Return(errQueue)
			},
			ExpectErr: errQueue,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			p := mocks.NewPublisher(t)
			if tc.Setup != nil {
				tc.Setup(p)
			}

			err := indexing.NewService(registry, p, nil).Publish(ctx, tc.Index, tc.Document)

			if tc.ExpectErr == nil {
				assert.NoError(t, err)
				return
			}
			var unknown search.UnknownIndexError
			if errors.As(tc.ExpectErr, &unknown) {
				assert.Equal(t, tc.ExpectErr, err)
				return
			}
			assert.ErrorIs(t, err, tc.ExpectErr)
		})
	}
}

var errQueue = errors.New("queue unavailable")

func TestServiceRemove(t *testing.T) {
	ctx := context.Background()
	registry, err := search.NewRegistry(search.DefaultIndexes...)
	require.NoError(t, err)

	t.Run("should reject an unregistered index", func(t *testing.T) {
		err := indexing.NewService(registry, mocks.NewPublisher(t), nil).Remove(ctx, "runs", "r-1")
		assert.ErrorIs(t, err, search.ErrInvalidRequest)
	})

	t.Run("should reject an empty id", func(t *testing.T) {
		err := indexing.NewService(registry, mocks.NewPublisher(t), nil).Remove(ctx, "projects", "")
		assert.ErrorIs(t, err, indexing.ErrEmptyID)
	})

	t.Run("should publish the deletion", func(t *testing.T) {
		p := mocks.NewPublisher(t)
		p.EXPECT().EnqueueDeleteDocumentJob(ctx, "illumina_runs", "run-7").Return(nil)

		err := indexing.NewService(registry, p, nil).Remove(ctx, "illumina_runs", "run-7")
		assert.NoError(t, err)
	})

	t.Run("should wrap publisher errors", func(t *testing.T) {
		p := mocks.NewPublisher(t)
		p.EXPECT().EnqueueDeleteDocumentJob(ctx, "illumina_runs", "run-7").Return(errQueue)

		err := indexing.NewService(registry, p, nil).Remove(ctx, "illumina_runs", "run-7")
		assert.ErrorIs(t, err, errQueue)
		assert.EqualError(t, err, `remove document "run-7" from "illumina_runs": queue unavailable`)
	})
}
