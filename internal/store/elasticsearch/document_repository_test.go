package elasticsearch_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("should index the document under its id", func(t *testing.T) {
		esClient, fake := newTestClient(t, respond(http.StatusCreated, `{"result":"created"}`))

		err := esClient.Upsert(ctx, "samples", indexing.Document{
			ID:   "s-1",
			Name: "Nasal swab",
			Attributes: []search.Attribute{
				{Key: "lab", Value: "north"},
				{Key: "lab", Value: "south"},
				{Key: "name", Value: "shadowed"},
			},
		})
		require.NoError(t, err)

		reqs := fake.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodPut, reqs[0].Method)
		assert.Equal(t, "/samples/_doc/s-1", reqs[0].Path)
		assert.Equal(t, "refresh=wait_for", reqs[0].Query)
		assert.JSONEq(t, `{
			"id": "s-1",
			"name": "Nasal swab",
			"attributes": [
				{"key": "lab", "value": "north"},
				{"key": "lab", "value": "south"},
				{"key": "name", "value": "shadowed"}
			],
			"lab": "north"
		}`, string(reqs[0].Body))
	})

	t.Run("should classify rejected writes", func(t *testing.T) {
		esClient, _ := newTestClient(t, respond(http.StatusForbidden,
			`{"error":{"type":"security_exception","reason":"action [indices:data/write/index] is unauthorized"},"status":403}`))

		err := esClient.Upsert(ctx, "samples", indexing.Document{ID: "s-1", Name: "swab"})

		var engErr search.EngineError
		require.True(t, errors.As(err, &engErr))
		assert.Equal(t, search.ErrorKindPermission, engErr.Kind)
		assert.Equal(t, "upsert", engErr.Op)
	})
}

func TestClientDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("should delete the document", func(t *testing.T) {
		esClient, fake := newTestClient(t, respond(http.StatusOK, `{"result":"deleted"}`))

		require.NoError(t, esClient.Delete(ctx, "illumina_runs", "run-7"))

		reqs := fake.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodDelete, reqs[0].Method)
		assert.Equal(t, "/illumina_runs/_doc/run-7", reqs[0].Path)
		assert.Equal(t, "refresh=wait_for", reqs[0].Query)
	})

	t.Run("should ignore a missing document", func(t *testing.T) {
		esClient, _ := newTestClient(t, respond(http.StatusNotFound, `{"result":"not_found"}`))

		assert.NoError(t, esClient.Delete(ctx, "illumina_runs", "run-7"))
	})

	t.Run("should report server errors", func(t *testing.T) {
		esClient, _ := newTestClient(t, respond(http.StatusServiceUnavailable,
			`{"error":{"type":"unavailable_shards_exception","reason":"primary shard is not active"},"status":503}`))

		err := esClient.Delete(ctx, "illumina_runs", "run-7")

		var engErr search.EngineError
		require.True(t, errors.As(err, &engErr))
		assert.Equal(t, search.ErrorKindConnection, engErr.Kind)
	})
}
