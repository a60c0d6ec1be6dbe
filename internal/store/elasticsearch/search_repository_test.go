package elasticsearch_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/goto/labsearch/core/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
	"took": 3,
	"timed_out": false,
	"hits": {
		"total": {"value": 150, "relation": "eq"},
		"hits": [
			{
				"_index": "samples",
				"_id": "s-1",
				"_source": {
					"id": "s-1",
					"name": "Nasal swab",
					"attributes": [{"key": "lab", "value": "north"}, {"key": "lab", "value": "south"}],
					"lab": "north",
					"batch": "b2"
				}
			},
			{
				"_index": "samples",
				"_id": "s-2",
				"_source": {
					"name": "RNA Seq run",
					"read_count": 1200000,
					"instrument": "NovaSeq"
				}
			}
		]
	}
}`

func TestClientQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("should send a paginated substring query", func(t *testing.T) {
		esClient, fake := newTestClient(t, respond(http.StatusOK, searchResponse))

		_, _, err := esClient.Query(ctx, search.IndexQuery{
			Index: "samples", Text: "RNA seq/2", Page: 3, PerPage: 10,
			SortBy: "name", SortOrder: search.SortDescending,
		})
		require.NoError(t, err)

		reqs := fake.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodPost, reqs[0].Method)
		assert.Equal(t, "/samples/_search", reqs[0].Path)

		body := decodeBody(t, reqs[0].Body)
		assert.Equal(t, map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":  `(*RNA*) AND (*seq\/2*)`,
				"fields": []interface{}{"*"},
			},
		}, body["query"])
		assert.EqualValues(t, 20, body["from"])
		assert.EqualValues(t, 10, body["size"])
		assert.Equal(t, true, body["track_total_hits"])
		assert.Equal(t, []interface{}{
			map[string]interface{}{
				"name.keyword": map[string]interface{}{"order": "desc", "unmapped_type": "keyword"},
			},
		}, body["sort"])
	})

	t.Run("should match everything for a wildcard without sorting", func(t *testing.T) {
		esClient, fake := newTestClient(t, respond(http.StatusOK, searchResponse))

		_, _, err := esClient.Query(ctx, search.IndexQuery{Index: "samples", Text: "*", Page: 1, PerPage: 20})
		require.NoError(t, err)

		body := decodeBody(t, fake.Requests()[0].Body)
		assert.Equal(t, "*", body["query"].(map[string]interface{})["query_string"].(map[string]interface{})["query"])
		assert.NotContains(t, body, "sort")
	})

	t.Run("should map hits to documents", func(t *testing.T) {
		esClient, _ := newTestClient(t, respond(http.StatusOK, searchResponse))

		docs, total, err := esClient.Query(ctx, search.IndexQuery{Index: "samples", Text: "swab", Page: 1, PerPage: 20})
		require.NoError(t, err)

		assert.Equal(t, 150, total)
		assert.Equal(t, []search.Document{
			{
				ID:        "s-1",
				Name:      "Nasal swab",
				IndexName: "samples",
				Attributes: []search.Attribute{
					{Key: "lab", Value: "north"},
					{Key: "lab", Value: "south"},
					{Key: "batch", Value: "b2"},
				},
			},
			{
				ID:        "s-2",
				Name:      "RNA Seq run",
				IndexName: "samples",
				Attributes: []search.Attribute{
					{Key: "instrument", Value: "NovaSeq"},
					{Key: "read_count", Value: "1200000"},
				},
			},
		}, docs)
	})

	t.Run("should return no documents for an empty page", func(t *testing.T) {
		esClient, _ := newTestClient(t, respond(http.StatusOK, `{"hits":{"total":{"value":3,"relation":"eq"},"hits":[]}}`))

		docs, total, err := esClient.Query(ctx, search.IndexQuery{Index: "samples", Text: "swab", Page: 5, PerPage: 20})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, docs)
		assert.NotNil(t, docs)
	})
}

func TestClientQueryErrors(t *testing.T) {
	type testCase struct {
		Description  string
		Status       int
		Body         string
		ExpectedKind search.ErrorKind
		ExpectedCode string
	}

	testCases := []testCase{
		{
			Description:  "should report a missing index",
			Status:       http.StatusNotFound,
			Body:         `{"error":{"type":"index_not_found_exception","reason":"no such index [samples]"},"status":404}`,
			ExpectedKind: search.ErrorKindIndexNotFound,
			ExpectedCode: "index_not_found_exception",
		},
		{
			Description:  "should report missing credentials",
			Status:       http.StatusUnauthorized,
			Body:         `{"error":{"type":"security_exception","reason":"missing authentication credentials"},"status":401}`,
			ExpectedKind: search.ErrorKindPermission,
			ExpectedCode: "security_exception",
		},
		{
			Description:  "should report a forbidden index",
			Status:       http.StatusForbidden,
			Body:         `{"error":{"type":"security_exception","reason":"action [indices:data/read/search] is unauthorized"},"status":403}`,
			ExpectedKind: search.ErrorKindPermission,
			ExpectedCode: "security_exception",
		},
		{
			Description:  "should report a malformed query",
			Status:       http.StatusBadRequest,
			Body:         `{"error":{"type":"search_phase_execution_exception","reason":"all shards failed"},"status":400}`,
			ExpectedKind: search.ErrorKindQuery,
			ExpectedCode: "search_phase_execution_exception",
		},
		{
			Description:  "should report an unavailable cluster",
			Status:       http.StatusServiceUnavailable,
			Body:         `{"error":{"type":"cluster_block_exception","reason":"blocked by: [SERVICE_UNAVAILABLE/1/state not recovered]"},"status":503}`,
			ExpectedKind: search.ErrorKindConnection,
			ExpectedCode: "cluster_block_exception",
		},
		{
			Description:  "should report a gateway timeout",
			Status:       http.StatusGatewayTimeout,
			Body:         `upstream timed out`,
			ExpectedKind: search.ErrorKindTimeout,
		},
		{
			Description:  "should report anything else as unknown",
			Status:       http.StatusInternalServerError,
			Body:         `{"error":{"type":"null_pointer_exception","reason":"boom"},"status":500}`,
			ExpectedKind: search.ErrorKindUnknown,
			ExpectedCode: "null_pointer_exception",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			esClient, _ := newTestClient(t, respond(tc.Status, tc.Body))

			_, _, err := esClient.Query(context.Background(), search.IndexQuery{Index: "samples", Text: "swab", Page: 1, PerPage: 20})

			var engErr search.EngineError
			require.True(t, errors.As(err, &engErr), "got %v", err)
			assert.Equal(t, tc.ExpectedKind, engErr.Kind)
			assert.Equal(t, tc.ExpectedCode, engErr.Code)
			assert.Equal(t, "samples", engErr.Index)
			assert.Equal(t, "search", engErr.Op)
		})
	}

	t.Run("should keep the reason in the message", func(t *testing.T) {
		esClient, _ := newTestClient(t, respond(http.StatusNotFound,
			`{"error":{"type":"index_not_found_exception","reason":"no such index [samples]"},"status":404}`))

		_, _, err := esClient.Query(context.Background(), search.IndexQuery{Index: "samples", Text: "swab", Page: 1, PerPage: 20})
		assert.EqualError(t, err, "engine error: search: index 'samples': code 'index_not_found_exception': no such index [samples]")
	})

	t.Run("should report a deadline as a timeout", func(t *testing.T) {
		esClient, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, _, err := esClient.Query(ctx, search.IndexQuery{Index: "samples", Text: "swab", Page: 1, PerPage: 20})

		var engErr search.EngineError
		require.True(t, errors.As(err, &engErr), "got %v", err)
		assert.Equal(t, search.ErrorKindTimeout, engErr.Kind)
	})
}
