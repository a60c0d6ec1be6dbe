package elasticsearch_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v7"
	store "github.com/goto/labsearch/internal/store/elasticsearch"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoResponse = `{
	"cluster_name": "labsearch-test",
	"version": {"number": "7.16.0", "build_flavor": "default"},
	"tagline": "You Know, for Search"
}`

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// fakeES answers the product check itself and hands every other request to
// handle after recording it.
type fakeES struct {
	mu       sync.Mutex
	requests []recordedRequest
	handle   func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet && r.URL.Path == "/" {
		_, _ = io.WriteString(w, infoResponse)
		return
	}

	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   body,
	})
	f.mu.Unlock()

	f.handle(w, r)
}

func (f *fakeES) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func respond(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*store.Client, *fakeES) {
	t.Helper()

	fake := &fakeES{handle: handle}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cli, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)

	esClient, err := store.NewClient(log.NewNoop(), store.Config{}, store.WithClient(cli))
	require.NoError(t, err)
	return esClient, fake
}

func decodeBody(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}

func TestClientInit(t *testing.T) {
	esClient, _ := newTestClient(t, respond(http.StatusOK, `{}`))

	info, err := esClient.Init(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `elasticsearch "labsearch-test" (server version 7.16.0)`, info)
}

func TestClientMigrate(t *testing.T) {
	esClient, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/samples":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			_, _ = io.WriteString(w, `{"acknowledged": true}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	err := esClient.Migrate(context.Background(), "projects", "samples")
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "HEAD /projects", reqs[0].Method+" "+reqs[0].Path)
	assert.Equal(t, "PUT /projects", reqs[1].Method+" "+reqs[1].Path)
	assert.Equal(t, "HEAD /samples", reqs[2].Method+" "+reqs[2].Path)

	settings := decodeBody(t, reqs[1].Body)
	assert.Contains(t, settings, "mappings")
}

func TestClientMigrateFailure(t *testing.T) {
	esClient, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"invalid_index_name_exception","reason":"Invalid index name [Projects], must be lowercase"},"status":400}`)
	})

	err := esClient.Migrate(context.Background(), "Projects")
	assert.EqualError(t, err, `create index "Projects": Invalid index name [Projects], must be lowercase`)
}

func TestClientIndexExists(t *testing.T) {
	esClient, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/projects" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	exists, err := esClient.IndexExists(context.Background(), "projects")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = esClient.IndexExists(context.Background(), "samples")
	require.NoError(t, err)
	assert.False(t, exists)
}
