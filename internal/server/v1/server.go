package handlersv1

//go:generate mockery --name=SearchService -r --case underscore --with-expecter --structname SearchService --filename search_service.go --output=./mocks
//go:generate mockery --name=DocumentService -r --case underscore --with-expecter --structname DocumentService --filename document_service.go --output=./mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/salt/log"
)

type SearchService interface {
	Search(ctx context.Context, req search.Request) (search.Response, error)
	Registry() search.Registry
}

type DocumentService interface {
	Publish(ctx context.Context, index string, doc indexing.Document) error
	Remove(ctx context.Context, index, id string) error
}

type APIServer struct {
	searchService   SearchService
	documentService DocumentService
	logger          log.Logger
}

func NewAPIServer(logger log.Logger, searchService SearchService, documentService DocumentService) *APIServer {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &APIServer{
		searchService:   searchService,
		documentService: documentService,
		logger:          logger,
	}
}

// Register mounts the v1 routes on r. wrap decorates every handler with its
// route pattern, e.g. for transaction naming.
func (server *APIServer) Register(r chi.Router, wrap func(pattern string, h http.HandlerFunc) http.Handler) {
	if wrap == nil {
		wrap = func(_ string, h http.HandlerFunc) http.Handler { return h }
	}

	const (
		searchPath   = "/v1/search"
		indexesPath  = "/v1/indexes"
		documentPath = "/v1/indexes/{index}/documents/{id}"
	)
	r.Method(http.MethodGet, searchPath, wrap(searchPath, server.Search))
	r.Method(http.MethodGet, indexesPath, wrap(indexesPath, server.GetIndexes))
	r.Method(http.MethodPut, documentPath, wrap(documentPath, server.UpsertDocument))
	r.Method(http.MethodDelete, documentPath, wrap(documentPath, server.DeleteDocument))
}

type errorResponse struct {
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, errorResponse{Reason: reason})
}

// internalServerError logs msg under a reference the caller can quote
// without exposing the cause.
func (server *APIServer) internalServerError(w http.ResponseWriter, msg string) {
	ref := time.Now().Unix()

	server.logger.Error(msg, "ref", ref)
	writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf(
		"%s - ref (%d)",
		http.StatusText(http.StatusInternalServerError),
		ref,
	))
}

func bodyParserErrorMsg(err error) string {
	return fmt.Sprintf("error parsing request body: %v", err)
}
