package handlersv1

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goto/labsearch/core/search"
)

// Search handles GET /v1/search. Per-index failures are part of a 200
// response; only request-shape errors are rejected.
func (server *APIServer) Search(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequestFromQuery(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := server.searchService.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, search.ErrInvalidRequest) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		server.internalServerError(w, fmt.Sprintf("error searching indexes: %s", err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type indexesResponse struct {
	Data []string `json:"data"`
}

// GetIndexes handles GET /v1/indexes.
func (server *APIServer) GetIndexes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, indexesResponse{Data: server.searchService.Registry().Names()})
}

func searchRequestFromQuery(q url.Values) (search.Request, error) {
	req := search.Request{
		Indexes:   splitIndexes(q["indexes"]),
		Query:     q.Get("query"),
		Page:      search.DefaultPage,
		PerPage:   search.DefaultPerPage,
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	var err error
	if req.Page, err = intParam(q, "page", search.DefaultPage); err != nil {
		return search.Request{}, err
	}
	if req.PerPage, err = intParam(q, "per_page", search.DefaultPerPage); err != nil {
		return search.Request{}, err
	}
	return req, nil
}

// splitIndexes accepts both repeated and comma separated values.
func splitIndexes(values []string) []string {
	var indexes []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				indexes = append(indexes, name)
			}
		}
	}
	return indexes
}

func intParam(q url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("'%s' must be an integer, got %q", key, raw)
	}
	return n, nil
}
