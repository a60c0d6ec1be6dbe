package handlersv1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
)

type upsertDocumentRequest struct {
	Name       string             `json:"name"`
	Attributes []search.Attribute `json:"attributes"`
}

type documentAccepted struct {
	Index string `json:"index"`
	ID    string `json:"id"`
}

// UpsertDocument handles PUT /v1/indexes/{index}/documents/{id}. The write
// is accepted, not applied; it becomes searchable eventually.
func (server *APIServer) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	index, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")

	var body upsertDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	doc := indexing.Document{ID: id, Name: body.Name, Attributes: body.Attributes}
	if err := server.documentService.Publish(r.Context(), index, doc); err != nil {
		server.writeDocumentError(w, fmt.Sprintf("error publishing document %q", id), err)
		return
	}

	writeJSON(w, http.StatusAccepted, documentAccepted{Index: index, ID: id})
}

// DeleteDocument handles DELETE /v1/indexes/{index}/documents/{id}.
func (server *APIServer) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	index, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")

	if err := server.documentService.Remove(r.Context(), index, id); err != nil {
		server.writeDocumentError(w, fmt.Sprintf("error removing document %q", id), err)
		return
	}

	writeJSON(w, http.StatusAccepted, documentAccepted{Index: index, ID: id})
}

func (server *APIServer) writeDocumentError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, search.ErrInvalidRequest),
		errors.Is(err, indexing.ErrEmptyID),
		errors.Is(err, indexing.ErrEmptyName):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		server.internalServerError(w, fmt.Sprintf("%s: %s", msg, err))
	}
}
