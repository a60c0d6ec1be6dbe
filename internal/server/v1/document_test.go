package handlersv1_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/labsearch/internal/server/v1/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUpsertDocument(t *testing.T) {
	const target = "/v1/indexes/samples/documents/s-1"

	type testCase struct {
		Description  string
		Body         string
		Setup        func(ds *mocks.DocumentService)
		ExpectStatus int
		ExpectReason string
		ExpectBody   string
	}

	testCases := []testCase{
		{
			Description:  "should reject a malformed body",
			Body:         `{"name":`,
			ExpectStatus: http.StatusBadRequest,
			ExpectReason: "error parsing request body: unexpected EOF",
		},
		{
			Description: "should reject an unknown index",
			Body:        `{"name":"Nasal swab"}`,
			Setup: func(ds *mocks.DocumentService) {
				ds.EXPECT().Publish(mock.Anything, "samples", mock.AnythingOfType("indexing.Document")).
					Return(search.UnknownIndexError{Index: "samples", Known: []string{"projects"}})
			},
			ExpectStatus: http.StatusBadRequest,
			ExpectReason: `unknown index "samples", expected one of [projects]`,
		},
		{
			Description: "should reject a document without a name",
			Body:        `{"attributes":[]}`,
			Setup: func(ds *mocks.DocumentService) {
				ds.EXPECT().Publish(mock.Anything, "samples", mock.AnythingOfType("indexing.Document")).
					Return(indexing.ErrEmptyName)
			},
			ExpectStatus: http.StatusBadRequest,
			ExpectReason: "document name is empty",
		},
		{
			Description: "should hide publisher failures",
			Body:        `{"name":"Nasal swab"}`,
			Setup: func(ds *mocks.DocumentService) {
				ds.EXPECT().Publish(mock.Anything, "samples", mock.AnythingOfType("indexing.Document")).
					Return(errors.New("queue unavailable"))
			},
			ExpectStatus: http.StatusInternalServerError,
		},
		{
			Description: "should accept the document",
			Body:        `{"name":"Nasal swab","attributes":[{"key":"lab","value":"north"}]}`,
			Setup: func(ds *mocks.DocumentService) {
				ds.EXPECT().Publish(mock.Anything, "samples", indexing.Document{
					ID:         "s-1",
					Name:       "Nasal swab",
					Attributes: []search.Attribute{{Key: "lab", Value: "north"}},
				}).Return(nil)
			},
			ExpectStatus: http.StatusAccepted,
			ExpectBody:   `{"index":"samples","id":"s-1"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			ds := mocks.NewDocumentService(t)
			if tc.Setup != nil {
				tc.Setup(ds)
			}

			rec := serve(newRouter(mocks.NewSearchService(t), ds), http.MethodPut, target, tc.Body)

			assert.Equal(t, tc.ExpectStatus, rec.Code)
			if tc.ExpectReason != "" {
				assert.Equal(t, tc.ExpectReason, reasonOf(t, rec))
			}
			if tc.ExpectBody != "" {
				assert.JSONEq(t, tc.ExpectBody, rec.Body.String())
			}
		})
	}
}

func TestDeleteDocument(t *testing.T) {
	const target = "/v1/indexes/illumina_runs/documents/run-7"

	t.Run("should accept the deletion", func(t *testing.T) {
		ds := mocks.NewDocumentService(t)
		ds.EXPECT().Remove(mock.Anything, "illumina_runs", "run-7").Return(nil)

		rec := serve(newRouter(mocks.NewSearchService(t), ds), http.MethodDelete, target, "")

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"index":"illumina_runs","id":"run-7"}`, rec.Body.String())
	})

	t.Run("should reject an unknown index", func(t *testing.T) {
		ds := mocks.NewDocumentService(t)
		ds.EXPECT().Remove(mock.Anything, "illumina_runs", "run-7").
			Return(search.UnknownIndexError{Index: "illumina_runs", Known: []string{"projects"}})

		rec := serve(newRouter(mocks.NewSearchService(t), ds), http.MethodDelete, target, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should not route other methods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{}`))
		newRouter(mocks.NewSearchService(t), mocks.NewDocumentService(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
