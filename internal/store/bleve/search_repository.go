package bleve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
)

// Query runs q against one bleve index. Every whitespace separated token
// must appear as a case-insensitive substring of the document.
func (e *Engine) Query(ctx context.Context, q search.IndexQuery) ([]search.Document, int, error) {
	idx, err := e.lookup("search", q.Index)
	if err != nil {
		return nil, 0, err
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q.Text), q.PerPage, q.Offset(), false)
	req.Fields = []string{fieldPayload}
	req.SortBy(sortOrder(q.SortBy, q.SortOrder))

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, searchError(q.Index, err)
	}

	docs := make([]search.Document, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, _ := hit.Fields[fieldPayload].(string)
		var doc indexing.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, 0, search.EngineError{
				Kind: search.ErrorKindUnknown, Op: "search", Index: q.Index,
				Err: fmt.Errorf("decode document %q: %w", hit.ID, err),
			}
		}
		docs = append(docs, search.Document{
			ID:         doc.ID,
			Name:       doc.Name,
			IndexName:  q.Index,
			Attributes: doc.Attributes,
		})
	}
	return docs, int(res.Total), nil
}

func buildQuery(text string) blevequery.Query {
	conjuncts := make([]blevequery.Query, 0)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		// bleve has no escape for wildcard operators inside a term.
		tok = wildcardOperators.Replace(tok)
		if tok == "" {
			continue
		}
		wq := bleve.NewWildcardQuery("*" + tok + "*")
		wq.SetField(fieldText)
		conjuncts = append(conjuncts, wq)
	}
	if len(conjuncts) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(conjuncts...)
}

var wildcardOperators = strings.NewReplacer("*", "", "?", "")

// sortOrder sorts on the keyword copy of sortBy. id and name are top level
// fields; anything else is looked up among the attributes. Without sortBy
// hits are ranked by score.
func sortOrder(sortBy, order string) []string {
	if sortBy == "" {
		return []string{"-_score", "_id"}
	}

	field := sortBy
	if field != fieldID && field != fieldName {
		field = fieldAttributes + "." + field
	}
	if order == search.SortDescending {
		field = "-" + field
	}
	return []string{field, "_id"}
}

func searchError(index string, err error) error {
	kind := search.ErrorKindQuery
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = search.ErrorKindTimeout
	}
	return search.EngineError{Kind: kind, Op: "search", Index: index, Err: err}
}
