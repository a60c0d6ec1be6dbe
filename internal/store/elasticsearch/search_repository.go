package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goto/labsearch/core/search"
	"github.com/olivere/elastic/v7"
)

type searchHit struct {
	Index  string                 `json:"_index"`
	ID     string                 `json:"_id"`
	Source map[string]interface{} `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Total elastic.TotalHits `json:"total"`
		Hits  []searchHit       `json:"hits"`
	} `json:"hits"`
}

// Query runs q against a single index.
func (c *Client) Query(ctx context.Context, q search.IndexQuery) ([]search.Document, int, error) {
	const op = "search"

	body, err := buildQuery(q, c.sortSuffix)
	if err != nil {
		return nil, 0, search.EngineError{Kind: search.ErrorKindQuery, Op: op, Index: q.Index, Err: err}
	}
	c.logger.Debug("index query", "index", q.Index, "query", q.Text, "page", q.Page, "per_page", q.PerPage)

	esSearch := c.client.Search
	res, err := esSearch(
		esSearch.WithIndex(q.Index),
		esSearch.WithBody(body),
		esSearch.WithContext(ctx),
	)
	if err != nil {
		return nil, 0, transportError(ctx, op, q.Index, err)
	}
	defer drainBody(res)
	if res.IsError() {
		return nil, 0, responseError(op, q.Index, res)
	}

	var response searchResponse
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&response); err != nil {
		return nil, 0, search.EngineError{
			Kind: search.ErrorKindUnknown, Op: op, Index: q.Index,
			Err: fmt.Errorf("decode search response: %w", err),
		}
	}

	return toDocuments(q.Index, response.Hits.Hits), int(response.Hits.Total.Value), nil
}

func buildQuery(q search.IndexQuery, sortSuffix string) (io.Reader, error) {
	src := elastic.NewSearchSource().
		Query(elastic.NewQueryStringQuery(queryString(q.Text)).Field("*")).
		From(q.Offset()).
		Size(q.PerPage).
		TrackTotalHits(true)
	if q.SortBy != "" {
		src = src.SortBy(
			elastic.NewFieldSort(q.SortBy + sortSuffix).
				Order(q.SortOrder != search.SortDescending).
				UnmappedType("keyword"),
		)
	}

	body, err := src.Source()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	payload := bytes.NewBuffer(nil)
	if err := json.NewEncoder(payload).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return payload, nil
}

// queryString turns free text into a query_string expression where every
// token has to appear as a substring: "rna seq" -> "(*rna*) AND (*seq*)".
func queryString(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || (len(tokens) == 1 && tokens[0] == "*") {
		return "*"
	}

	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, "(*"+escapeReserved(tok)+"*)")
	}
	return strings.Join(parts, " AND ")
}

// escapeReserved escapes query_string operators in a token. Wildcards are
// kept. < and > cannot be escaped and are dropped.
var reservedEscaper = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `=`, `\=`, `&`, `\&`, `|`, `\|`,
	`!`, `\!`, `(`, `\(`, `)`, `\)`, `{`, `\{`, `}`, `\}`, `[`, `\[`,
	`]`, `\]`, `^`, `\^`, `"`, `\"`, `~`, `\~`, `:`, `\:`, `/`, `\/`,
	`<`, ``, `>`, ``,
)

func escapeReserved(tok string) string {
	return reservedEscaper.Replace(tok)
}

func toDocuments(index string, hits []searchHit) []search.Document {
	docs := make([]search.Document, 0, len(hits))
	for _, hit := range hits {
		docs = append(docs, toDocument(index, hit))
	}
	return docs
}

// toDocument maps a hit to a Document. The attributes array comes first,
// then every other top level field of the source sorted by key.
func toDocument(index string, hit searchHit) search.Document {
	doc := search.Document{
		ID:         hit.ID,
		IndexName:  index,
		Attributes: []search.Attribute{},
	}
	if id, ok := hit.Source[fieldID]; ok && id != nil {
		doc.ID = fmt.Sprint(id)
	}
	if name, ok := hit.Source[fieldName]; ok && name != nil {
		doc.Name = fmt.Sprint(name)
	}

	seen := map[string]bool{}
	if raw, ok := hit.Source[fieldAttributes].([]interface{}); ok {
		for _, item := range raw {
			attr, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			key := fmt.Sprint(attr["key"])
			doc.Attributes = append(doc.Attributes, search.Attribute{Key: key, Value: fmt.Sprint(attr["value"])})
			seen[key] = true
		}
	}

	keys := make([]string, 0, len(hit.Source))
	for key := range hit.Source {
		switch {
		case key == fieldID, key == fieldName, key == fieldAttributes, seen[key]:
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if v := hit.Source[key]; v != nil {
			doc.Attributes = append(doc.Attributes, search.Attribute{Key: key, Value: fmt.Sprint(v)})
		}
	}
	return doc
}
