package bleve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
)

type storedDocument struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Text       string            `json:"text"`
	Payload    string            `json:"payload"`
	Attributes map[string]string `json:"attributes"`
}

// Upsert writes doc into index, creating the index on first use.
func (e *Engine) Upsert(ctx context.Context, index string, doc indexing.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx, err := e.open(index, true)
	if err != nil {
		return search.EngineError{Kind: search.ErrorKindUnknown, Op: "upsert", Index: index, Err: err}
	}

	stored, err := toStoredDocument(doc)
	if err != nil {
		return fmt.Errorf("upsert document %q: %w", doc.ID, err)
	}
	if err := idx.Index(doc.ID, stored); err != nil {
		return search.EngineError{Kind: search.ErrorKindUnknown, Op: "upsert", Index: index, Err: err}
	}
	return nil
}

// Delete removes id from index. A missing index or document is not an
// error.
func (e *Engine) Delete(ctx context.Context, index, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx, err := e.open(index, false)
	if err != nil {
		return search.EngineError{Kind: search.ErrorKindUnknown, Op: "delete", Index: index, Err: err}
	}
	if idx == nil {
		return nil
	}
	if err := idx.Delete(id); err != nil {
		return search.EngineError{Kind: search.ErrorKindUnknown, Op: "delete", Index: index, Err: err}
	}
	return nil
}

func toStoredDocument(doc indexing.Document) (storedDocument, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return storedDocument{}, err
	}

	parts := []string{doc.ID, doc.Name}
	attrs := make(map[string]string, len(doc.Attributes))
	for _, a := range doc.Attributes {
		parts = append(parts, a.Key, a.Value)
		if _, seen := attrs[a.Key]; !seen {
			attrs[a.Key] = a.Value
		}
	}

	return storedDocument{
		ID:         doc.ID,
		Name:       doc.Name,
		Text:       strings.ToLower(strings.Join(parts, " ")),
		Payload:    string(payload),
		Attributes: attrs,
	}, nil
}
