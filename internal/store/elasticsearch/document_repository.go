package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/goto/labsearch/core/indexing"
)

const (
	fieldID         = "id"
	fieldName       = "name"
	fieldAttributes = "attributes"

	refreshWaitFor = "wait_for"
)

// Upsert indexes doc under its id. The index is created with the dynamic
// mapping when it does not exist yet.
func (c *Client) Upsert(ctx context.Context, index string, doc indexing.Document) error {
	const op = "upsert"

	body, err := createUpsertBody(doc)
	if err != nil {
		return fmt.Errorf("serialise document %q: %w", doc.ID, err)
	}

	res, err := c.client.Index(
		index,
		body,
		c.client.Index.WithDocumentID(doc.ID),
		c.client.Index.WithRefresh(refreshWaitFor),
		c.client.Index.WithContext(ctx),
	)
	if err != nil {
		return transportError(ctx, op, index, err)
	}
	defer drainBody(res)
	if res.IsError() {
		return responseError(op, index, res)
	}
	return nil
}

// Delete removes id from index. A missing document is not an error.
func (c *Client) Delete(ctx context.Context, index, id string) error {
	const op = "delete"

	res, err := c.client.Delete(
		index,
		id,
		c.client.Delete.WithRefresh(refreshWaitFor),
		c.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return transportError(ctx, op, index, err)
	}
	defer drainBody(res)
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError(op, index, res)
	}
	return nil
}

// createUpsertBody writes the document together with a top level copy of
// the first value of every attribute so that attributes are sortable.
func createUpsertBody(doc indexing.Document) (io.Reader, error) {
	source := map[string]interface{}{
		fieldID:         doc.ID,
		fieldName:       doc.Name,
		fieldAttributes: doc.Attributes,
	}
	for _, a := range doc.Attributes {
		if _, taken := source[a.Key]; taken {
			continue
		}
		source[a.Key] = a.Value
	}

	payload := bytes.NewBuffer(nil)
	if err := json.NewEncoder(payload).Encode(source); err != nil {
		return nil, err
	}
	return payload, nil
}
