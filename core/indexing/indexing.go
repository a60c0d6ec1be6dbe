package indexing

import (
	"context"
	"strings"

	"github.com/goto/labsearch/core/search"
)

//go:generate mockery --name=Publisher -r --case underscore --with-expecter --structname Publisher --filename publisher.go --output=./mocks
//go:generate mockery --name=DocumentRepository -r --case underscore --with-expecter --structname DocumentRepository --filename document_repository.go --output=./mocks

// Document is the write-side form of a search.Document. The index it
// belongs to travels next to it.
type Document struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Attributes []search.Attribute `json:"attributes" yaml:"attributes"`
}

// Publisher delivers writes to the engine. Delivery is at least once and
// makes no promise about when a write becomes searchable.
type Publisher interface {
	EnqueueIndexDocumentJob(ctx context.Context, index string, doc Document) error
	EnqueueDeleteDocumentJob(ctx context.Context, index, id string) error
	Close() error
}

// DocumentRepository applies writes to one engine.
type DocumentRepository interface {
	Upsert(ctx context.Context, index string, doc Document) error
	Delete(ctx context.Context, index, id string) error
}

func (d Document) normalize() Document {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	if d.Attributes == nil {
		d.Attributes = []search.Attribute{}
	}
	return d
}
