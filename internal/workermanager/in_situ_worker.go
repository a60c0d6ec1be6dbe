package workermanager

import (
	"context"
	"fmt"

	"github.com/goto/labsearch/core/indexing"
)

// InSituWorker applies writes to the engine on the caller's goroutine. It
// is used when the job queue is disabled.
type InSituWorker struct {
	docRepo indexing.DocumentRepository
}

func NewInSituWorker(deps Deps) *InSituWorker {
	return &InSituWorker{docRepo: deps.DocumentRepo}
}

func (w *InSituWorker) EnqueueIndexDocumentJob(ctx context.Context, index string, doc indexing.Document) error {
	if err := w.docRepo.Upsert(ctx, index, doc); err != nil {
		return fmt.Errorf("index document: upsert into %q: %w: id '%s'", index, err, doc.ID)
	}
	return nil
}

func (w *InSituWorker) EnqueueDeleteDocumentJob(ctx context.Context, index, id string) error {
	if err := w.docRepo.Delete(ctx, index, id); err != nil {
		return fmt.Errorf("delete document: delete from %q: %w: id '%s'", index, err, id)
	}
	return nil
}

func (*InSituWorker) Close() error { return nil }
