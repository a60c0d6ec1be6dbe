package workermanager

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/pkg/worker"
)

const (
	jobIndexDocument  = "index-document"
	jobDeleteDocument = "delete-document"
)

type indexDocumentPayload struct {
	Index    string            `json:"index"`
	Document indexing.Document `json:"document"`
}

type deleteDocumentPayload struct {
	Index string `json:"index"`
	ID    string `json:"id"`
}

func (m *Manager) EnqueueIndexDocumentJob(ctx context.Context, index string, doc indexing.Document) error {
	payload, err := json.Marshal(indexDocumentPayload{Index: index, Document: doc})
	if err != nil {
		return fmt.Errorf("enqueue index document job: encode payload: %w", err)
	}

	if err := m.worker.Enqueue(ctx, worker.JobSpec{Type: jobIndexDocument, Payload: payload}); err != nil {
		return fmt.Errorf("enqueue index document job: %w", err)
	}
	return nil
}

func (m *Manager) EnqueueDeleteDocumentJob(ctx context.Context, index, id string) error {
	payload, err := json.Marshal(deleteDocumentPayload{Index: index, ID: id})
	if err != nil {
		return fmt.Errorf("enqueue delete document job: encode payload: %w", err)
	}

	if err := m.worker.Enqueue(ctx, worker.JobSpec{Type: jobDeleteDocument, Payload: payload}); err != nil {
		return fmt.Errorf("enqueue delete document job: %w", err)
	}
	return nil
}

func (m *Manager) indexDocumentHandler() worker.JobHandler {
	return worker.JobHandler{
		Handle: m.IndexDocument,
		JobOpts: worker.JobOptions{
			MaxAttempts:     3,
			Timeout:         5 * time.Second,
			BackoffStrategy: worker.DefaultExponentialBackoff,
		},
	}
}

// IndexDocument handles an index-document job. Engine failures are retried;
// an undecodable payload is not.
func (m *Manager) IndexDocument(ctx context.Context, job worker.JobSpec) error {
	var p indexDocumentPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return fmt.Errorf("index document: decode payload: %w", err)
	}

	if err := m.docRepo.Upsert(ctx, p.Index, p.Document); err != nil {
		return &worker.RetryableError{
			Cause: fmt.Errorf("upsert document %q into %q: %w", p.Document.ID, p.Index, err),
		}
	}
	return nil
}

func (m *Manager) deleteDocumentHandler() worker.JobHandler {
	return worker.JobHandler{
		Handle: m.DeleteDocument,
		JobOpts: worker.JobOptions{
			MaxAttempts:     3,
			Timeout:         5 * time.Second,
			BackoffStrategy: worker.DefaultExponentialBackoff,
		},
	}
}

func (m *Manager) DeleteDocument(ctx context.Context, job worker.JobSpec) error {
	var p deleteDocumentPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return fmt.Errorf("delete document: decode payload: %w", err)
	}

	if err := m.docRepo.Delete(ctx, p.Index, p.ID); err != nil {
		return &worker.RetryableError{
			Cause: fmt.Errorf("delete document %q from %q: %w", p.ID, p.Index, err),
		}
	}
	return nil
}
