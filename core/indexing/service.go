package indexing

import (
	"context"
	"fmt"
	"strings"

	"github.com/goto/labsearch/core/search"
	"github.com/goto/salt/log"
)

// Service validates writes against the index registry and hands them to a
// Publisher.
type Service struct {
	registry  search.Registry
	publisher Publisher
	logger    log.Logger
}

func NewService(registry search.Registry, publisher Publisher, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &Service{
		registry:  registry,
		publisher: publisher,
		logger:    logger,
	}
}

// Publish schedules doc to be written to index.
func (s *Service) Publish(ctx context.Context, index string, doc Document) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	doc = doc.normalize()
	if doc.ID == "" {
		return ErrEmptyID
	}
	if doc.Name == "" {
		return ErrEmptyName
	}

	if err := s.publisher.EnqueueIndexDocumentJob(ctx, index, doc); err != nil {
		return fmt.Errorf("publish document %q to %q: %w", doc.ID, index, err)
	}
	s.logger.Debug("document published", "index", index, "id", doc.ID)
	return nil
}

// Remove schedules the deletion of document id from index.
func (s *Service) Remove(ctx context.Context, index, id string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyID
	}

	if err := s.publisher.EnqueueDeleteDocumentJob(ctx, index, id); err != nil {
		return fmt.Errorf("remove document %q from %q: %w", id, index, err)
	}
	s.logger.Debug("document removal published", "index", index, "id", id)
	return nil
}

func (s *Service) checkIndex(index string) error {
	if !s.registry.Contains(index) {
		return search.UnknownIndexError{Index: index, Known: s.registry.Names()}
	}
	return nil
}
