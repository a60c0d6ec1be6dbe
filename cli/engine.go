package cli

import (
	"context"
	"fmt"

	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/labsearch/internal/store/bleve"
	esStore "github.com/goto/labsearch/internal/store/elasticsearch"
	"github.com/goto/salt/log"
)

// engine is the search engine backing both the read and the write path.
type engine interface {
	search.IndexQueryClient
	indexing.DocumentRepository
	Migrate(ctx context.Context, names ...string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Close() error
}

func initEngine(ctx context.Context, logger log.Logger, cfg EngineConfig) (engine, error) {
	switch cfg.Driver {
	case driverBleve:
		e := bleve.New(cfg.Bleve, logger)
		logger.Info("using embedded search engine", "info", e.Info())
		return e, nil

	case driverElasticsearch, "":
		return initElasticsearch(ctx, logger, cfg.Elasticsearch)

	default:
		return nil, fmt.Errorf("unknown engine driver %q", cfg.Driver)
	}
}

func initElasticsearch(ctx context.Context, logger log.Logger, cfg esStore.Config) (*esStore.Client, error) {
	esClient, err := esStore.NewClient(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("create new elasticsearch client: %w", err)
	}
	got, err := esClient.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("establish connection to elasticsearch: %w", err)
	}
	logger.Info("connected to elasticsearch", "info", got)
	return esClient, nil
}

func initRegistry(cfg *Config) (search.Registry, error) {
	registry, err := search.NewRegistry(cfg.Search.IndexNames()...)
	if err != nil {
		return search.Registry{}, fmt.Errorf("build index registry: %w", err)
	}
	if err := registry.CheckConsistency(cfg.Indexing.WriteTargets()); err != nil {
		return search.Registry{}, err
	}
	return registry, nil
}
