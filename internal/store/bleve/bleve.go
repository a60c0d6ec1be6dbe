package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/salt/log"
)

const (
	fieldID         = "id"
	fieldName       = "name"
	fieldText       = "text"
	fieldPayload    = "payload"
	fieldAttributes = "attributes"
)

// Config selects where indexes live. An empty Path keeps them in memory.
type Config struct {
	Path string `yaml:"path" mapstructure:"path" default:""`
}

// Engine keeps one bleve index per registered index name. It serves the
// same query and write contract as the Elasticsearch store and is meant for
// local development and tests.
type Engine struct {
	path   string
	logger log.Logger

	mu      sync.RWMutex
	indexes map[string]bleve.Index
}

func New(cfg Config, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &Engine{
		path:    cfg.Path,
		logger:  logger,
		indexes: map[string]bleve.Index{},
	}
}

// Info describes the engine for startup logs.
func (e *Engine) Info() string {
	if e.path == "" {
		return "bleve (in memory)"
	}
	return fmt.Sprintf("bleve (%s)", e.path)
}

// Migrate creates every missing index in names.
func (e *Engine) Migrate(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := e.open(name, true); err != nil {
			return fmt.Errorf("migrate index %q: %w", name, err)
		}
	}
	return nil
}

func (e *Engine) IndexExists(_ context.Context, name string) (bool, error) {
	idx, err := e.open(name, false)
	if err != nil {
		return false, err
	}
	return idx != nil, nil
}

// DropIndex removes an index and its data.
func (e *Engine) DropIndex(_ context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if idx, ok := e.indexes[name]; ok {
		if err := idx.Close(); err != nil {
			return fmt.Errorf("close index %q: %w", name, err)
		}
		delete(e.indexes, name)
	}
	if e.path != "" {
		if err := os.RemoveAll(e.indexPath(name)); err != nil {
			return fmt.Errorf("remove index %q: %w", name, err)
		}
	}
	return nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for name, idx := range e.indexes {
		if err := idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close index %q: %w", name, err))
		}
		delete(e.indexes, name)
	}
	return errors.Join(errs...)
}

// open returns the index called name. A missing index is created when
// create is set and reported as nil otherwise.
func (e *Engine) open(name string, create bool) (bleve.Index, error) {
	e.mu.RLock()
	idx, ok := e.indexes[name]
	e.mu.RUnlock()
	if ok {
		return idx, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if idx, ok := e.indexes[name]; ok {
		return idx, nil
	}

	var err error
	switch {
	case e.path != "" && exists(e.indexPath(name)):
		idx, err = bleve.Open(e.indexPath(name))
	case !create:
		return nil, nil
	case e.path == "":
		idx, err = bleve.NewMemOnly(indexMapping())
	default:
		idx, err = bleve.New(e.indexPath(name), indexMapping())
	}
	if err != nil {
		return nil, err
	}

	e.logger.Debug("bleve index opened", "index", name, "created", create)
	e.indexes[name] = idx
	return idx, nil
}

func (e *Engine) lookup(op, name string) (bleve.Index, error) {
	idx, err := e.open(name, false)
	if err != nil {
		return nil, search.EngineError{Kind: search.ErrorKindUnknown, Op: op, Index: name, Err: err}
	}
	if idx == nil {
		return nil, search.EngineError{
			Kind:  search.ErrorKindIndexNotFound,
			Op:    op,
			Index: name,
			Err:   fmt.Errorf("no such index [%s]", name),
		}
	}
	return idx, nil
}

func (e *Engine) indexPath(name string) string {
	return filepath.Join(e.path, name+".bleve")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// indexMapping indexes id and name as keywords for sorting, a lowercased
// concatenation of every value for substring matching, attributes as
// keywords for sorting, and keeps the original document as a stored payload.
func indexMapping() mapping.IndexMapping {
	keywordField := bleve.NewKeywordFieldMapping()
	keywordField.IncludeInAll = false

	payloadField := bleve.NewTextFieldMapping()
	payloadField.Index = false
	payloadField.Store = true
	payloadField.IncludeInAll = false

	attributes := bleve.NewDocumentMapping()
	attributes.DefaultAnalyzer = keyword.Name

	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(fieldID, keywordField)
	doc.AddFieldMappingsAt(fieldName, keywordField)
	doc.AddFieldMappingsAt(fieldText, keywordField)
	doc.AddFieldMappingsAt(fieldPayload, payloadField)
	doc.AddSubDocumentMapping(fieldAttributes, attributes)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = keyword.Name
	return im
}
