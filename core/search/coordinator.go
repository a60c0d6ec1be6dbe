package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goto/labsearch/core/validator"
	"github.com/goto/labsearch/pkg/statsd"
	"github.com/goto/salt/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/goto/labsearch/core/search"

// Coordinator fans one request out to every requested index and folds the
// outcomes back into a single Response.
type Coordinator struct {
	registry Registry
	executor *Executor
	timeout  time.Duration
	logger   log.Logger
	statsd   *statsd.Reporter
	tracer   trace.Tracer
}

func NewCoordinator(registry Registry, client IndexQueryClient, opts ...Option) *Coordinator {
	logger := log.NewNoop()
	c := &Coordinator{
		registry: registry,
		executor: NewExecutor(client, logger),
		timeout:  defaultTimeout,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the set of indexes this coordinator accepts.
func (c *Coordinator) Registry() Registry {
	return c.registry
}

// Search validates req, queries every requested index concurrently under a
// single deadline and aggregates the outcomes. The only error returned is a
// request-shape error; per-index failures are reported inside the Response.
func (c *Coordinator) Search(ctx context.Context, req Request) (Response, error) {
	ctx, span := c.tracer.Start(ctx, "search.Coordinator.Search")
	defer span.End()

	req, err := c.normalize(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.statsd.Incr("search.request").Tag("valid", "false").Publish()
		return Response{}, err
	}
	span.SetAttributes(attribute.Int("search.indexes", len(req.Indexes)))

	deadline := time.Now().Add(c.timeout)
	outcomes := make([]Outcome, len(req.Indexes))

	var wg sync.WaitGroup
	wg.Add(len(req.Indexes))
	for i, index := range req.Indexes {
		go func(i int, index string) {
			defer wg.Done()
			outcomes[i] = c.executor.Execute(ctx, index, req, deadline)
		}(i, index)
	}
	wg.Wait()

	resp := Aggregate(req, outcomes)

	span.SetAttributes(
		attribute.Bool("search.partial_failure", resp.PartialFailure),
		attribute.Float64("search.success_rate", resp.SuccessRate),
	)
	c.statsd.Incr("search.request").
		Tag("valid", "true").
		Tag("partial_failure", boolTag(resp.PartialFailure)).
		Publish()
	if resp.PartialFailure {
		c.logger.Warn("search completed with partial failure",
			"query", req.Query,
			"indexes", req.Indexes,
			"success_rate", resp.SuccessRate,
		)
	}

	return resp, nil
}

func (c *Coordinator) normalize(req Request) (Request, error) {
	req.Indexes = slices.Clone(req.Indexes)
	req.Query = strings.TrimSpace(req.Query)
	req.SortBy = strings.TrimSpace(req.SortBy)
	req.SortOrder = strings.ToLower(strings.TrimSpace(req.SortOrder))
	if req.SortOrder == "" {
		req.SortOrder = SortAscending
	}

	if err := validator.ValidateStruct(req); err != nil {
		var fieldErrs validator.FieldErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return Request{}, InvalidRequestError{Field: fieldErrs[0].Field, Reason: fieldErrs[0].Reason}
		}
		return Request{}, InvalidRequestError{Reason: err.Error()}
	}
	if maxPage := MaxPage(req.PerPage); req.Page > maxPage {
		return Request{}, InvalidRequestError{Field: "page", Reason: fmt.Sprintf("cannot be greater than %d", maxPage)}
	}

	for _, index := range req.Indexes {
		if !c.registry.Contains(index) {
			return Request{}, UnknownIndexError{Index: index, Known: c.registry.Names()}
		}
	}
	return req, nil
}

// MaxPage is the last page whose offset and end still fit in an int for
// the given page size.
func MaxPage(perPage int) int {
	if perPage < 1 {
		return math.MaxInt
	}
	return (math.MaxInt-perPage)/perPage + 1
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
