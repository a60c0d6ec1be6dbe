package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/goto/labsearch/pkg/statsd"
	"github.com/goto/salt/log"
)

var errQueryPanicked = errors.New("index query panicked")

// Executor runs exactly one IndexQueryClient call per index under a deadline
// and turns whatever happens into an Outcome.
type Executor struct {
	client       IndexQueryClient
	logger       log.Logger
	statsd       *statsd.Reporter
	now          func() time.Time
	maxAttempts  int
	retryBackoff time.Duration
}

func NewExecutor(client IndexQueryClient, logger log.Logger) *Executor {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &Executor{
		client:       client,
		logger:       logger,
		now:          time.Now,
		maxAttempts:  1,
		retryBackoff: defaultRetryBackoff,
	}
}

// Execute queries index for req and always returns a well-formed Outcome.
// Once the deadline passes it stops waiting on the engine and reports a
// timeout, even if the call itself is still running.
func (e *Executor) Execute(ctx context.Context, index string, req Request, deadline time.Time) Outcome {
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	start := time.Now()
	q := IndexQuery{
		Index:     index,
		Text:      req.Query,
		Page:      req.Page,
		PerPage:   req.PerPage,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	items, total, err := e.attempt(ctx, q)
	if err == nil && total < 0 {
		err = fmt.Errorf("engine reported a negative total %d", total)
	}
	if err != nil {
		kind := classify(err)
		e.logger.Warn("index query failed", "index", index, "error_kind", kind, "err", err)
		e.statsd.Timing("search.index.duration", time.Since(start)).
			Tag("index", index).
			Tag("error_kind", kind.String()).
			Failure(err).
			Publish()
		return failedOutcome(index, kind, failureMessage(index, err), e.now())
	}

	e.statsd.Timing("search.index.duration", time.Since(start)).
		Tag("index", index).
		Success().
		Publish()

	return succeededOutcome(index, req.Page, req.PerPage, items, total)
}

func (e *Executor) attempt(ctx context.Context, q IndexQuery) ([]Document, int, error) {
	for attempt := 1; ; attempt++ {
		items, total, err := e.call(ctx, q)
		if err == nil || attempt >= e.maxAttempts || classify(err) != ErrorKindConnection {
			return items, total, err
		}
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= e.retryBackoff {
			return items, total, err
		}

		e.logger.Debug("retrying index query", "index", q.Index, "attempt", attempt+1, "err", err)
		timer := time.NewTimer(e.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, 0, ctx.Err()
		case <-timer.C:
		}
	}
}

type queryResult struct {
	items []Document
	total int
	err   error
}

// call runs the query in its own goroutine so that a call ignoring ctx can
// not hold the caller past the deadline. done is buffered so an abandoned
// call can always deliver its result and exit.
func (e *Executor) call(ctx context.Context, q IndexQuery) ([]Document, int, error) {
	done := make(chan queryResult, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- queryResult{err: fmt.Errorf("%w: %v", errQueryPanicked, v)}
			}
		}()
		items, total, err := e.client.Query(ctx, q)
		done <- queryResult{items: items, total: total, err: err}
	}()

	select {
	case res := <-done:
		return res.items, res.total, res.err
	case <-ctx.Done():
		select {
		case res := <-done:
			return res.items, res.total, res.err
		default:
		}
		return nil, 0, ctx.Err()
	}
}

// classify maps a failure onto the error taxonomy. It only looks at the
// error itself, so the same failure always yields the same kind.
func classify(err error) ErrorKind {
	if errors.Is(err, errQueryPanicked) {
		return ErrorKindUnknown
	}

	var engErr EngineError
	if errors.As(err, &engErr) && engErr.Kind.IsValid() {
		return engErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorKindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}

	return ErrorKindUnknown
}

func failureMessage(index string, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("query on index %q did not complete before the deadline", index)
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("query on index %q was abandoned: request cancelled", index)
	}
	return err.Error()
}

func failedOutcome(index string, kind ErrorKind, msg string, at time.Time) Outcome {
	return Outcome{
		IndexName: index,
		Success:   false,
		Items:     []Document{},
		Total:     0,
		Error: &IndexError{
			IndexName: index,
			Kind:      kind,
			Message:   msg,
			Timestamp: at.UTC(),
		},
	}
}

func succeededOutcome(index string, page, perPage int, items []Document, total int) Outcome {
	docs := make([]Document, len(items))
	for i, item := range items {
		if item.IndexName == "" {
			item.IndexName = index
		}
		if item.Attributes == nil {
			item.Attributes = []Attribute{}
		}
		docs[i] = item
	}

	return Outcome{
		IndexName:  index,
		Success:    true,
		Items:      docs,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		HasNext:    hasNext(page, perPage, total),
		HasPrev:    hasPrev(page),
		TotalPages: totalPages(total, perPage),
	}
}
