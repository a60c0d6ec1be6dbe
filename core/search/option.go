package search

import (
	"time"

	"github.com/goto/labsearch/pkg/statsd"
	"github.com/goto/salt/log"
)

// Config controls how a Coordinator fans out.
type Config struct {
	Indexes      []string      `yaml:"indexes" mapstructure:"indexes"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout" default:"5s"`
	MaxAttempts  int           `yaml:"max_attempts" mapstructure:"max_attempts" default:"1"`
	RetryBackoff time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff" default:"100ms"`
}

// IndexNames returns the configured registry, or DefaultIndexes when none
// is configured.
func (cfg Config) IndexNames() []string {
	if len(cfg.Indexes) == 0 {
		return append([]string(nil), DefaultIndexes...)
	}
	return cfg.Indexes
}

const (
	defaultTimeout      = 5 * time.Second
	defaultRetryBackoff = 100 * time.Millisecond
)

type Option func(*Coordinator)

func WithConfig(cfg Config) Option {
	return func(c *Coordinator) {
		WithTimeout(cfg.Timeout)(c)
		WithRetry(cfg.MaxAttempts, cfg.RetryBackoff)(c)
	}
}

// WithTimeout sets the bound on a whole search request. Every index shares
// the deadline derived from it.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetry makes the executor retry connection errors up to maxAttempts
// attempts in total, sleeping backoff in between. Retries never extend past
// the request deadline.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Coordinator) {
		if maxAttempts > 0 {
			c.executor.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			c.executor.retryBackoff = backoff
		}
	}
}

func WithLogger(logger log.Logger) Option {
	return func(c *Coordinator) {
		if logger == nil {
			logger = log.NewNoop()
		}
		c.logger = logger
		c.executor.logger = logger
	}
}

func WithStatsDReporter(reporter *statsd.Reporter) Option {
	return func(c *Coordinator) {
		c.statsd = reporter
		c.executor.statsd = reporter
	}
}

// WithClock replaces the clock used for error timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.executor.now = now
		}
	}
}
