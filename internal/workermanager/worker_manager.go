package workermanager

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/pkg/worker"
	"github.com/goto/labsearch/pkg/worker/pgq"
	"github.com/goto/salt/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Manager publishes writes as jobs on the Postgres queue and runs the worker
// pool that applies them to the engine.
type Manager struct {
	processor *pgq.Processor
	initDone  atomic.Bool
	worker    Worker
	docRepo   indexing.DocumentRepository
	logger    log.Logger
}

//go:generate mockery --name=Worker -r --case underscore --with-expecter --structname Worker --filename worker_mock.go --output=./mocks

type Worker interface {
	Register(typ string, h worker.JobHandler) error
	Run(ctx context.Context) error
	Enqueue(ctx context.Context, jobs ...worker.JobSpec) error
}

type Config struct {
	Enabled           bool          `yaml:"enabled" mapstructure:"enabled" default:"false"`
	WorkerCount       int           `yaml:"worker_count" mapstructure:"worker_count" default:"3"`
	PollInterval      time.Duration `yaml:"poll_interval" mapstructure:"poll_interval" default:"500ms"`
	ActivePollPercent float64       `yaml:"active_poll_percent" mapstructure:"active_poll_percent" default:"20"`
	PGQ               pgq.Config    `yaml:"pgq" mapstructure:"pgq"`
}

type Deps struct {
	Config       Config
	DocumentRepo indexing.DocumentRepository
	Logger       log.Logger
}

func New(ctx context.Context, deps Deps) (*Manager, error) {
	cfg := deps.Config
	processor, err := pgq.NewProcessor(ctx, cfg.PGQ)
	if err != nil {
		return nil, fmt.Errorf("new worker manager: %w", err)
	}

	w, err := worker.New(processor,
		worker.WithRunConfig(cfg.WorkerCount, cfg.PollInterval),
		worker.WithActivePollPercent(cfg.ActivePollPercent),
		worker.WithLogger(deps.Logger),
	)
	if err != nil {
		_ = processor.Close()
		return nil, fmt.Errorf("new worker manager: %w", err)
	}

	m := NewWithWorker(w, deps)
	m.processor = processor
	return m, nil
}

// NewWithWorker builds a Manager around an existing Worker. It has no
// queue of its own to close or report on.
func NewWithWorker(w Worker, deps Deps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNoop()
	}
	return &Manager{
		worker:  w,
		docRepo: deps.DocumentRepo,
		logger:  logger,
	}
}

// Run registers the job handlers and blocks processing jobs until ctx is
// done.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.init(); err != nil {
		return fmt.Errorf("run worker manager: init: %w", err)
	}
	return m.worker.Run(ctx)
}

func (m *Manager) init() error {
	if !m.initDone.CompareAndSwap(false, true) {
		return nil
	}

	handlers := map[string]worker.JobHandler{
		jobIndexDocument:  m.indexDocumentHandler(),
		jobDeleteDocument: m.deleteDocumentHandler(),
	}
	types := make([]string, 0, len(handlers))
	for typ, h := range handlers {
		if err := m.worker.Register(typ, h); err != nil {
			return err
		}
		types = append(types, typ)
	}
	sort.Strings(types)

	if m.processor == nil {
		return nil
	}
	return m.registerStatsCallback(types)
}

func (m *Manager) Close() error {
	if m.processor == nil {
		return nil
	}
	return m.processor.Close()
}

func (m *Manager) registerStatsCallback(jobTypes []string) error {
	const attrJobType = attribute.Key("job.type")

	meter := otel.Meter("github.com/goto/labsearch/internal/workermanager")
	activeJobs, err := meter.Int64ObservableGauge("labsearch.worker.active_jobs")
	if err != nil {
		return fmt.Errorf("register active jobs gauge: %w", err)
	}
	deadJobs, err := meter.Int64ObservableGauge("labsearch.worker.dead_jobs")
	if err != nil {
		return fmt.Errorf("register dead jobs gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		stats, err := m.processor.Stats(ctx)
		if err != nil {
			return err
		}

		byType := make(map[string]worker.JobTypeStats, len(stats))
		for _, st := range stats {
			byType[st.Type] = st
		}
		for _, typ := range jobTypes {
			st := byType[typ]
			attrs := metric.WithAttributes(attrJobType.String(typ))
			o.ObserveInt64(activeJobs, int64(st.Active), attrs)
			o.ObserveInt64(deadJobs, int64(st.Dead), attrs)
		}
		return nil
	}, activeJobs, deadJobs)
	return err
}
