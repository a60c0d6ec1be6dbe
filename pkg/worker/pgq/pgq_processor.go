package pgq

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/goto/labsearch/pkg/worker"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx" // register instrumented pgx driver
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

const (
	pgDriverName  = "nrpgx"
	instanceName  = "pgq"
	jobsTable     = "jobs_queue"
	deadJobsTable = "dead_jobs"
)

var jobColumns = []string{
	"id", "type", "run_at", "payload", "created_at",
	"updated_at", "attempts_done", "last_attempt_at", "last_error",
}

// Processor is a worker.JobProcessor backed by a Postgres table. Jobs are
// locked with FOR UPDATE SKIP LOCKED so several workers can share a queue.
type Processor struct {
	db *sql.DB
}

func NewProcessor(ctx context.Context, cfg Config) (*Processor, error) {
	driverName, err := otelsql.Register(pgDriverName,
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
		otelsql.WithInstanceName(instanceName),
	)
	if err != nil {
		return nil, fmt.Errorf("new pgq processor: %w", err)
	}

	db, err := sql.Open(driverName, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("new pgq processor: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new pgq processor: %w", err)
	}

	if err := otelsql.RecordStats(db,
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
		otelsql.WithInstanceName(instanceName),
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new pgq processor: record stats: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if lifetime := cfg.ConnMaxLifetimeWithJitter(); lifetime > 0 {
		db.SetConnMaxLifetime(lifetime)
	}
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &Processor{db: db}, nil
}

// NewProcessorWithDB wraps an already opened database.
func NewProcessorWithDB(db *sql.DB) *Processor {
	return &Processor{db: db}
}

func (p *Processor) Enqueue(ctx context.Context, jobs ...worker.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	insert := sq.Insert(jobsTable).
		Columns("id", "type", "run_at", "payload", "created_at", "updated_at")
	for _, j := range jobs {
		insert = insert.Values(j.ID.String(), j.Type, j.RunAt.UTC(), j.Payload, j.CreatedAt.UTC(), j.UpdatedAt.UTC())
	}

	_, err := insert.PlaceholderFormat(sq.Dollar).RunWith(p.db).ExecContext(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("enqueue jobs: %w: %s", worker.ErrJobExists, pgErr.Detail)
		}
		return fmt.Errorf("enqueue jobs: %w", err)
	}
	return nil
}

func (p *Processor) Process(ctx context.Context, types []string, fn worker.JobExecutorFunc) error {
	err := p.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		job, err := pickupJob(ctx, tx, types)
		if errors.Is(err, sql.ErrNoRows) {
			return worker.ErrNoJob
		}
		if err != nil {
			return fmt.Errorf("pickup job: %w", err)
		}

		result := fn(ctx, job)
		switch result.Status {
		case worker.StatusDone:
			return clearJob(ctx, tx, result)
		case worker.StatusDead:
			return markJobDead(ctx, tx, result)
		default:
			return setupRetry(ctx, tx, result)
		}
	})
	if err != nil {
		return fmt.Errorf("pgq process: %w", err)
	}
	return nil
}

func (p *Processor) Stats(ctx context.Context) ([]worker.JobTypeStats, error) {
	const query = `SELECT COALESCE(active.type, dead.type) AS type,
	COALESCE(active.cnt, 0) AS active_count,
	COALESCE(dead.cnt, 0) AS dead_count
FROM (SELECT type, count(id) AS cnt FROM jobs_queue GROUP BY type) AS active
FULL JOIN (SELECT type, count(id) AS cnt FROM dead_jobs GROUP BY type) AS dead
	ON active.type = dead.type
ORDER BY 1`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgq stats: run query: %w", err)
	}
	defer rows.Close()

	var stats []worker.JobTypeStats
	for rows.Next() {
		var st worker.JobTypeStats
		if err := rows.Scan(&st.Type, &st.Active, &st.Dead); err != nil {
			return nil, fmt.Errorf("pgq stats: scan row: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgq stats: %w", err)
	}
	return stats, nil
}

func (p *Processor) Close() error { return p.db.Close() }
