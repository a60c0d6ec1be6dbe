package pgq

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/goto/labsearch/pkg/worker"
	"github.com/oklog/ulid/v2"
)

func (p *Processor) withTx(ctx context.Context, fn func(context.Context, *sql.Tx) error) (err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func pickupJob(ctx context.Context, r sq.BaseRunner, types []string) (worker.Job, error) {
	var (
		job           worker.Job
		id            string
		lastAttemptAt sql.NullTime
		lastErr       sql.NullString
	)
	err := sq.Select(jobColumns...).
		From(jobsTable).
		Where(sq.Eq{"type": types}).
		Where("run_at <= current_timestamp").
		OrderBy("id ASC").
		Limit(1).
		Suffix("FOR UPDATE SKIP LOCKED").
		PlaceholderFormat(sq.Dollar).
		RunWith(r).
		QueryRowContext(ctx).
		Scan(&id, &job.Type, &job.RunAt, &job.Payload, &job.CreatedAt,
			&job.UpdatedAt, &job.AttemptsDone, &lastAttemptAt, &lastErr)
	if err != nil {
		return worker.Job{}, err
	}

	if job.ID, err = ulid.ParseStrict(id); err != nil {
		return worker.Job{}, fmt.Errorf("parse job id %q: %w", id, err)
	}
	job.LastAttemptAt = lastAttemptAt.Time
	job.LastError = lastErr.String
	return job, nil
}

func clearJob(ctx context.Context, r sq.BaseRunner, job worker.Job) error {
	res, err := sq.Delete(jobsTable).
		Where(sq.Eq{"id": job.ID.String()}).
		PlaceholderFormat(sq.Dollar).
		RunWith(r).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("clear job: %w", err)
	}
	return expectOneRow(res, "clear job")
}

func markJobDead(ctx context.Context, r sq.BaseRunner, job worker.Job) error {
	_, err := sq.Insert(deadJobsTable).
		Columns("id", "type", "payload", "created_at", "updated_at", "attempts_done", "last_attempt_at", "last_error").
		Values(job.ID.String(), job.Type, job.Payload, job.CreatedAt.UTC(),
			job.UpdatedAt.UTC(), job.AttemptsDone, job.LastAttemptAt.UTC(), job.LastError).
		PlaceholderFormat(sq.Dollar).
		RunWith(r).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("mark job dead: %w", err)
	}
	return clearJob(ctx, r, job)
}

func setupRetry(ctx context.Context, r sq.BaseRunner, job worker.Job) error {
	res, err := sq.Update(jobsTable).
		Where(sq.Eq{"id": job.ID.String()}).
		Set("run_at", job.RunAt.UTC()).
		Set("updated_at", job.UpdatedAt.UTC()).
		Set("attempts_done", job.AttemptsDone).
		Set("last_attempt_at", job.LastAttemptAt.UTC()).
		Set("last_error", job.LastError).
		PlaceholderFormat(sq.Dollar).
		RunWith(r).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("setup job retry: %w", err)
	}
	return expectOneRow(res, "setup job retry")
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, n)
	}
	return nil
}
