package testutils

import (
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/goto/labsearch/pkg/worker/pgq"
	"github.com/goto/salt/log"
	_ "github.com/jackc/pgx/v4/stdlib" // register pgx driver
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const logLevelDebug = "debug"

// RunTestPG starts a disposable Postgres container and returns a config
// pointing at it. The test is skipped when no docker daemon is reachable.
func RunTestPG(t *testing.T, logger log.Logger) pgq.Config {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	cfg := pgq.Config{
		Host:     "localhost",
		Name:     "labsearch_test",
		Username: "test_user",
		Password: "test_pass",
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "13",
		Env: []string{
			"POSTGRES_PASSWORD=" + cfg.Password,
			"POSTGRES_USER=" + cfg.Username,
			"POSTGRES_DB=" + cfg.Name,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("purge postgres container: %v", err)
		}
	})

	if logger.Level() == logLevelDebug {
		waiter, err := pool.Client.AttachToContainerNonBlocking(docker.AttachToContainerOptions{
			Container:    resource.Container.ID,
			OutputStream: logger.Writer(),
			ErrorStream:  logger.Writer(),
			Stdout:       true,
			Stderr:       true,
			Stream:       true,
		})
		if err == nil {
			t.Cleanup(func() { _ = waiter.Close() })
		}
	}

	if err := resource.Expire(120); err != nil {
		t.Fatalf("expire postgres container: %v", err)
	}

	cfg.Port, err = strconv.Atoi(resource.GetPort("5432/tcp"))
	if err != nil {
		t.Fatalf("parse postgres port: %v", err)
	}

	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		db, err := sql.Open("pgx", cfg.ConnectionString())
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect to postgres container: %v", fmt.Errorf("retry: %w", err))
	}

	return cfg
}
