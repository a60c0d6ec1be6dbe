package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/labsearch/internal/server"
	"github.com/goto/labsearch/internal/workermanager"
	"github.com/goto/labsearch/pkg/statsd"
	"github.com/goto/labsearch/pkg/telemetry"
	"github.com/goto/labsearch/pkg/worker/pgq"
	"github.com/goto/salt/log"
	"github.com/spf13/cobra"
)

func serverCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server <command>",
		Aliases: []string{"s"},
		Short:   "Run labsearch server",
		Long:    "Server management commands.",
		Example: heredoc.Doc(`
			$ labsearch server start
			$ labsearch server start -c ./labsearch.yaml
			$ labsearch server migrate
		`),
	}

	cmd.AddCommand(
		serverStartCommand(cfg),
		serverMigrateCommand(cfg),
	)

	return cmd
}

func serverStartCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "start",
		Short:   "Start server on default port 8080",
		Example: "labsearch server start",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runServer(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("run server: %w", err)
			}
			return nil
		},
	}
}

func serverMigrateCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing indexes and bring the job queue schema up to date",
		Example: heredoc.Doc(`
			$ labsearch server migrate
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrations(cmd.Context(), cfg)
		},
	}
}

func runServer(ctx context.Context, cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	logger := initLogger(cfg.LogLevel)
	logger.Info("labsearch starting", "version", Version)

	registry, err := initRegistry(cfg)
	if err != nil {
		return err
	}

	nrApp, cleanUp, err := telemetry.Init(ctx, cfg.telemetryConfig(), logger)
	if err != nil {
		return err
	}
	defer cleanUp()

	statsdReporter, err := statsd.Init(logger, cfg.StatsD)
	if err != nil {
		return err
	}
	defer statsdReporter.Close()

	eng, err := initEngine(ctx, logger, cfg.Engine)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error("close search engine", "err", err)
		}
	}()

	publisher, err := initPublisher(ctx, workermanager.Deps{
		Config:       cfg.Indexing.Worker,
		DocumentRepo: eng,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("close publisher", "err", err)
		}
	}()

	coordinator := search.NewCoordinator(registry, eng,
		search.WithConfig(cfg.Search),
		search.WithLogger(logger),
		search.WithStatsDReporter(statsdReporter),
	)
	indexingService := indexing.NewService(registry, publisher, logger)

	handler := server.NewHandler(logger, nrApp, coordinator, indexingService)
	return server.Serve(ctx, cfg.Service, logger, handler)
}

func initLogger(logLevel string) *log.Logrus {
	return log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(os.Stdout),
	)
}

func initPublisher(ctx context.Context, deps workermanager.Deps) (indexing.Publisher, error) {
	if !deps.Config.Enabled {
		return workermanager.NewInSituWorker(deps), nil
	}

	mgr, err := workermanager.New(ctx, deps)
	if err != nil {
		return nil, err
	}

	return mgr, nil
}

func runMigrations(ctx context.Context, cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	logger := initLogger(cfg.LogLevel)
	logger.Info("labsearch is migrating", "version", Version)

	if cfg.Indexing.Worker.Enabled {
		logger.Info("migrating job queue")
		version, err := pgq.Migrate(cfg.Indexing.Worker.PGQ)
		if err != nil {
			return fmt.Errorf("migrate job queue: %w", err)
		}
		logger.Info("job queue migration done", "version", version)
	}

	return migrateIndexes(ctx, logger, cfg)
}

func migrateIndexes(ctx context.Context, logger log.Logger, cfg *Config) error {
	registry, err := initRegistry(cfg)
	if err != nil {
		return err
	}

	eng, err := initEngine(ctx, logger, cfg.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	logger.Info("migrating indexes", "indexes", registry.Names())
	if err := eng.Migrate(ctx, registry.Names()...); err != nil {
		return fmt.Errorf("migrate indexes: %w", err)
	}
	logger.Info("index migration done")

	return nil
}
