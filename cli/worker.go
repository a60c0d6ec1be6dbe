package cli

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/labsearch/internal/workermanager"
	"github.com/goto/labsearch/pkg/telemetry"
	"github.com/spf13/cobra"
)

func workerCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "worker <command>",
		Aliases: []string{"w"},
		Short:   "Run labsearch indexing worker",
		Long:    "Worker management commands.",
		Example: heredoc.Doc(`
			$ labsearch worker start
			$ labsearch worker start -c ./labsearch.yaml
		`),
	}

	cmd.AddCommand(workerStartCommand(cfg))

	return cmd
}

func workerStartCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "start",
		Short:   "Start processing indexing jobs from the queue",
		Example: "labsearch worker start",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runWorker(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("run worker: %w", err)
			}
			return nil
		},
	}
}

func runWorker(ctx context.Context, cfg *Config) error {
	if !cfg.Indexing.Worker.Enabled {
		return errWorkerDisabled
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	logger := initLogger(cfg.LogLevel)
	logger.Info("labsearch worker starting", "version", Version)

	_, cleanUp, err := telemetry.Init(ctx, cfg.telemetryConfig(), logger)
	if err != nil {
		return err
	}
	defer cleanUp()

	eng, err := initEngine(ctx, logger, cfg.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	mgr, err := workermanager.New(ctx, workermanager.Deps{
		Config:       cfg.Indexing.Worker,
		DocumentRepo: eng,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			logger.Error("close worker manager", "err", err)
		}
	}()

	return mgr.Run(ctx)
}
