package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/labsearch/core/indexing"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/labsearch/internal/workermanager"
	"github.com/goto/salt/printer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// fixture is a batch of documents bound for one index.
type fixture struct {
	Index     string              `yaml:"index"`
	Documents []indexing.Document `yaml:"documents"`
}

func indexCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <command>",
		Short: "Manage the registered indexes",
		Example: heredoc.Doc(`
			$ labsearch index check
			$ labsearch index migrate
			$ labsearch index load ./fixtures/samples.yaml
		`),
	}

	cmd.AddCommand(
		indexCheckCommand(cfg),
		indexMigrateCommand(cfg),
		indexLoadCommand(cfg),
	)

	return cmd
}

func indexCheckCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the write targets are registered and every index exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndexCheck(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func indexMigrateCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing indexes with the standard mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return migrateIndexes(cmd.Context(), initLogger(cfg.LogLevel), cfg)
		},
	}
}

func indexLoadCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Publish the documents of a YAML or JSON fixture file",
		Long: heredoc.Doc(`
			Publish documents through the write path. The file holds a list
			of batches, each naming an index and its documents.
		`),
		Example: heredoc.Doc(`
			$ labsearch index load ./fixtures.yaml

			# fixtures.yaml
			- index: samples
			  documents:
			    - id: S-1
			      name: liver biopsy
			      attributes:
			        - key: tissue
			          value: liver
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexLoad(cmd.Context(), cmd.OutOrStdout(), cfg, args[0])
		},
	}
}

func runIndexCheck(ctx context.Context, w io.Writer, cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	logger := initLogger(cfg.LogLevel)

	registry, err := initRegistry(cfg)
	if err != nil {
		return err
	}

	eng, err := initEngine(ctx, logger, cfg.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	return checkIndexes(ctx, w, registry, eng)
}

type indexChecker interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}

func checkIndexes(ctx context.Context, w io.Writer, registry search.Registry, checker indexChecker) error {
	report := [][]string{{"INDEX", "STATUS"}}

	var missing []string
	for _, name := range registry.Names() {
		ok, err := checker.IndexExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check index %q: %w", name, err)
		}

		status := "ok"
		if !ok {
			status = "missing"
			missing = append(missing, name)
		}
		report = append(report, []string{name, status})
	}
	printer.Table(w, report)

	if len(missing) > 0 {
		return fmt.Errorf("missing indexes %v: run \"labsearch index migrate\"", missing)
	}
	return nil
}

func runIndexLoad(ctx context.Context, w io.Writer, cfg *Config, path string) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	fixtures, err := parseFixtures(f)
	if err != nil {
		return err
	}

	logger := initLogger(cfg.LogLevel)

	registry, err := initRegistry(cfg)
	if err != nil {
		return err
	}

	eng, err := initEngine(ctx, logger, cfg.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	publisher, err := initPublisher(ctx, workermanager.Deps{
		Config:       cfg.Indexing.Worker,
		DocumentRepo: eng,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer publisher.Close()

	n, err := loadFixtures(ctx, indexing.NewService(registry, publisher, logger), fixtures)
	fmt.Fprintf(w, "published %d documents\n", n)
	return err
}

func parseFixtures(r io.Reader) ([]fixture, error) {
	var fixtures []fixture
	if err := yaml.NewDecoder(r).Decode(&fixtures); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	for i, fx := range fixtures {
		if fx.Index == "" {
			return nil, fmt.Errorf("parse fixture: batch %d: index is empty", i)
		}
	}
	return fixtures, nil
}

type documentPublisher interface {
	Publish(ctx context.Context, index string, doc indexing.Document) error
}

// loadFixtures publishes every document and stops at the first failure. It
// returns the number of documents published.
func loadFixtures(ctx context.Context, publisher documentPublisher, fixtures []fixture) (int, error) {
	var n int
	for _, fx := range fixtures {
		for _, doc := range fx.Documents {
			if err := publisher.Publish(ctx, fx.Index, doc); err != nil {
				return n, fmt.Errorf("load fixture: %w", err)
			}
			n++
		}
	}
	return n, nil
}
