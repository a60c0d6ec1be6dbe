package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/labsearch/core/search"
	"github.com/spf13/cobra"
)

type searchFlags struct {
	indexes   []string
	page      int
	perPage   int
	sortBy    string
	sortOrder string
}

func searchCmd(cfg *Config) *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search one or more indexes and print the aggregated response",
		Long: heredoc.Doc(`
			Run a federated search against the configured engine.

			Every whitespace separated token of <text> must occur in a
			document. Use "*" to match every document.
		`),
		Example: heredoc.Doc(`
			$ labsearch search "rna seq"
			$ labsearch search S-12 --index samples --index illumina_runs
			$ labsearch search "*" --index projects --sort-by name --sort-order desc
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), cfg, strings.Join(args, " "), flags)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.indexes, "index", "i", nil, "Index to search, repeatable (default all registered)")
	cmd.Flags().IntVar(&flags.page, "page", search.DefaultPage, "Page number, starting at 1")
	cmd.Flags().IntVar(&flags.perPage, "per-page", search.DefaultPerPage, "Results per index and page")
	cmd.Flags().StringVar(&flags.sortBy, "sort-by", "", "Field to sort on")
	cmd.Flags().StringVar(&flags.sortOrder, "sort-order", search.SortAscending, "Sort order, asc or desc")

	return cmd
}

func runSearch(ctx context.Context, w io.Writer, cfg *Config, text string, flags searchFlags) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	logger := initLogger(cfg.LogLevel)

	registry, err := search.NewRegistry(cfg.Search.IndexNames()...)
	if err != nil {
		return fmt.Errorf("build index registry: %w", err)
	}

	eng, err := initEngine(ctx, logger, cfg.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	coordinator := search.NewCoordinator(registry, eng,
		search.WithConfig(cfg.Search),
		search.WithLogger(logger),
	)

	resp, err := coordinator.Search(ctx, searchRequest(registry, text, flags))
	if err != nil {
		return err
	}

	return writeIndentedJSON(w, resp)
}

func searchRequest(registry search.Registry, text string, flags searchFlags) search.Request {
	indexes := flags.indexes
	if len(indexes) == 0 {
		indexes = registry.Names()
	}
	return search.Request{
		Indexes:   indexes,
		Query:     text,
		Page:      flags.page,
		PerPage:   flags.perPage,
		SortBy:    flags.sortBy,
		SortOrder: flags.sortOrder,
	}
}

func writeIndentedJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
