package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

func New(cfg *Config) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "labsearch <command> <subcommand> [flags]",
		Short:         "Federated search over sequencing lab indexes",
		Long:          "Search projects, samples and sequencing runs across indexes in a single request.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: heredoc.Doc(`
			$ labsearch server start
			$ labsearch search "rna seq" --index projects --index samples
			$ labsearch index check
			$ labsearch worker start
		`),
		Annotations: map[string]string{
			"group": "core",
			"help:learn": heredoc.Doc(`
				Use 'labsearch <command> --help' for info about a command.
			`),
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, _ := cmd.Flags().GetString(configFlag)
			if cfgFile == "" {
				return nil
			}
			return LoadConfigFromFlag(cfgFile, cfg)
		},
	}

	rootCmd.AddCommand(
		serverCmd(cfg),
		searchCmd(cfg),
		indexCmd(cfg),
		workerCmd(cfg),
		configCommand(cfg),
		versionCmd(),
	)

	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "Override config file")

	return rootCmd
}
