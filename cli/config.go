package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/labsearch/core/search"
	"github.com/goto/labsearch/core/validator"
	"github.com/goto/labsearch/internal/server"
	"github.com/goto/labsearch/internal/store/bleve"
	esStore "github.com/goto/labsearch/internal/store/elasticsearch"
	"github.com/goto/labsearch/internal/workermanager"
	"github.com/goto/labsearch/pkg/statsd"
	"github.com/goto/labsearch/pkg/telemetry"
	"github.com/goto/salt/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	configFlag     = "config"
	configFileName = "labsearch.yaml"
	envPrefix      = "LABSEARCH"

	driverElasticsearch = "elasticsearch"
	driverBleve         = "bleve"
)

type Config struct {
	// Log
	LogLevel string `yaml:"log_level" mapstructure:"log_level" default:"info"`

	// Service
	Service server.Config `yaml:"service" mapstructure:"service"`

	// Search engine
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`

	// Federated search
	Search search.Config `yaml:"search" mapstructure:"search"`

	// Write path
	Indexing IndexingConfig `yaml:"indexing" mapstructure:"indexing"`

	// StatsD
	StatsD statsd.Config `yaml:"statsd" mapstructure:"statsd"`

	// Telemetry
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

type EngineConfig struct {
	Driver        string         `yaml:"driver" mapstructure:"driver" default:"elasticsearch"`
	Elasticsearch esStore.Config `yaml:"elasticsearch" mapstructure:"elasticsearch"`
	Bleve         bleve.Config   `yaml:"bleve" mapstructure:"bleve"`
}

type IndexingConfig struct {
	// Targets maps each entity kind written by the lab services to the index
	// holding it.
	Targets map[string]string    `yaml:"targets" mapstructure:"targets"`
	Worker  workermanager.Config `yaml:"worker" mapstructure:"worker"`
}

// WriteTargets returns the configured targets, or one per default index.
func (cfg IndexingConfig) WriteTargets() map[string]string {
	if len(cfg.Targets) > 0 {
		return cfg.Targets
	}
	return map[string]string{
		"project":      "projects",
		"sample":       "samples",
		"illumina_run": "illumina_runs",
	}
}

func (cfg *Config) telemetryConfig() telemetry.Config {
	tc := cfg.Telemetry
	tc.AppVersion = Version
	tc.EngineDriver = cfg.Engine.Driver
	tc.Indexes = cfg.Search.IndexNames()
	return tc
}

func (cfg *Config) validate() error {
	if err := validator.ValidateOneOf(cfg.Engine.Driver, driverElasticsearch, driverBleve); err != nil {
		return fmt.Errorf("engine.driver: %w", err)
	}
	return nil
}

// LoadConfig reads labsearch.yaml from the working directory. Defaults are
// returned along with ErrConfigNotFound when there is no such file.
func LoadConfig() (*Config, error) {
	var cfg Config
	err := config.NewLoader(
		config.WithPath("./"),
		config.WithName(configFileName),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix(envPrefix),
	).Load(&cfg)
	if err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return &cfg, ErrConfigNotFound
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadConfigFromFlag(cfgFile string, cfg *Config) error {
	return config.NewLoader(
		config.WithFile(cfgFile),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix(envPrefix),
	).Load(cfg)
}

func configCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage labsearch configuration",
		Example: heredoc.Doc(`
			$ labsearch config init
			$ labsearch config list`),
	}

	cmd.AddCommand(configInitCommand(cfg))
	cmd.AddCommand(configListCommand(cfg))

	return cmd
}

func configInitCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a labsearch.yaml with default values to the working directory",
		Example: heredoc.Doc(`
			$ labsearch config init
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(configFileName); err == nil {
				return fmt.Errorf("%s already exists", configFileName)
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if err := os.WriteFile(configFileName, out, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config created: %s\n", configFileName)
			return nil
		},
	}
}

func configListCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configuration in use",
		Example: heredoc.Doc(`
			$ labsearch config list
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(*cfg)
		},
	}
}
