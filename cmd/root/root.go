// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"eerr/eerr-dashboard/internal/config"
	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/report"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Format string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "eerr",
		Short: "Build income statements (EERR) from branch workbooks and purchase ledgers.",
		Long: `eerr reads Consolidado and EERR workbooks, imports Libro de Compras ledgers,
classifies accounts into statement headings and renders monthly income
statements per branch or consolidated, as JSON, CSV, Excel, Markdown or HTML.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to eerr!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer == nil {
				return
			}
			if err := appContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
		},
		SilenceUsage: true,
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile is an explicit configuration file
	ConfigFile string

	appConfig    *config.Config
	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command and all flags. Calling it again is a no-op.
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
		flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory (stdout when empty)")
		flags.StringVarP(&SharedFlags.Format, "format", "f", string(report.FormatJSON), "Report format: json, csv, xlsx, md, html")
		flags.StringVar(&ConfigFile, "config", "", "Config file (default ./config.yaml, .eerr/ or $HOME/.eerr/)")
		flags.String("log-level", "", "Log level: debug, info, warn, error")
		flags.String("log-format", "", "Log format: text, json")
		flags.String("csv-delimiter", "", "CSV delimiter")
		flags.String("db", "", "SQLite database path")
		flags.String("rules", "", "Classification rules file")
	})
}

func setup(cmd *cobra.Command, _ []string) error {
	config.LoadEnv(nil)

	cfg, err := config.InitializeConfigFrom(ConfigFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	logging.SetDefault(Log)

	c, err := container.NewContainer(cfg, container.WithLogger(Log))
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	appConfig, appContainer = cfg, c
	return nil
}

// applyFlags copies explicitly set persistent flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	overrides := map[string]*string{
		"log-level":     &cfg.Log.Level,
		"log-format":    &cfg.Log.Format,
		"csv-delimiter": &cfg.CSV.Delimiter,
		"db":            &cfg.Database.Path,
		"rules":         &cfg.Classification.RulesFile,
	}
	for name, dst := range overrides {
		if !cmd.Flags().Changed(name) {
			continue
		}
		if v, err := cmd.Flags().GetString(name); err == nil {
			*dst = v
		}
	}
}

// GetLogrusAdapter returns the configured logger
func GetLogrusAdapter() logging.Logger {
	return Log
}

// GetContainer returns the dependency container built before the command ran
func GetContainer() *container.Container {
	return appContainer
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return appConfig
}

// GetFormat parses the --format flag.
func GetFormat() (report.Format, error) {
	return report.ParseFormat(SharedFlags.Format)
}
