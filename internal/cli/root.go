// Package cli provides the command-line interface for the trading application.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-trader/internal/config"
	"options-trader/internal/logging"
	"options-trader/internal/provider"
	"options-trader/internal/store"
	"options-trader/internal/volatility"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Provider  provider.QuoteProvider
	Submitter provider.OrderSubmitter
	Engine    *volatility.Engine
	Journal   store.Journal
}

// NewRootCmd creates the root command for the CLI. configDir is the
// resolved --config directory; the metrics cache and the journal DB
// live under it, so an empty value falls back to the default dir.
func NewRootCmd(cfg *config.Config, configDir string, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Only paper mode is wired; a live provider plugs in here.
	paper := provider.NewPaperProvider(provider.PaperConfig{})
	app.Provider = provider.WithRetry(paper, provider.DefaultRetryConfig())
	app.Submitter = paper

	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}
	cache := volatility.NewCacheService(config.CacheDir(configDir))
	app.Engine = volatility.NewEngine(app.Provider, cache, logger)

	dbPath := filepath.Join(configDir, "trader.db")
	journal, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize journal, trades will not be recorded")
	} else {
		app.Journal = journal
	}

	rootCmd := &cobra.Command{
		Use:   "options-trader",
		Short: "Volatility-driven options trading CLI",
		Long: `options-trader decides, sizes, and constructs bounded-risk options
trades from implied-volatility conditions, validating each candidate
against portfolio risk limits before submission.

Use 'options-trader help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newMetricsCmd(app))
	rootCmd.AddCommand(newRegimeCmd(app))
	rootCmd.AddCommand(newSignalCmd(app))
	rootCmd.AddCommand(newPlanCmd(app))
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newJournalCmd(app))
	rootCmd.AddCommand(newCacheCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "options-trader %s (built %s)\n", Version, BuildDate)
		},
	}
}
