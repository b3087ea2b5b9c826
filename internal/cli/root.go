package cli

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-pricer/internal/config"
	"options-pricer/internal/logging"
	"options-pricer/internal/marketdata"
	"options-pricer/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.OrderStore
	provider marketdata.Provider
}

// MarketData returns the market data provider, connecting on first use.
// The bridge is probed once; unreachable bridges fall back to mock data.
func (a *App) MarketData(ctx context.Context) marketdata.Provider {
	if a.provider == nil {
		a.provider = marketdata.NewProvider(ctx, a.Config.DataSource, a.Logger)
	}
	return a.provider
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite blotter store
	blotterStore, err := store.NewSQLiteStore(cfg.Blotter.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize blotter store, blotter commands unavailable")
	} else {
		app.Store = blotterStore
		logger.Debug().Str("path", cfg.Blotter.DBPath).Msg("Blotter store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "pricer",
		Short: "Options pricer - broker shorthand parser and structure pricer",
		Long: `Options pricer parses free-form broker shorthand for multi-leg equity
option orders and prices the resulting structures from per-leg market data.

Examples of accepted shorthand:
  AAPL Jun26 240/220 PS 1X2 vs250 15d 500x @ 3.50
  SPY Dec25 450/470 CS 2000x 4.20 bid
  TSLA Mar26 200/300 RR vs245 25d

Use 'pricer help <command>' for more information about a command.`,
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

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-pricer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newParseCmd(app))
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newTheoCmd(app))
	rootCmd.AddCommand(newBlotterCmd(app))

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
			} else {
				output.Printf("Options Pricer v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"path": config.DefaultConfigDir(),
					"file": filepath.Join(config.DefaultConfigDir(), "config.yaml"),
				})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Data Source")
	source := "bridge"
	if cfg.DataSource.UseMock {
		source = "mock"
	}
	output.Printf("  Source:          %s\n", source)
	output.Printf("  Bridge:          %s:%d\n", cfg.DataSource.BridgeHost, cfg.DataSource.BridgePort)
	output.Printf("  Timeout:         %ds\n", cfg.DataSource.TimeoutSec)
	output.Println()

	output.Bold("Pricing Defaults")
	output.Printf("  Risk-Free Rate:  %.2f%%\n", cfg.Pricing.RiskFreeRate*100)
	output.Printf("  Dividend Yield:  %.2f%%\n", cfg.Pricing.DividendYield*100)
	output.Printf("  Default Vol:     %.0f%%\n", cfg.Pricing.DefaultVol*100)
	output.Println()

	output.Bold("Blotter")
	output.Printf("  Database:        %s\n", cfg.Blotter.DBPath)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)
}
