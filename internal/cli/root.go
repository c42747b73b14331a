package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"smc-analyst/internal/config"
	"smc-analyst/internal/engine"
	"smc-analyst/internal/logging"
	"smc-analyst/internal/marketdata"
	"smc-analyst/internal/news"
	"smc-analyst/internal/notify"
	"smc-analyst/internal/risk"
	"smc-analyst/internal/scoring"
	"smc-analyst/internal/store"
)

// Version information, overridable at build time via -ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Provider marketdata.Provider
	News     *news.Fetcher
	Notifier notify.Notifier
	Analyst  *engine.Analyst
	Sessions risk.SessionWindows
	Limits   risk.Limits
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	limits := risk.Limits{
		MaxTradesPerDay:     cfg.Risk.MaxTradesPerDay,
		ConsecutiveLossStop: cfg.Risk.ConsecutiveLossStop,
		MaxDailyDrawdownPct: cfg.Risk.MaxDailyDrawdownPct,
		MinRiskReward:       cfg.Risk.MinRiskReward,
		MaxSpread:           cfg.Risk.MaxSpread,
		MinProbability:      cfg.Risk.MinProbability,
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Provider: marketdata.NewYahooProvider(),
		News:     news.NewFetcher(),
		Notifier: notify.NewMultiNotifier(&cfg.Notifications),
		Limits:   limits,
		Sessions: risk.SessionWindows{
			LondonStart:  cfg.Sessions.LondonStart,
			LondonEnd:    cfg.Sessions.LondonEnd,
			NewYorkStart: cfg.Sessions.NewYorkStart,
			NewYorkEnd:   cfg.Sessions.NewYorkEnd,
		},
	}

	scorer := scoring.Select(cfg.Scoring.ModelPath, logger)
	app.Analyst = engine.NewAnalyst(scorer, limits, logger)

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, persistence disabled")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "analyst",
		Short: "SMC Analyst - smart money concepts market analysis CLI",
		Long: `SMC Analyst evaluates instruments against smart money concepts:
order blocks, fair value gaps, premium/discount zones, market structure
shifts and liquidity sweeps, then scores and risk-validates the setup.

Use 'analyst help <command>' for more information about a command.`,
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
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/smc-analyst)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))
	rootCmd.AddCommand(newOutcomeCmd(app))
	rootCmd.AddCommand(newStatsCmd(app))

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
				output.Printf("SMC Analyst v%s\n", Version)
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
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
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

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create config templates and initialize the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			configDir, _ := cmd.Flags().GetString("config")
			if configDir == "" {
				configDir = config.DefaultConfigDir()
			}

			if err := config.WriteTemplates(configDir); err != nil {
				return err
			}
			output.Success("Config templates ready in %s", configDir)

			dataStore, err := store.NewSQLiteStore(configDir + "/analyst.db")
			if err != nil {
				return err
			}
			defer dataStore.Close()
			output.Success("Database schema initialized")
			return nil
		},
	}
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Risk Configuration")
	output.Printf("  Max Trades/Day:   %d\n", cfg.Risk.MaxTradesPerDay)
	output.Printf("  Loss Stop:        %d\n", cfg.Risk.ConsecutiveLossStop)
	output.Printf("  Max Drawdown:     %.1f%%\n", cfg.Risk.MaxDailyDrawdownPct)
	output.Printf("  Min Risk/Reward:  %.1f\n", cfg.Risk.MinRiskReward)
	output.Printf("  Max Spread:       %.2f\n", cfg.Risk.MaxSpread)
	output.Printf("  Min Probability:  %.0f%%\n", cfg.Risk.MinProbability)
	output.Println()

	output.Bold("Sessions (UTC)")
	output.Printf("  London:           %s - %s\n", cfg.Sessions.LondonStart, cfg.Sessions.LondonEnd)
	output.Printf("  New York:         %s - %s\n", cfg.Sessions.NewYorkStart, cfg.Sessions.NewYorkEnd)
	output.Println()

	output.Bold("Instruments")
	for _, ins := range cfg.Instruments {
		state := "disabled"
		if ins.Enabled {
			state = "enabled"
		}
		output.Printf("  %-10s %-12s %-8s %s\n", ins.Name, ins.YahooSymbol, ins.AssetClass, state)
	}
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:          %v\n", cfg.Notifications.Enabled)
	output.Printf("  Email:            %v\n", cfg.Notifications.Email.Enabled)

	return nil
}
