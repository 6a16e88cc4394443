// Package cli provides the command-line interface for the signal dashboard.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"signal-desk/internal/config"
	"signal-desk/internal/feed"
	"signal-desk/internal/logging"
	"signal-desk/internal/notify"
	"signal-desk/internal/pipeline"
	"signal-desk/internal/store"
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
	Fetcher  *feed.Fetcher
	Runner   *pipeline.Runner
	Notifier *notify.Multi
	Journal  store.Journal
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Fetcher: feed.New(),
	}
	app.Runner = pipeline.New(app.Fetcher, cfg.ScanSources(), cfg.Display.MaxRows, logger)
	app.Notifier = notify.NewMulti(cfg.Notifications)

	journal, err := store.NewSQLiteJournal(cfg.Server.JournalPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open push journal, history will be unavailable")
	} else {
		app.Journal = journal
		logger.Debug().Str("path", cfg.Server.JournalPath).Msg("Push journal opened")
	}

	rootCmd := &cobra.Command{
		Use:   "desk",
		Short: "Signal Desk - intraday scan dashboard",
		Long: `Signal Desk aggregates the scan feeds produced by the signal bot into a
single ranked board, and pushes the top picks to Telegram.

Four scans feed the board: 08:00 premarket squeeze, 10:00 open confirm,
13:45 midday pattern, 15:15 power hour. Each feed is a JSON file or URL.

Use 'desk help <command>' for more information about a command.`,
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
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/signal-desk)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newTopCmd(app))
	rootCmd.AddCommand(newOptionsCmd(app))
	rootCmd.AddCommand(newScansCmd(app))
	rootCmd.AddCommand(newPushCmd(app))
	rootCmd.AddCommand(newJournalCmd(app))
	rootCmd.AddCommand(newServeCmd(app))

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
				output.Printf("Signal Desk v%s\n", Version)
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
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Sources")
	output.Printf("  08:00 Squeeze:   %s\n", cfg.Sources.AM)
	output.Printf("  10:00 Confirm:   %s\n", cfg.Sources.Open)
	output.Printf("  13:45 Pattern:   %s\n", cfg.Sources.Lunch)
	output.Printf("  15:15 Power:     %s\n", cfg.Sources.Power)
	output.Println()

	output.Bold("Display")
	output.Printf("  Max Rows:        %d\n", cfg.Display.MaxRows)
	output.Printf("  Push Count:      %d\n", cfg.Display.PushCount)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:         %v\n", cfg.Notifications.Enabled)
	output.Printf("  Telegram:        %v\n", cfg.Notifications.Telegram.Enabled)
	output.Printf("  Webhook:         %v\n", cfg.Notifications.Webhook.Enabled)
	output.Println()

	output.Bold("Server")
	output.Printf("  Port:            %d\n", cfg.Server.Port)
	output.Printf("  Refresh:         %s\n", cfg.Server.ParseRefreshInterval())
	output.Printf("  Journal:         %s\n", cfg.Server.JournalPath)

	return nil
}
