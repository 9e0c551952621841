package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/toastkit/toastkit/internal/adapter"
	"github.com/toastkit/toastkit/internal/adapter/connectivity"
	"github.com/toastkit/toastkit/internal/adapter/heartbeat"
	"github.com/toastkit/toastkit/internal/audio"
	"github.com/toastkit/toastkit/internal/config"
	"github.com/toastkit/toastkit/internal/controller"
	"github.com/toastkit/toastkit/internal/display"
	"github.com/toastkit/toastkit/internal/tui"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		anchor     string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "toastd",
	Short: "In-app notification stack for terminal applications",
	Long: `toastd manages a stack of transient in-app notifications.

It queues messages by priority, suppresses repeats, caps group and
total counts, and auto-dismisses by severity.

Running toastd without a subcommand launches the interactive demo.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Load configuration
		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// CLI flag overrides the config file anchor
		if globalOpts.anchor != "" {
			cfg.Display.Anchor = globalOpts.anchor
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
		}

		return nil
	},
	// Default to the demo TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/toastd/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.anchor, "anchor", "",
		"Stack anchor (top-left, top-center, top-right, bottom-left, bottom-center, bottom-right)")

	rootCmd.AddCommand(configCmd)
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// runDemo wires the full stack and runs the interactive demo.
func runDemo(cmd *cobra.Command, args []string) error {
	ctrl := controller.New(controller.WithLogger(logger))

	audioMgr := audio.NewManager(cfg, logger)
	defer audioMgr.Close()

	sched := display.NewScheduler(ctrl,
		display.WithSchedulerLogger(logger),
		display.WithOnAdmit(audioMgr.OnAdmit),
	)
	sched.Start()
	defer sched.Stop()

	// Demo sources: faults during init or dispose are contained.
	var sources []adapter.Source
	if cfg.Demo.Heartbeat {
		sources = append(sources, heartbeat.New(logger,
			cfg.Demo.HeartbeatInterval.Duration(), 1500*time.Millisecond))
	}
	if cfg.Demo.Connectivity {
		sources = append(sources, connectivity.New(logger))
	}
	set := adapter.NewSet(logger, sources...)
	set.InitializeAll(cmd.Context(), ctrl)
	defer set.DisposeAll()

	// Hot-reload config for the audio layer; display geometry is read
	// at startup.
	watcher, err := config.NewWatcher(globalOpts.configPath, func(next *config.Config) {
		audioMgr.Reconfigure(next)
	}, logger)
	if err != nil {
		logger.Warn("config watcher unavailable", "error", err)
	} else {
		if err := watcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}
		defer func() { _ = watcher.Stop() }()
	}

	program := tea.NewProgram(
		tui.New(cfg, ctrl, sched),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// configCmd prints the effective configuration as TOML.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as TOML.

The output merges built-in defaults with the config file and any CLI
overrides, and can be redirected to create a starting config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# toastd configuration (path: %s)\n", config.ConfigPath())
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}
