// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"baggedflix/internal/config"
	"baggedflix/internal/history"
	"baggedflix/internal/watchlist"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagLanguage string
	flagNoSubs   bool
	flagPlayer   string
	flagJSON     bool
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger is the process logger, configured in loadConfig.
var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "baggedflix [query]",
	Short: "Browse and stream movies and TV shows from the terminal",
	Long: `Baggedflix is a terminal client for a streaming-media catalog.
Browse or search the catalog, keep a watchlist, and resume playback
where you left off.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              browseRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLanguage, "language", "l", "", "Subtitle language (default: english)")
	rootCmd.PersistentFlags().BoolVarP(&flagNoSubs, "no-subs", "n", false, "Disable subtitles")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player (mpv)")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output resolved stream as JSON instead of playing")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagLanguage != "" {
		cfg.SubsLanguage = flagLanguage
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := zerolog.WarnLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	return nil
}

// requireTTY guards the interactive views.
func requireTTY() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	return nil
}

// openHistory opens the watch-history store at its configured path.
func openHistory() (*history.Store, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, fmt.Errorf("resolving history path: %w", err)
	}
	return history.Open(path, logger), nil
}

// openWatchlist opens the watchlist store at its configured path.
func openWatchlist() (*watchlist.Store, error) {
	path, err := config.WatchlistPath()
	if err != nil {
		return nil, fmt.Errorf("resolving watchlist path: %w", err)
	}
	return watchlist.Open(path, logger), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("baggedflix", Version)
	},
}
