// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sakura/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagDownload bool
	flagOutDir   string
	flagPlayer   string
	flagLine     int
	flagEpisode  int
	flagContinue bool
	flagJSON     bool
	flagFull     bool
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sakura [keyword]",
	Short: "Stream anime from dm569.com in the terminal",
	Long: `Sakura searches dm569.com, resolves episode stream URLs through the
site's player resolvers, and hands them to mpv/vlc or downloads them with ffmpeg.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              searchRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagDownload, "download", "d", false, "Download with ffmpeg instead of playing")
	rootCmd.PersistentFlags().StringVarP(&flagOutDir, "output", "o", "", "Download directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().IntVarP(&flagLine, "line", "l", 0, "Playback line number (1-based, 0 = ask)")
	rootCmd.PersistentFlags().IntVarP(&flagEpisode, "episode", "e", 0, "Episode number (1-based, 0 = ask)")
	rootCmd.PersistentFlags().BoolVarP(&flagContinue, "continue", "c", false, "Auto-resume from history")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output stream metadata as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagFull, "full", false, "Fetch and verify the playlist instead of trusting the resolver URL")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(detailCmd)
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
	if flagFull {
		cfg.PlayOnly = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logrus.SetOutput(os.Stderr)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	return nil
}

// timeout returns the configured HTTP timeout as a duration.
func timeout() time.Duration {
	return time.Duration(cfg.TimeoutSec) * time.Second
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sakura", Version)
	},
}
