package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/simtools/dbpfkit/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	dbPath      string
	workers     int
	filterTypes []string
	cachePath   string
	noCache     bool
	logLevel    string
	logFormat   string
	noProgress  bool
)

var rootCmd = &cobra.Command{
	Use:   "dbpfkit",
	Short: "Sims 2 package inspection and repair tool",
	Long: `dbpfkit reads and writes the DBPF package files The Sims 2 stores its
game resources and mods in.

It finds mods that override each other's resources, rewrites packages to
reclaim dead space, extracts resources into loose files, and builds a
queryable SQLite catalog of a whole downloads folder.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		if cmd.Flags().Changed("filter") {
			cfg.Filter = filterTypes
		}
		if cmd.Flags().Changed("cache-path") {
			cfg.CachePath = cachePath
		}
		if cmd.Flags().Changed("no-cache") {
			cfg.NoCache = noCache
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		if cfg.Workers < 1 {
			return fmt.Errorf("invalid worker count %d, must be at least 1", cfg.Workers)
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)

		slog.Debug("Configuration",
			"database", cfg.Database,
			"workers", cfg.Workers,
			"filter", cfg.Filter,
			"cache_path", cfg.CachePath,
			"no_cache", cfg.NoCache,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

// progressEnabled gates the progress bar the same way logging is set up:
// no bar when output is machine-read or debug logs would tear it apart.
func progressEnabled() bool {
	return !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is dbpfkit.yaml in pwd or home)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "catalog database file path")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "number of packages parsed in parallel")
	rootCmd.PersistentFlags().StringSliceVar(&filterTypes, "filter", []string{}, "comma-separated resource types for conflict scans (BHAV, 0x42434F4E, ...)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache-path", "", "scan cache file path")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "scan without reading or writing the cache")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
