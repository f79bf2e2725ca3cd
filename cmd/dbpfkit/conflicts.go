package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/simtools/dbpfkit/internal/cache"
	"github.com/simtools/dbpfkit/internal/config"
	"github.com/simtools/dbpfkit/internal/scan"
	"github.com/simtools/dbpfkit/internal/utils"
	"github.com/spf13/cobra"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <path>...",
	Short: "Find packages that override each other's resources",
	Long: `Conflicts scans directories of .package files and reports pairs of packages
claiming the same resource ids. The game loads later files over earlier ones,
so each report names the overridden package first and the winning one second,
followed by the contested ids.

Scan results are cached per file, so repeated runs only parse packages that
changed since the last scan.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		filter, err := config.FilterTypes(cfg.Filter)
		if err != nil {
			return err
		}

		scanCache := openScanCache()

		options := scan.DefaultScannerOptions()
		options.Workers = cfg.Workers
		if filter != nil {
			options.Filter = filter
		}
		options.Cache = scanCache

		// The scanner serializes progress calls, and the channel receive on
		// errc orders them before the reads below.
		var progress *utils.Progress
		scanned := 0
		options.Progress = func(path string, done, total int) {
			if progress == nil {
				progress = utils.NewProgress(total, progressEnabled())
				scanned = total
			}
			if path != "" {
				progress.Update(done, filepath.Base(path))
			}
		}

		scanner := scan.NewScanner(options)
		out := make(chan scan.Conflict, 64)
		errc := make(chan error, 1)
		go func() {
			errc <- scanner.FindConflicts(cmd.Context(), args, out)
		}()

		var records []scan.Conflict
		for conflict := range out {
			records = append(records, conflict)
		}
		if err := <-errc; err != nil {
			return err
		}
		if progress != nil {
			progress.Finish()
		}

		for _, record := range records {
			fmt.Printf("%s --> %s\n", record.Original, record.New)
			for _, id := range record.TGIs {
				fmt.Println(id)
			}
			fmt.Println()
		}

		if scanCache != nil {
			if err := scanCache.Save(); err != nil {
				slog.Warn("Failed to save scan cache", "error", err)
			}
		}

		fmt.Printf("Packages scanned: %d\n", scanned)
		fmt.Printf("Conflicts found: %d\n", len(records))
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(start)))

		return nil
	},
}

// openScanCache opens the configured scan cache. A missing or unreadable
// cache file degrades to scanning everything, not to an error.
func openScanCache() *cache.Cache {
	if cfg.NoCache {
		return nil
	}
	path := cfg.CachePath
	if path == "" {
		path = cache.DefaultPath()
	}
	c, err := cache.Open(path)
	if err != nil {
		slog.Warn("Ignoring unreadable scan cache", "path", path, "error", err)
		return nil
	}
	return c
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}
