package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/simtools/dbpfkit/internal/dbpf"
	"github.com/simtools/dbpfkit/internal/scan"
	"github.com/simtools/dbpfkit/internal/utils"
	"github.com/spf13/cobra"
)

var holesCmd = &cobra.Command{
	Use:   "holes <path>...",
	Short: "Measure dead space left behind by in-place package editors",
	Long: `Holes reports the bytes inside each package that no index or directory
entry points at. Editors that update packages in place leave such gaps
behind; rewriting with recompress reclaims them.

Only packages with holes are listed. Unreadable packages are skipped with a
warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		files, err := scan.Discover(args)
		if err != nil {
			return err
		}

		var totalSize int64
		scanned := 0
		for _, path := range files {
			size, count, err := packageHoles(path)
			if err != nil {
				slog.Warn("Skipping unreadable package", "path", path, "error", err)
				continue
			}
			scanned++
			if size > 0 {
				fmt.Printf("%s: %s in %d holes\n", path, utils.Bytes(int64(size)), count)
				totalSize += int64(size)
			}
		}

		fmt.Printf("Total hole size: %s in %d files\n", utils.Bytes(totalSize), scanned)
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(start)))
		return nil
	},
}

func packageHoles(path string) (uint32, int, error) {
	f, err := dbpf.OpenFile(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	holes, err := f.Holes()
	if err != nil {
		return 0, 0, err
	}
	size, err := f.HoleSize()
	if err != nil {
		return 0, 0, err
	}
	return size, len(holes), nil
}

func init() {
	rootCmd.AddCommand(holesCmd)
}
