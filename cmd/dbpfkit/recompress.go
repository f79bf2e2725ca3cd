package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/simtools/dbpfkit/internal/dbpf"
	"github.com/simtools/dbpfkit/internal/scan"
	"github.com/simtools/dbpfkit/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var decompressPackages bool

var recompressCmd = &cobra.Command{
	Use:   "recompress <path>...",
	Short: "Rewrite packages with every entry compressed",
	Long: `Recompress rewrites each package with all entries compressed, regenerating
the compression directory and dropping holes. With --decompress entries are
stored raw instead.

Each package is rewritten through a temporary file, so a failure partway
leaves the original untouched. A package that cannot be rewritten is
reported and skipped; the rest still go through.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		files, err := scan.Discover(args)
		if err != nil {
			return err
		}

		progress := utils.NewProgress(len(files), progressEnabled())

		type result struct {
			path          string
			before, after int64
		}

		var (
			mu      sync.Mutex
			results []result
			done    int
		)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Workers)
		for _, path := range files {
			path := path
			g.Go(func() error {
				before, after, err := recompressPackage(ctx, path, decompressPackages)

				mu.Lock()
				defer mu.Unlock()
				done++
				progress.Update(done, filepath.Base(path))
				if err != nil {
					slog.Error("Failed to rewrite package", "path", path, "error", err)
					return nil
				}
				results = append(results, result{path: path, before: before, after: after})
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		progress.Finish()

		sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })

		var totalBefore, totalAfter int64
		for _, r := range results {
			fmt.Printf("%s: %s -> %s\n", r.path, utils.Bytes(r.before), utils.Bytes(r.after))
			totalBefore += r.before
			totalAfter += r.after
		}

		fmt.Printf("Packages rewritten: %d/%d\n", len(results), len(files))
		fmt.Printf("Before: %s\n", utils.Bytes(totalBefore))
		fmt.Printf("After: %s\n", utils.Bytes(totalAfter))
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(start)))
		return nil
	},
}

// recompressPackage rewrites one package with every entry converted to the
// target compression, returning the file size before and after.
func recompressPackage(ctx context.Context, path string, decompress bool) (before, after int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	before = info.Size()

	f, err := dbpf.OpenFile(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	entries, err := f.Entries()
	if err != nil {
		return 0, 0, err
	}

	target := dbpf.RefPack
	if decompress {
		target = dbpf.Uncompressed
	}
	for _, entry := range entries {
		if err := entry.SetCompression(ctx, target); err != nil {
			return 0, 0, fmt.Errorf("entry %s: %w", entry.TGI, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".dbpfkit-*.tmp")
	if err != nil {
		return 0, 0, err
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(ctx, tmp); err != nil {
		tmp.Close()
		return 0, 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, 0, err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return 0, 0, err
	}

	written, err := os.Stat(tmp.Name())
	if err != nil {
		return 0, 0, err
	}
	after = written.Size()

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, 0, err
	}
	return before, after, nil
}

func init() {
	rootCmd.AddCommand(recompressCmd)
	recompressCmd.Flags().BoolVar(&decompressPackages, "decompress", false, "store entries uncompressed instead")
}
