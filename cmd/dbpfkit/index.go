package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/simtools/dbpfkit/internal/database"
	"github.com/simtools/dbpfkit/internal/dbpf"
	"github.com/simtools/dbpfkit/internal/export"
	"github.com/simtools/dbpfkit/internal/scan"
	"github.com/simtools/dbpfkit/internal/utils"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <path>...",
	Short: "Build a SQLite catalog of every resource in a package tree",
	Long: `Index parses each package under the given paths and records the package and
all its resources in a SQLite database for querying. Types that embed their
own name are catalogued under it.

Re-indexing a package replaces its previous rows, so the catalog can be
refreshed in place after a downloads folder changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		files, err := scan.Discover(args)
		if err != nil {
			return err
		}

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("creating database: %w", err)
		}
		defer db.Close()

		if err := db.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		writer := database.NewCatalogWriter(db, nil)
		progress := utils.NewProgress(len(files), progressEnabled())

		indexed := 0
		var resources int64
		for i, path := range files {
			progress.Update(i+1, filepath.Base(path))
			n, err := indexPackage(ctx, writer, path)
			if err != nil {
				slog.Warn("Skipping package", "path", path, "error", err)
				continue
			}
			indexed++
			resources += n
		}
		progress.Finish()

		elapsed := time.Since(start)
		rate := 0.0
		if secs := elapsed.Seconds(); secs > 0 {
			rate = float64(resources) / secs
		}

		fmt.Printf("Packages indexed: %d/%d\n", indexed, len(files))
		fmt.Printf("Resources recorded: %s\n", utils.Number(resources))
		fmt.Printf("Insertion rate: %s rows/sec\n", utils.Rate(rate))
		fmt.Printf("Duration: %s\n", utils.Duration(elapsed))
		if packages, total, err := db.Counts(ctx); err == nil {
			fmt.Printf("Catalog now holds %s packages with %s resources\n",
				utils.Number(packages), utils.Number(total))
		}
		fmt.Println("Try running: dbpfkit query --tables")
		return nil
	},
}

func indexPackage(ctx context.Context, writer *database.CatalogWriter, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	f, err := dbpf.OpenFile(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	entries, err := f.Entries()
	if err != nil {
		return 0, err
	}

	rows := make([]database.ResourceRow, 0, len(entries))
	for _, entry := range entries {
		name := ""
		if entry.TGI.Type.HasEmbeddedFilename() {
			if payload, err := entry.Decompressed(ctx); err == nil {
				name = export.EmbeddedFilename(payload)
			}
		}
		rows = append(rows, database.ResourceRow{
			ID:          entry.TGI,
			Size:        entry.StoredSize(),
			Compression: uint16(entry.Compression()),
			Name:        name,
		})
	}

	pkg := database.PackageRow{
		Path:          path,
		Size:          info.Size(),
		Modified:      info.ModTime(),
		HeaderVersion: f.Header.Version.String(),
		IndexCount:    len(entries),
	}
	if err := writer.AddPackage(ctx, pkg, rows); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
