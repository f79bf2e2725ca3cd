package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/simtools/dbpfkit/internal/codec"
	"github.com/simtools/dbpfkit/internal/dbpf"
	"github.com/simtools/dbpfkit/internal/export"
	"github.com/simtools/dbpfkit/internal/tgi"
	"github.com/simtools/dbpfkit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	extractOutput string
	extractRaw    bool
	extractPNG    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <package>",
	Short: "Unpack a package into loose resource files",
	Long: `Extract writes every resource of a package into a directory, one file per
entry. Types that embed their own name are written under it, everything else
under its instance id.

With --raw the stored bytes are written without decompression and compressed
entries get a marker suffix. With --png texture resources are additionally
converted to PNG next to their native form.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		outputDir := extractOutput
		if outputDir == "" {
			outputDir = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		pkg, err := dbpf.OpenFile(path)
		if err != nil {
			return err
		}
		defer pkg.Close()

		entries, err := pkg.Entries()
		if err != nil {
			return err
		}

		exporter, err := export.NewExporter(&export.ExporterOptions{
			OutputDir: outputDir,
			Raw:       extractRaw,
		})
		if err != nil {
			return err
		}

		progress := utils.NewProgress(len(entries), progressEnabled())
		written, err := exporter.ExportPackage(ctx, pkg, func(current, total int, name string) {
			progress.Update(current, name)
		})
		if err != nil {
			return err
		}
		progress.Finish()

		if extractPNG {
			converted := writeTexturePNGs(ctx, entries, outputDir)
			if converted > 0 {
				fmt.Printf("Converted %d textures to PNG\n", converted)
			}
		}

		fmt.Printf("Extracted %d files to %s\n", written, outputDir)
		return nil
	},
}

// writeTexturePNGs converts each texture resource's best mip to a PNG named
// after its instance id, matching the stem of the native export.
func writeTexturePNGs(ctx context.Context, entries []*dbpf.Entry, outputDir string) int {
	converted := 0
	for _, entry := range entries {
		if entry.TGI.Type != tgi.TextureResource {
			continue
		}
		decoded, ok, err := entry.Decoded(ctx)
		if err != nil || !ok {
			slog.Warn("Skipping undecodable texture", "id", entry.TGI.String(), "error", err)
			continue
		}
		rcol, ok := decoded.(*codec.ResourceCollection)
		if !ok {
			continue
		}
		texture, ok := rcol.Texture()
		if !ok {
			continue
		}

		name := fmt.Sprintf("0x%016X.png", entry.TGI.Instance)
		out, err := os.Create(filepath.Join(outputDir, name))
		if err != nil {
			slog.Warn("Failed to create texture PNG", "name", name, "error", err)
			continue
		}
		if err := export.TexturePNG(texture, out); err != nil {
			slog.Warn("Failed to convert texture", "id", entry.TGI.String(), "error", err)
			out.Close()
			continue
		}
		if err := out.Close(); err != nil {
			slog.Warn("Failed to write texture PNG", "name", name, "error", err)
			continue
		}
		converted++
	}
	return converted
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output directory (default is the package name)")
	extractCmd.Flags().BoolVar(&extractRaw, "raw", false, "write stored bytes without decompressing")
	extractCmd.Flags().BoolVar(&extractPNG, "png", false, "also convert texture resources to PNG")
}
