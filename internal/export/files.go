package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/simtools/dbpfkit/internal/dbpf"
)

// ExporterOptions configures package extraction.
type ExporterOptions struct {
	// Directory extracted files are written to, created when missing
	OutputDir string

	// Write stored bytes as they sit in the package instead of
	// decompressing, marking compressed entries by filename suffix
	Raw bool

	// Logger for per-entry diagnostics (defaults to slog.Default)
	Logger *slog.Logger
}

// Exporter writes package entries out as loose files.
type Exporter struct {
	outputDir string
	raw       bool
	log       *slog.Logger
}

// NewExporter creates a file exporter. options must name an output directory.
func NewExporter(options *ExporterOptions) (*Exporter, error) {
	if options == nil || options.OutputDir == "" {
		return nil, fmt.Errorf("exporter requires an output directory")
	}

	log := options.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Exporter{
		outputDir: options.OutputDir,
		raw:       options.Raw,
		log:       log,
	}, nil
}

// ProgressCallback is called after each written file.
type ProgressCallback func(current int, total int, name string)

// ExportPackage writes every entry of pkg into the output directory and
// returns the number of files written. Entries that resolve to the same
// name get a numeric suffix in index order.
func (e *Exporter) ExportPackage(ctx context.Context, pkg *dbpf.File, progress ProgressCallback) (int, error) {
	entries, err := pkg.Entries()
	if err != nil {
		return 0, err
	}

	// Create output directory
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	taken := make(map[string]int, len(entries))
	written := 0
	for _, entry := range entries {
		data, name, err := e.entryOutput(ctx, entry)
		if err != nil {
			return written, fmt.Errorf("entry %s: %w", entry.TGI, err)
		}

		name = uniqueName(taken, name)
		outputPath := filepath.Join(e.outputDir, name)
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", outputPath, err)
		}

		written++
		e.log.Debug("extracted entry", "id", entry.TGI.String(), "output", outputPath)
		if progress != nil {
			progress(written, len(entries), name)
		}
	}

	return written, nil
}

// entryOutput picks the bytes and the file name for one entry. Names come
// from the decompressed payload even in raw mode; an entry whose payload
// cannot be expanded still extracts raw under its instance id.
func (e *Exporter) entryOutput(ctx context.Context, entry *dbpf.Entry) ([]byte, string, error) {
	payload, payloadErr := entry.Decompressed(ctx)

	if e.raw {
		stored, err := entry.Raw(ctx)
		if err != nil {
			return nil, "", err
		}
		if payloadErr != nil {
			payload = nil
		}
		return stored, EntryFileName(entry.TGI, payload) + rawSuffix(entry.Compression()), nil
	}

	if payloadErr != nil {
		return nil, "", payloadErr
	}
	return payload, EntryFileName(entry.TGI, payload), nil
}

func rawSuffix(c dbpf.CompressionType) string {
	switch c {
	case dbpf.RefPack:
		return ".refpak"
	case dbpf.ZLib:
		return ".zlib"
	}
	return ".raw"
}

func uniqueName(taken map[string]int, name string) string {
	n, seen := taken[name]
	taken[name] = n + 1
	if !seen {
		return name
	}

	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
}
