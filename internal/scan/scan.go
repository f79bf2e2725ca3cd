// Package scan finds resource collisions across package files.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/simtools/dbpfkit/internal/cache"
	"github.com/simtools/dbpfkit/internal/dbpf"
	"github.com/simtools/dbpfkit/internal/tgi"
)

// Conflict pairs two packages that both carry the ids in TGIs. Original is
// the package whose claim was recorded first, New the one that collided
// with it; one record covers every id the pair fights over.
type Conflict struct {
	Original string    `json:"original"`
	New      string    `json:"new"`
	TGIs     []tgi.TGI `json:"tgis"`
}

// ProgressFunc receives the just-finished path with the running and total
// file counts. The first call reports ("", 0, total) before any file has
// been scanned. Calls after that arrive in completion order, which is not
// the walk order. Calls never overlap, so the callback needs no locking of
// its own.
type ProgressFunc func(path string, done, total int)

// DefaultFilter is the set of types considered for conflicts: the gameplay
// tuning resources where two packages claiming the same id actually fight
// over behavior.
var DefaultFilter = []tgi.TypeID{
	tgi.SimanticsBehaviourConstants,
	tgi.SimanticsBehaviourFunction,
	tgi.CatalogDescription,
	tgi.GlobalData,
	tgi.PropertySet,
	tgi.ObjectData,
	tgi.ObjectFunctions,
	tgi.ObjectSlot,
	tgi.TextList,
	tgi.EdithSimanticsBehaviourLabels,
	tgi.BehaviourConstantsLabels,
	tgi.PieMenuFunctions,
	tgi.PieMenuStrings,
	tgi.VersionInformation,
}

// groupLocal marks per-save resources; they never conflict across packages.
const groupLocal = 0xFFFFFFFF

type ScannerOptions struct {
	// Workers bounds how many packages are parsed at once
	Workers int

	// Filter lists the types that participate in conflict detection
	Filter []tgi.TypeID

	// Cache, when set, skips re-parsing packages whose size and mtime match
	Cache *cache.Cache

	// Progress, when set, is called after each file completes
	Progress ProgressFunc

	// Logger receives per-file parse failures
	Logger *slog.Logger
}

// DefaultScannerOptions returns the default scanner configuration
func DefaultScannerOptions() *ScannerOptions {
	return &ScannerOptions{
		Workers: 16,
		Filter:  DefaultFilter,
	}
}

// Scanner walks package trees and reports conflicting resource claims.
type Scanner struct {
	workers  int
	filter   map[tgi.TypeID]struct{}
	cache    *cache.Cache
	progress ProgressFunc
	log      *slog.Logger
}

func NewScanner(options *ScannerOptions) *Scanner {
	if options == nil {
		options = DefaultScannerOptions()
	}
	workers := options.Workers
	if workers <= 0 {
		workers = 16
	}
	types := options.Filter
	if types == nil {
		types = DefaultFilter
	}
	filter := make(map[tgi.TypeID]struct{}, len(types))
	for _, t := range types {
		filter[t] = struct{}{}
	}
	log := options.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{
		workers:  workers,
		filter:   filter,
		cache:    options.Cache,
		progress: options.Progress,
		log:      log,
	}
}

// Discover returns every package file under the roots in lexical walk
// order.
func Discover(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".package" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	return files, nil
}

// FindConflicts scans every package under the roots with a bounded worker
// pool and streams one record per colliding file pair over out, closing it
// when the scan finishes. A package that fails to parse is logged and
// skipped. Which file of a pair counts as Original follows completion
// order; a consumer that stops reading throttles the scan through the
// channel until ctx is canceled.
func (s *Scanner) FindConflicts(ctx context.Context, roots []string, out chan<- Conflict) error {
	defer close(out)

	files, err := Discover(roots)
	if err != nil {
		return err
	}
	total := len(files)
	s.report("", 0, total)

	var (
		mu   sync.Mutex
		seen = make(map[tgi.TGI]string)
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids, err := s.packageTGIs(path)
			if err != nil {
				s.log.Warn("skipping unreadable package", "path", path, "error", err)
			}

			mu.Lock()
			found := s.collide(seen, path, ids)
			done++
			s.report(path, done, total)
			mu.Unlock()

			for _, c := range found {
				select {
				case out <- c:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Scanner) report(path string, done, total int) {
	if s.progress != nil {
		s.progress(path, done, total)
	}
}

// collide claims the filtered ids for path in seen and returns one record
// per earlier file this package overlaps. The caller holds the lock.
func (s *Scanner) collide(seen map[tgi.TGI]string, path string, ids []tgi.TGI) []Conflict {
	var byOriginal map[string][]tgi.TGI
	for _, id := range ids {
		if id.Group == groupLocal {
			continue
		}
		if _, ok := s.filter[id.Type]; !ok {
			continue
		}
		if prev, claimed := seen[id]; claimed {
			if byOriginal == nil {
				byOriginal = make(map[string][]tgi.TGI)
			}
			byOriginal[prev] = append(byOriginal[prev], id)
		}
		seen[id] = path
	}
	if len(byOriginal) == 0 {
		return nil
	}

	originals := make([]string, 0, len(byOriginal))
	for original := range byOriginal {
		originals = append(originals, original)
	}
	sort.Strings(originals)
	conflicts := make([]Conflict, 0, len(originals))
	for _, original := range originals {
		conflicts = append(conflicts, Conflict{Original: original, New: path, TGIs: byOriginal[original]})
	}
	return conflicts
}

// packageTGIs reads a package's identifier list, through the cache when
// one is configured.
func (s *Scanner) packageTGIs(path string) ([]tgi.TGI, error) {
	if s.cache != nil {
		if ids, ok := s.cache.Lookup(path); ok {
			return ids, nil
		}
	}
	f, err := dbpf.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := f.Entries()
	if err != nil {
		return nil, err
	}
	ids := make([]tgi.TGI, len(entries))
	for i, e := range entries {
		ids[i] = e.TGI
	}
	if s.cache != nil {
		s.cache.Store(path, ids)
	}
	return ids, nil
}
