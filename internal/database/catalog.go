package database

import (
	"context"
	"fmt"
	"time"

	"github.com/simtools/dbpfkit/internal/tgi"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS packages (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	path           TEXT    NOT NULL UNIQUE,
	size           INTEGER NOT NULL,
	modified       INTEGER NOT NULL,
	header_version TEXT    NOT NULL,
	index_count    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS resources (
	package_id  INTEGER NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
	type_id     INTEGER NOT NULL,
	group_id    INTEGER NOT NULL,
	instance_id INTEGER NOT NULL,
	size        INTEGER NOT NULL,
	compression INTEGER NOT NULL,
	name        TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_resources_tgi ON resources(type_id, group_id, instance_id);
CREATE INDEX IF NOT EXISTS idx_resources_package ON resources(package_id);
`

// PackageRow describes one catalogued package file.
type PackageRow struct {
	Path          string
	Size          int64
	Modified      time.Time
	HeaderVersion string
	IndexCount    int
}

// ResourceRow describes one entry of a catalogued package.
type ResourceRow struct {
	ID          tgi.TGI
	Size        uint32
	Compression uint16
	Name        string
}

// CreateSchema creates the catalog tables and indexes if they do not exist
func (d *Database) CreateSchema(ctx context.Context) error {
	if _, err := d.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating catalog schema: %w", err)
	}
	return nil
}

// Tables lists the user tables of the catalog
func (d *Database) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.Query(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableSchema returns the CREATE statement for a table
func (d *Database) TableSchema(ctx context.Context, table string) (string, error) {
	var ddl string
	row := d.QueryRow(ctx, `SELECT sql FROM sqlite_master WHERE type='table' AND name = ?`, table)
	if err := row.Scan(&ddl); err != nil {
		return "", fmt.Errorf("no such table %s: %w", table, err)
	}
	return ddl, nil
}

// Counts reports catalog totals for command summaries
func (d *Database) Counts(ctx context.Context) (packages, resources int64, err error) {
	if err = d.QueryRow(ctx, `SELECT COUNT(*) FROM packages`).Scan(&packages); err != nil {
		return 0, 0, fmt.Errorf("counting packages: %w", err)
	}
	if err = d.QueryRow(ctx, `SELECT COUNT(*) FROM resources`).Scan(&resources); err != nil {
		return 0, 0, fmt.Errorf("counting resources: %w", err)
	}
	return packages, resources, nil
}

// CatalogWriterOptions configures batched catalog writes
type CatalogWriterOptions struct {
	// BatchSize determines how many resource rows to insert per transaction
	BatchSize int
}

// DefaultCatalogWriterOptions returns sensible defaults for catalog writes
func DefaultCatalogWriterOptions() *CatalogWriterOptions {
	return &CatalogWriterOptions{
		BatchSize: 1000,
	}
}

// CatalogWriter inserts packages and their resources in batched transactions
type CatalogWriter struct {
	db        *Database
	batchSize int
}

// NewCatalogWriter creates a new catalog writer with the given database and options
func NewCatalogWriter(db *Database, options *CatalogWriterOptions) *CatalogWriter {
	if options == nil {
		options = DefaultCatalogWriterOptions()
	}

	batch := options.BatchSize
	if batch <= 0 {
		batch = 1000
	}

	return &CatalogWriter{
		db:        db,
		batchSize: batch,
	}
}

// AddPackage records a package and its resources, replacing any earlier
// record for the same path.
func (w *CatalogWriter) AddPackage(ctx context.Context, pkg PackageRow, resources []ResourceRow) error {
	packageID, err := w.insertPackageRow(ctx, pkg)
	if err != nil {
		return err
	}

	for i := 0; i < len(resources); i += w.batchSize {
		end := i + w.batchSize
		if end > len(resources) {
			end = len(resources)
		}

		if err := w.insertResourceBatch(ctx, packageID, resources[i:end]); err != nil {
			return fmt.Errorf("inserting resources %d-%d of %s: %w", i, end-1, pkg.Path, err)
		}
	}

	return nil
}

func (w *CatalogWriter) insertPackageRow(ctx context.Context, pkg PackageRow) (int64, error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM packages WHERE path = ?`, pkg.Path); err != nil {
		return 0, fmt.Errorf("clearing old record for %s: %w", pkg.Path, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO packages (path, size, modified, header_version, index_count) VALUES (?, ?, ?, ?, ?)`,
		pkg.Path, pkg.Size, pkg.Modified.Unix(), pkg.HeaderVersion, pkg.IndexCount)
	if err != nil {
		return 0, fmt.Errorf("inserting package %s: %w", pkg.Path, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading package id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing package row: %w", err)
	}

	return id, nil
}

func (w *CatalogWriter) insertResourceBatch(ctx context.Context, packageID int64, batch []ResourceRow) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO resources (package_id, type_id, group_id, instance_id, size, compression, name) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing resource insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch {
		// instance ids use the full 64 bits, sqlite stores them signed
		if _, err := stmt.ExecContext(ctx,
			packageID, int64(r.ID.Type), int64(r.ID.Group), int64(r.ID.Instance),
			int64(r.Size), int64(r.Compression), r.Name); err != nil {
			return fmt.Errorf("inserting resource %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}
