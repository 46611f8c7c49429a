// Command ledger-ingest merges sale record backups into the live state store.
//
// Each backup file is a gzip-compressed sales blob, the same format the
// server persists under the "sales" key (and what older deployments wrote
// as nightly dumps). Records already present in the store are skipped, so
// re-running the tool over the same backups is idempotent.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/atelier-pos/internal/domain/ledger"
	"github.com/xenking/atelier-pos/internal/storage"
	"github.com/xenking/atelier-pos/internal/storage/file"
	"github.com/xenking/atelier-pos/internal/storage/postgres"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
)

func main() {
	var (
		backupDir   string
		driver      string
		stateDir    string
		databaseURL string
	)

	flag.StringVar(&backupDir, "backup-dir", "backups", "directory containing *.json.gz sales backups")
	flag.StringVar(&driver, "driver", "file", "state store driver: file or postgres")
	flag.StringVar(&stateDir, "state-dir", "state", "state directory for the file driver")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, backupDir, driver, stateDir, databaseURL); err != nil {
		slog.Error("ledger ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("ledger ingest completed successfully")
}

func run(ctx context.Context, backupDir, driver, stateDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(backupDir, "*.json.gz"))
	if err != nil {
		return errors.Wrap(err, "list backups")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.json.gz backups found in %s", backupDir)
	}
	sort.Strings(files)

	drv, err := openDriver(ctx, driver, stateDir, databaseURL)
	if err != nil {
		return errors.Wrap(err, "open state store")
	}
	defer func() { _ = drv.Close() }()

	existing, err := loadSales(ctx, drv)
	if err != nil {
		return errors.Wrap(err, "load current sales")
	}

	slog.Info("current state loaded",
		slog.Int("records", len(existing)),
		slog.Int("backups", len(files)),
	)

	// Bloom filter over existing record IDs prefilters the backups; the
	// store's exact lookup settles false positives.
	filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	for _, r := range existing {
		filter.AddString(r.ID)
	}
	store := ledger.NewStore(existing)

	batches, err := readBackups(ctx, files)
	if err != nil {
		return errors.Wrap(err, "read backups")
	}

	var added, skipped int
	for i, batch := range batches {
		for _, r := range batch {
			if filter.TestString(r.ID) && store.Contains(r.ID) {
				skipped++
				continue
			}
			filter.AddString(r.ID)
			store.Append(r)
			added++
		}
		slog.Info("backup merged",
			slog.String("file", filepath.Base(files[i])),
			slog.Int("records", len(batch)),
		)
	}

	slog.Info("merge complete", slog.Int("added", added), slog.Int("skipped", skipped))

	if added == 0 {
		return nil
	}

	merged := store.Records()
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})

	if err := drv.Save(ctx, storage.KeySales, storage.EncodeSales(merged)); err != nil {
		return errors.Wrap(err, "save merged sales")
	}

	return nil
}

func openDriver(ctx context.Context, driver, stateDir, databaseURL string) (storage.Driver, error) {
	switch driver {
	case "file":
		return file.New(stateDir)
	case "postgres":
		if databaseURL == "" {
			return nil, errors.New("database URL is required: set --database-url or DATABASE_URL")
		}
		return postgres.New(ctx, databaseURL)
	default:
		return nil, errors.Errorf("unknown driver %q", driver)
	}
}

func loadSales(ctx context.Context, drv storage.Driver) ([]ledger.SaleRecord, error) {
	blob, ok, err := drv.Load(ctx, storage.KeySales)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return storage.DecodeSales(blob)
}

// readBackups decodes all backup files concurrently, preserving file order
// in the result so merges are deterministic.
func readBackups(ctx context.Context, files []string) ([][]ledger.SaleRecord, error) {
	batches := make([][]ledger.SaleRecord, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := readBackup(path)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			batches[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func readBackup(path string) ([]ledger.SaleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "create gzip reader")
	}
	defer func() { _ = gz.Close() }()

	blob, err := io.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrap(err, "decompress")
	}

	return storage.DecodeSales(blob)
}
