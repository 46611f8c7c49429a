// Package postgres is a storage driver keeping each record as one row in a
// key/blob table. It suits deployments where the register host already runs
// a database and file storage is undesirable.
package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/atelier-pos/db"
	"github.com/xenking/atelier-pos/internal/storage"
)

// Driver stores blobs in the pos_state table.
type Driver struct {
	pool *pgxpool.Pool
}

var _ storage.Driver = (*Driver)(nil)

// New connects a pool and applies the embedded schema.
func New(ctx context.Context, databaseURL string) (*Driver, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &Driver{pool: pool}, nil
}

// Load implements storage.Driver.
func (d *Driver) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := d.pool.QueryRow(ctx,
		`SELECT blob FROM pos_state WHERE key = $1`, key,
	).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "load %s", key)
	}
	return blob, true, nil
}

// Save implements storage.Driver.
func (d *Driver) Save(ctx context.Context, key string, blob []byte) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO pos_state (key, blob, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET blob = EXCLUDED.blob, updated_at = now()`,
		key, blob,
	)
	return errors.Wrapf(err, "save %s", key)
}

// Ping implements storage.Driver.
func (d *Driver) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close implements storage.Driver.
func (d *Driver) Close() error {
	d.pool.Close()
	return nil
}
