// Package file is a storage driver keeping each record as a gzip-compressed
// file in one directory. Writes go through a temp file and rename so a crash
// mid-save never leaves a torn blob behind.
package file

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/atelier-pos/internal/storage"
)

// Driver stores one <key>.json.gz file per record under Dir.
type Driver struct {
	dir string
}

var _ storage.Driver = (*Driver)(nil)

// New creates the directory if needed and returns a driver over it.
func New(dir string) (*Driver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create state dir")
	}
	return &Driver{dir: dir}, nil
}

func (d *Driver) path(key string) string {
	return filepath.Join(d.dir, key+".json.gz")
}

// Load implements storage.Driver.
func (d *Driver) Load(_ context.Context, key string) ([]byte, bool, error) {
	f, err := os.Open(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "open %s", key)
	}
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return nil, false, errors.Wrapf(err, "gzip %s", key)
	}
	defer zr.Close()

	blob, err := io.ReadAll(zr)
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", key)
	}
	return blob, true, nil
}

// Save implements storage.Driver.
func (d *Driver) Save(_ context.Context, key string, blob []byte) error {
	tmp, err := os.CreateTemp(d.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	zw := pgzip.NewWriter(tmp)
	if _, err := zw.Write(blob); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", key)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "finish %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", key)
	}

	if err := os.Rename(tmp.Name(), d.path(key)); err != nil {
		return errors.Wrapf(err, "replace %s", key)
	}
	return nil
}

// Ping implements storage.Driver.
func (d *Driver) Ping(context.Context) error {
	info, err := os.Stat(d.dir)
	if err != nil {
		return errors.Wrap(err, "stat state dir")
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", d.dir)
	}
	return nil
}

// Close implements storage.Driver.
func (d *Driver) Close() error { return nil }
