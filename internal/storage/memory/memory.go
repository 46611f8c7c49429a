// Package memory is an in-process storage driver. State lives only as long
// as the process; it backs tests and throwaway runs.
package memory

import (
	"context"
	"sync"

	"github.com/xenking/atelier-pos/internal/storage"
)

// Driver stores blobs in a map.
type Driver struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ storage.Driver = (*Driver)(nil)

// New creates an empty in-memory driver.
func New() *Driver {
	return &Driver{blobs: make(map[string][]byte)}
}

// Load implements storage.Driver.
func (d *Driver) Load(_ context.Context, key string) ([]byte, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	blob, ok := d.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true, nil
}

// Save implements storage.Driver.
func (d *Driver) Save(_ context.Context, key string, blob []byte) error {
	stored := make([]byte, len(blob))
	copy(stored, blob)
	d.mu.Lock()
	d.blobs[key] = stored
	d.mu.Unlock()
	return nil
}

// Ping implements storage.Driver.
func (d *Driver) Ping(context.Context) error { return nil }

// Close implements storage.Driver.
func (d *Driver) Close() error { return nil }
