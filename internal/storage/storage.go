// Package storage defines the persistence port the engine saves through.
// State is four independent records, each stored as an opaque blob under a
// well-known key; the engine stays ignorant of the medium behind the port.
package storage

import "context"

// Keys for the four persisted records.
const (
	KeyInventory  = "inventory"
	KeyCategories = "categories"
	KeySales      = "sales"
	KeyTitle      = "title"
)

// Driver is a key-value blob store. Load reports ok=false when the key has
// never been written, which callers treat as "seed with defaults".
type Driver interface {
	Load(ctx context.Context, key string) (blob []byte, ok bool, err error)
	Save(ctx context.Context, key string, blob []byte) error
	// Ping reports whether the underlying medium is reachable.
	Ping(ctx context.Context) error
	Close() error
}
