// Package ledger is the user-correctable history of completed sales. Each
// record freezes line snapshots at commit time so later catalog edits never
// rewrite history.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a sale record id does not exist.
var ErrNotFound = errors.New("sale record not found")

// Line is a frozen snapshot of one sold cart line. Name and UnitPrice are
// copied at sale time; deleting or repricing the item later leaves them
// untouched.
type Line struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	Subtotal  int64  `json:"subtotal"`
}

// SaleRecord is one completed sale. Total always equals the sum of the
// lines' frozen subtotals after any save.
type SaleRecord struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Lines []Line    `json:"lines"`
	Total int64     `json:"total"`
}

func cloneRecord(r SaleRecord) SaleRecord {
	lines := make([]Line, len(r.Lines))
	copy(lines, r.Lines)
	r.Lines = lines
	return r
}

// SumLines returns the total of the lines' frozen subtotals.
func SumLines(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal
	}
	return total
}

// Store holds the sales history. Mutations notify subscribers after the new
// state is in place.
type Store struct {
	mu      sync.RWMutex
	records []SaleRecord

	subMu sync.RWMutex
	subs  []func()
}

// NewStore creates a Store seeded with existing records in ledger order.
func NewStore(records []SaleRecord) *Store {
	s := &Store{records: make([]SaleRecord, 0, len(records))}
	for _, r := range records {
		s.records = append(s.records, cloneRecord(r))
	}
	return s
}

// Subscribe registers fn to run after every mutation, outside the lock.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Store) notify() {
	s.subMu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// Records returns all records in ledger (append) order.
func (s *Store) Records() []SaleRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SaleRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, cloneRecord(r))
	}
	return out
}

// History returns all records newest-first.
func (s *Store) History() []SaleRecord {
	out := s.Records()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return cloneRecord(r), nil
		}
	}
	return SaleRecord{}, ErrNotFound
}

// Append adds a freshly committed sale to the end of the ledger.
func (s *Store) Append(r SaleRecord) {
	s.mu.Lock()
	s.records = append(s.records, cloneRecord(r))
	s.mu.Unlock()
	s.notify()
}

// Replace swaps the stored record with the same id for the given one.
func (s *Store) Replace(r SaleRecord) error {
	s.mu.Lock()
	idx := -1
	for i := range s.records {
		if s.records[i].ID == r.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.records[idx] = cloneRecord(r)
	s.mu.Unlock()
	s.notify()
	return nil
}

// Remove deletes the record with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.records {
		if s.records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.mu.Unlock()
	s.notify()
	return nil
}

// Contains reports whether a record id is present. The bulk import tool uses
// it as the exact check behind its bloom prefilter.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return true
		}
	}
	return false
}
