// Package settings holds small operator-editable application settings.
// Today that is just the shop title shown on the register.
package settings

import (
	"sync"

	"github.com/go-faster/errors"
)

// ErrEmptyTitle is returned when setting a blank title.
var ErrEmptyTitle = errors.New("title must not be empty")

// Store holds the settings and notifies subscribers on change.
type Store struct {
	mu    sync.RWMutex
	title string

	subMu sync.RWMutex
	subs  []func()
}

// NewStore creates a Store with the given title.
func NewStore(title string) *Store {
	return &Store{title: title}
}

// Subscribe registers fn to run after every mutation.
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

// Title returns the current shop title.
func (s *Store) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// SetTitle replaces the shop title.
func (s *Store) SetTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()

	s.notify()
	return nil
}
