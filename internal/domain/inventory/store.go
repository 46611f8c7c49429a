// Package inventory holds the item catalog, on-hand stock, and the category
// list, with the mutation primitives the rest of the engine builds on.
package inventory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/xenking/atelier-pos/internal/domain/operator"
)

// Change identifies which persisted record a mutation touched. Subscribers
// re-fetch the current state through the snapshot accessors.
type Change int

const (
	// ChangedItems signals an item list or stock mutation.
	ChangedItems Change = iota + 1
	// ChangedCategories signals a category list mutation.
	ChangedCategories
)

// Store is the single source of truth for items and categories. All methods
// are safe for concurrent use; every mutation notifies subscribers after the
// new state is in place.
type Store struct {
	confirm operator.Confirmer

	mu         sync.RWMutex
	items      []Item
	categories []string

	subMu sync.RWMutex
	subs  []func(Change)
}

// NewStore creates a Store seeded with the given items and categories.
// A nil confirmer auto-approves destructive operations.
func NewStore(items []Item, categories []string, confirm operator.Confirmer) *Store {
	if confirm == nil {
		confirm = operator.AutoConfirm
	}
	s := &Store{
		confirm:    confirm,
		items:      make([]Item, 0, len(items)),
		categories: slices.Clone(categories),
	}
	for _, it := range items {
		s.items = append(s.items, cloneItem(it))
	}
	return s
}

// Subscribe registers fn to run after every mutation. Callbacks run on the
// mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func(Change)) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Store) notify(c Change) {
	s.subMu.RLock()
	subs := slices.Clone(s.subs)
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(c)
	}
}

// Items returns a snapshot of all items in stored order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, cloneItem(it))
	}
	return out
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return cloneItem(it), nil
		}
	}
	return Item{}, ErrNotFound
}

// AdjustQuantity shifts an item's on-hand quantity by delta, flooring the
// result at zero. It never fails on underflow, matching restock and
// sell-through semantics where clamping is the desired behaviour.
func (s *Store) AdjustQuantity(id string, delta int) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.items[idx].Quantity = max(0, s.items[idx].Quantity+delta)
	s.mu.Unlock()

	s.notify(ChangedItems)
	return nil
}

// SetQuantity replaces an item's on-hand quantity exactly.
func (s *Store) SetQuantity(id string, qty int) error {
	if qty < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.items[idx].Quantity = qty
	s.mu.Unlock()

	s.notify(ChangedItems)
	return nil
}

// ApplyDeltas shifts the on-hand quantity of every listed item in one step,
// flooring each result at zero. Ids not present in the store are skipped.
// The transaction reconciler uses this to commit a validated
// restore-then-deduct pass as a unit without clobbering stock mutations that
// landed after its reads.
func (s *Store) ApplyDeltas(deltas map[string]int) {
	s.mu.Lock()
	for i := range s.items {
		if delta, ok := deltas[s.items[i].ID]; ok {
			s.items[i].Quantity = max(0, s.items[i].Quantity+delta)
		}
	}
	s.mu.Unlock()

	s.notify(ChangedItems)
}

// AddItem creates a new item from the patch with a fresh id and zero stock.
func (s *Store) AddItem(patch ItemPatch) (Item, error) {
	if err := patch.validate(); err != nil {
		return Item{}, err
	}
	item := Item{
		ID:        uuid.New().String(),
		Category:  patch.Category,
		Name:      patch.Name,
		Cost:      patch.Cost,
		Price:     patch.Price,
		Quantity:  0,
		Discounts: cloneTiers(patch.Discounts),
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.notify(ChangedItems)
	return cloneItem(item), nil
}

// UpdateItem replaces an item's editable fields. Quantity is untouched.
func (s *Store) UpdateItem(id string, patch ItemPatch) (Item, error) {
	if err := patch.validate(); err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return Item{}, ErrNotFound
	}
	it := &s.items[idx]
	it.Category = patch.Category
	it.Name = patch.Name
	it.Cost = patch.Cost
	it.Price = patch.Price
	it.Discounts = cloneTiers(patch.Discounts)
	updated := cloneItem(*it)
	s.mu.Unlock()

	s.notify(ChangedItems)
	return updated, nil
}

// RemoveItem deletes an item after operator confirmation. Ledger history is
// unaffected: sale records carry their own name and price snapshots.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	if !s.confirm.Confirm(ctx, fmt.Sprintf("Delete %q? This cannot be undone.", item.Name)) {
		return operator.ErrDeclined
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	s.mu.Unlock()

	s.notify(ChangedItems)
	return nil
}

// Categories returns a snapshot of the category list in stored order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// AddCategory appends a new category name.
func (s *Store) AddCategory(name string) error {
	if name == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}

	s.mu.Lock()
	if slices.Contains(s.categories, name) {
		s.mu.Unlock()
		return ErrCategoryExists
	}
	s.categories = append(s.categories, name)
	s.mu.Unlock()

	s.notify(ChangedCategories)
	return nil
}

// RenameCategory renames a category and rewrites the category field on every
// item carrying the old name. The list and the items update together or not
// at all.
func (s *Store) RenameCategory(oldName, newName string) error {
	if newName == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if oldName == newName {
		return nil
	}

	s.mu.Lock()
	if slices.Contains(s.categories, newName) {
		s.mu.Unlock()
		return ErrCategoryExists
	}
	idx := slices.Index(s.categories, oldName)
	if idx < 0 {
		s.mu.Unlock()
		return ErrCategoryNotFound
	}
	s.categories[idx] = newName
	itemsTouched := false
	for i := range s.items {
		if s.items[i].Category == oldName {
			s.items[i].Category = newName
			itemsTouched = true
		}
	}
	s.mu.Unlock()

	s.notify(ChangedCategories)
	if itemsTouched {
		s.notify(ChangedItems)
	}
	return nil
}

// RemoveCategory deletes a category after operator confirmation. It refuses
// while any item still carries the name.
func (s *Store) RemoveCategory(ctx context.Context, name string) error {
	s.mu.RLock()
	known := slices.Contains(s.categories, name)
	inUse := false
	for _, it := range s.items {
		if it.Category == name {
			inUse = true
			break
		}
	}
	s.mu.RUnlock()

	if !known {
		return ErrCategoryNotFound
	}
	if inUse {
		return ErrCategoryInUse
	}
	if !s.confirm.Confirm(ctx, fmt.Sprintf("Delete category %q?", name)) {
		return operator.ErrDeclined
	}

	s.mu.Lock()
	idx := slices.Index(s.categories, name)
	if idx < 0 {
		s.mu.Unlock()
		return ErrCategoryNotFound
	}
	// The in-use check runs again under the write lock so a concurrent item
	// edit cannot slip in between check and delete.
	for _, it := range s.items {
		if it.Category == name {
			s.mu.Unlock()
			return ErrCategoryInUse
		}
	}
	s.categories = slices.Delete(s.categories, idx, idx+1)
	s.mu.Unlock()

	s.notify(ChangedCategories)
	return nil
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
