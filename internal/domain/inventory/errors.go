package inventory

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for inventory and category operations.
var (
	// ErrNotFound is returned when an item id does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrCategoryNotFound is returned when a category name is unknown.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned when creating or renaming a category
	// to a name that already exists.
	ErrCategoryExists = errors.New("category already exists")
	// ErrCategoryInUse is returned when deleting a category that still has
	// items assigned to it.
	ErrCategoryInUse = errors.New("category in use")
)

// ValidationError indicates malformed input: a negative amount or an empty
// required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
