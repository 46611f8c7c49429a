// Package operator defines the confirmation and notification capabilities
// the engine asks of whoever is driving it. Injecting them keeps the core
// free of any UI framework and unit-testable without a display.
package operator

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrDeclined is returned by destructive operations when the operator
// answers no to the confirmation prompt.
var ErrDeclined = errors.New("operator declined")

// Confirmer asks the operator a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// Notifier delivers one-way feedback to the operator. It never blocks the
// caller and carries no result.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, message string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, message string) bool {
	return f(ctx, message)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, message string) {
	f(ctx, message)
}

// AutoConfirm answers yes to every prompt. Useful for API frontends where
// the client confirms before issuing the request.
var AutoConfirm = ConfirmerFunc(func(context.Context, string) bool {
	return true
})
