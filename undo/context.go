package undo

import (
	"context"
	"strings"
)

// Context key for the current reversible context.
type contextKey int

const executorKey contextKey = iota

// WithExecutor returns a new context with e attached as the current
// reversible context.
func WithExecutor(ctx context.Context, e *Executor) context.Context {
	return context.WithValue(ctx, executorKey, e)
}

// FromContext retrieves the current reversible context.
// Returns nil if none is active.
func FromContext(ctx context.Context) *Executor {
	e, _ := ctx.Value(executorKey).(*Executor)
	return e
}

// Protect runs fn under a fresh default executor, scoped into fn's context
// as the current reversible context for the duration of the call. Inside
// fn, register compensations with OnFailure.
//
// An optional trailing warning message is emitted as a diagnostic when a
// failure is about to trigger rollback.
func Protect(ctx context.Context, fn func(ctx context.Context) error, warning ...string) error {
	e := New(Config{})
	if len(warning) > 0 {
		e.SetWarning(strings.Join(warning, " "))
	}

	return e.Run(ctx, func(ctx context.Context, e *Executor) error {
		return fn(WithExecutor(ctx, e))
	})
}

// OnFailure registers a compensating action against the current reversible
// context. Returns ErrNoContext when invoked outside a Protect block; it
// never silently drops an action.
func OnFailure(ctx context.Context, fn Func) error {
	e := FromContext(ctx)
	if e == nil {
		return ErrNoContext
	}
	e.Add(fn)
	return nil
}
