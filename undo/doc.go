// Package undo provides a reversible-execution primitive for side effects
// that cannot participate in a real transaction.
//
// A protected block registers a compensating action immediately after each
// side effect it performs. If the block later fails, or the process receives
// an interrupt or termination signal while the block runs, every registered
// compensation is replayed in reverse registration order before the failure
// is re-signaled to the caller.
//
// # Usage
//
//	e := undo.New(undo.Config{})
//	err := e.Run(ctx, func(ctx context.Context, e *undo.Executor) error {
//	    if err := os.Mkdir(dir, 0o755); err != nil {
//	        return err
//	    }
//	    e.Add(func(ctx context.Context) error {
//	        return os.Remove(dir)
//	    })
//
//	    return doMoreWork(ctx) // failure here removes dir again
//	})
//
// A rolled-back failure is returned as a *RolledBackError wrapping the
// original one, so callers can distinguish "failed and rolled back" from a
// pass-through failure with errors.As while errors.Is still matches the
// cause.
//
// Rollback is best-effort: a compensating action that fails (or panics) is
// reported as a diagnostic and does not stop the remaining actions. There is
// no durable log; all state lives in process memory.
//
// The Protect/OnFailure pair offers a context-scoped calling convention that
// avoids threading the Executor through call signatures.
//
// An Executor is a sequential, single-block construct: it must not be shared
// across goroutines, and the block it runs must not spawn concurrent writers
// of its undo stack.
package undo
