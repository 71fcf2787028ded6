package undo

import (
	"errors"
	"fmt"
)

// Sentinel errors for reversible execution.
var (
	// ErrInterrupted is the failure a caught interrupt signal is translated into.
	ErrInterrupted = errors.New("undo: interrupted")

	// ErrTerminated is the failure a caught termination signal is translated into.
	ErrTerminated = errors.New("undo: terminated")

	// ErrNoContext is returned by OnFailure when no reversible context is active.
	ErrNoContext = errors.New("undo: no reversible context active")
)

// RolledBackError reports a protected block's failure after its registered
// compensations were replayed.
//
// Callers distinguish "failed and rolled back" from a pass-through failure
// with errors.As, and still reach the original failure through errors.Is,
// since Unwrap exposes the cause.
type RolledBackError struct {
	// Cause is the block's original failure.
	Cause error

	// Ran is the number of compensating actions invoked during rollback.
	Ran int

	// Failed is the number of compensating actions that themselves failed.
	Failed int
}

func (e *RolledBackError) Error() string {
	return fmt.Sprintf("undo: rolled back %d action(s) after failure: %v", e.Ran, e.Cause)
}

func (e *RolledBackError) Unwrap() error {
	return e.Cause
}
