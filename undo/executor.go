package undo

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/google/uuid"
)

// Func is a compensating action. It receives the caller's context, not the
// protected block's: by the time a rollback runs, the block's context may
// already be canceled by the signal that triggered it.
type Func func(ctx context.Context) error

// Block is a protected unit of code. It receives the executor it runs under
// so it can register compensations and toggle arming.
type Block func(ctx context.Context, e *Executor) error

// Config configures an Executor.
type Config struct {
	// Signals are translated into failures while a block runs armed.
	// Default: os.Interrupt and syscall.SIGTERM.
	Signals []os.Signal

	// Logger receives non-fatal diagnostics.
	// Default: JSON lines to stderr.
	Logger Logger
}

// Executor runs protected blocks with best-effort rollback on failure.
//
// Contract:
//   - Concurrency: NOT safe for concurrent use. The undo stack and armed
//     flag are owned by the block currently executing under the executor.
//   - Reuse: an executor may be reused across sequential blocks; Run clears
//     stale undo state on entry.
type Executor struct {
	config  Config
	stack   []Func
	armed   bool
	warning string
	runID   string
}

// New creates a new executor. A fresh executor is armed.
func New(config Config) *Executor {
	// Apply defaults
	if len(config.Signals) == 0 {
		config.Signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	if config.Logger == nil {
		config.Logger = NewLogger()
	}

	return &Executor{
		config: config,
		armed:  true,
	}
}

// Add appends a compensating action to the tail of the undo stack.
// A nil action is ignored.
func (e *Executor) Add(fn Func) {
	if fn == nil {
		return
	}
	e.stack = append(e.stack, fn)
}

// Pop removes and returns the most recently added action.
// The second return value is false if the stack is empty.
func (e *Executor) Pop() (Func, bool) {
	n := len(e.stack)
	if n == 0 {
		return nil, false
	}
	fn := e.stack[n-1]
	e.stack[n-1] = nil
	e.stack = e.stack[:n-1]
	return fn, true
}

// Clear discards all pending actions without invoking them. Call it when a
// block reaches a point of no return after which failure must no longer
// replay stale compensations.
func (e *Executor) Clear() {
	for i := range e.stack {
		e.stack[i] = nil
	}
	e.stack = e.stack[:0]
}

// Empty reports whether the undo stack has no pending actions.
func (e *Executor) Empty() bool {
	return len(e.stack) == 0
}

// Arm enables automatic rollback on failure.
func (e *Executor) Arm() {
	e.armed = true
}

// Disarm suppresses automatic rollback on failure. It does not clear the
// stack; re-arming restores rollback for whatever is currently registered.
// The armed state at failure-detection time governs, not the state at
// registration time.
func (e *Executor) Disarm() {
	e.armed = false
}

// Armed reports whether failure of the protected block triggers rollback.
func (e *Executor) Armed() bool {
	return e.armed
}

// SetWarning sets the diagnostic message emitted when a rollback is about
// to run. It may be changed at any point; it is read, not cleared, at
// rollback time.
func (e *Executor) SetWarning(msg string) {
	e.warning = msg
}

// Warning returns the configured failure warning.
func (e *Executor) Warning() string {
	return e.warning
}

// RunID returns the identifier of the current (or most recent) Run
// invocation. Empty before the first Run.
func (e *Executor) RunID() string {
	return e.runID
}

// Run executes block under rollback supervision (factory form). A fresh
// executor with default configuration is constructed and passed to block.
func Run(ctx context.Context, block Block) error {
	return New(Config{}).Run(ctx, block)
}

// Run executes block under rollback supervision.
//
// The undo stack is cleared unconditionally on entry, so state never leaks
// in from a prior invocation on a reused executor.
//
// Disarmed path: block runs directly, with no signal translation and no
// failure interception; errors propagate to the caller unchanged and no
// rollback occurs.
//
// Armed path: for the duration of block, the configured signals are
// translated into ErrInterrupted/ErrTerminated; a caught signal marks the
// run failed even if block returned nil. On failure the armed flag is
// re-read (the block may have toggled it before the failure point). If
// still armed, the warning diagnostic is emitted when set, Rollback runs,
// and the failure is returned wrapped in a *RolledBackError. If disarmed by
// then, the original failure propagates verbatim.
//
// A successful run leaves the undo stack as the block left it; the caller
// may drain it explicitly with Rollback.
func (e *Executor) Run(ctx context.Context, block Block) error {
	e.runID = uuid.NewString()
	e.Clear()

	if !e.armed {
		// Fast path: failure here looks identical to failing without
		// this engine at all.
		return block(ctx, e)
	}

	runCtx, stop := translateSignals(ctx, e.config.Signals)
	defer stop()

	err := block(runCtx, e)

	// A signal caught during the block wins over whatever the block
	// returned, including nil.
	if sigErr := translatedCause(runCtx); sigErr != nil {
		err = sigErr
	}
	if err == nil {
		return nil
	}

	if !e.armed {
		return err
	}

	if e.warning != "" {
		e.config.Logger.Warn(ctx, e.warning,
			Field{Key: "run_id", Value: e.runID},
			Field{Key: "error", Value: err.Error()},
		)
	}

	ran, failed := e.Rollback(ctx)

	return &RolledBackError{Cause: err, Ran: ran, Failed: failed}
}

// Rollback drains the undo stack, invoking each compensating action in
// reverse registration order. It is best-effort: an action that fails or
// panics is reported through the configured Logger and does not stop the
// remaining actions. Draining an empty stack is a no-op.
//
// Rollback is callable standalone, for draining a populated stack after a
// successful block. Disarming the executor mid-rollback has no effect on
// the in-progress loop.
func (e *Executor) Rollback(ctx context.Context) (ran, failed int) {
	for {
		fn, ok := e.Pop()
		if !ok {
			return ran, failed
		}
		ran++

		if err := invoke(ctx, fn); err != nil {
			failed++
			e.config.Logger.Error(ctx, "undo action failed",
				Field{Key: "run_id", Value: e.runID},
				Field{Key: "action", Value: ran},
				Field{Key: "error", Value: err.Error()},
			)
		}
	}
}

// invoke runs one compensating action. A panicking action must not stop
// the remaining rollback steps, so panics are converted to errors.
func invoke(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("undo: action panicked: %v", r)
		}
	}()
	return fn(ctx)
}
