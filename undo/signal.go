package undo

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// translateSignals installs interruption-to-failure translation for the
// dynamic extent of one protected block. Delivery of one of sigs cancels
// the returned context with ErrInterrupted or ErrTerminated as the cause;
// the block observes it at its next context check, which is inherently
// best-effort.
//
// The returned stop function uninstalls the handler and releases the
// watcher goroutine. Callers must invoke it on every exit path so the
// translation never leaks into surrounding code.
func translateSignals(ctx context.Context, sigs []os.Signal) (context.Context, func()) {
	runCtx, cancel := context.WithCancelCause(ctx)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		select {
		case sig := <-ch:
			cancel(signalFailure(sig))
		case <-runCtx.Done():
		}
	}()

	stop := func() {
		signal.Stop(ch)
		// First cancellation wins, so a translated cause recorded
		// before stop is preserved.
		cancel(context.Canceled)
	}
	return runCtx, stop
}

// translatedCause returns the interruption failure a signal was translated
// into, or nil if ctx was not canceled by signal translation.
func translatedCause(ctx context.Context) error {
	cause := context.Cause(ctx)
	if errors.Is(cause, ErrInterrupted) || errors.Is(cause, ErrTerminated) {
		return cause
	}
	return nil
}

// signalFailure maps a caught signal to its fixed, recognizable failure.
func signalFailure(sig os.Signal) error {
	if sig == syscall.SIGTERM {
		return ErrTerminated
	}
	return ErrInterrupted
}
