package undo

import (
	"context"
	"errors"
	"testing"
)

func TestWithExecutor_RoundTrip(t *testing.T) {
	e := New(Config{Logger: noopLogger{}})
	ctx := WithExecutor(context.Background(), e)

	if got := FromContext(ctx); got != e {
		t.Errorf("FromContext() = %p, want %p", got, e)
	}
}

func TestFromContext_Absent(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
}

func TestProtect_RollsBackOnFailure(t *testing.T) {
	boom := errors.New("boom")

	var order []string
	err := Protect(context.Background(), func(ctx context.Context) error {
		if err := OnFailure(ctx, func(ctx context.Context) error {
			order = append(order, "a")
			return nil
		}); err != nil {
			return err
		}
		if err := OnFailure(ctx, func(ctx context.Context) error {
			order = append(order, "b")
			return nil
		}); err != nil {
			return err
		}
		return boom
	})

	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Errorf("order = %v, want [b a]", order)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Protect() error = %v, want wrapped boom", err)
	}
	var rb *RolledBackError
	if !errors.As(err, &rb) {
		t.Errorf("Protect() error = %v, want *RolledBackError", err)
	}
}

func TestProtect_Success(t *testing.T) {
	err := Protect(context.Background(), func(ctx context.Context) error {
		return OnFailure(ctx, func(ctx context.Context) error { return nil })
	})
	if err != nil {
		t.Errorf("Protect() error = %v", err)
	}
}

func TestProtect_Warning(t *testing.T) {
	e := FromContext(context.Background())
	if e != nil {
		t.Fatal("unexpected ambient executor")
	}

	var warning string
	err := Protect(context.Background(), func(ctx context.Context) error {
		warning = FromContext(ctx).Warning()
		return nil
	}, "resource", "may leak")

	if err != nil {
		t.Fatalf("Protect() error = %v", err)
	}
	if warning != "resource may leak" {
		t.Errorf("warning = %q, want %q", warning, "resource may leak")
	}
}

func TestProtect_Nested(t *testing.T) {
	var outer, inner *Executor
	err := Protect(context.Background(), func(ctx context.Context) error {
		outer = FromContext(ctx)
		return Protect(ctx, func(ctx context.Context) error {
			inner = FromContext(ctx)
			return nil
		})
	})

	if err != nil {
		t.Fatalf("Protect() error = %v", err)
	}
	if outer == nil || inner == nil || outer == inner {
		t.Errorf("nested Protect must scope a fresh executor (outer %p, inner %p)", outer, inner)
	}
}

func TestOnFailure_NoContext(t *testing.T) {
	err := OnFailure(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrNoContext) {
		t.Errorf("OnFailure() error = %v, want ErrNoContext", err)
	}
}
