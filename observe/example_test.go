package observe_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/revert/observe"
	"github.com/jonwraymond/revert/undo"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "revert-example",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
	}

	obs, err := observe.NewObserver(context.Background(), cfg)
	if err != nil {
		fmt.Println("setup failed:", err)
		return
	}
	defer obs.Shutdown(context.Background())

	fmt.Println("observer ready")
	// Output:
	// observer ready
}

func ExampleConfigFromEnv() {
	cfg, err := observe.ConfigFromEnv()
	if err != nil {
		fmt.Println("bad environment:", err)
		return
	}

	fmt.Println(cfg.ServiceName)
	// Output:
	// revert
}

func ExampleMiddleware_Wrap() {
	obs, err := observe.NewObserver(context.Background(), observe.Config{ServiceName: "revert-example"})
	if err != nil {
		fmt.Println("setup failed:", err)
		return
	}
	defer obs.Shutdown(context.Background())

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		fmt.Println("setup failed:", err)
		return
	}

	e := undo.New(undo.Config{Logger: observe.Diagnostics(obs.Logger())})

	run := mw.Wrap(observe.RunMeta{Component: "deploy", Op: "provision"}, func(ctx context.Context) error {
		return e.Run(ctx, func(ctx context.Context, e *undo.Executor) error {
			e.Add(func(ctx context.Context) error {
				fmt.Println("release address")
				return nil
			})
			return errors.New("provisioning failed")
		})
	})

	err = run(context.Background())

	var rb *undo.RolledBackError
	if errors.As(err, &rb) {
		fmt.Printf("rolled back %d action(s)\n", rb.Ran)
	}
	// Output:
	// release address
	// rolled back 1 action(s)
}
