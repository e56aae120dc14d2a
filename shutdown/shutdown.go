// Package shutdown turns SIGINT/SIGTERM into context cancellation and runs
// registered cleanup hooks, such as flushing telemetry, on the way out.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
)

// HookTimeout bounds the time all hooks get together when triggered by a signal.
const HookTimeout = 10 * time.Second

// Hook releases a resource. The context is still alive when it runs.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	hook Hook
}

var (
	mut     sync.Mutex     //nolint:gochecknoglobals
	hooks   []namedHook    //nolint:gochecknoglobals
	trigger chan os.Signal //nolint:gochecknoglobals
)

// BeforeShutdown registers a hook. Hooks run once, newest first.
func BeforeShutdown(name string, h Hook) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, namedHook{name: name, hook: h})
}

// Shutdown triggers the shutdown process programmatically, as if a signal
// had been received. It does nothing before SetupHandler.
func Shutdown() {
	mut.Lock()
	defer mut.Unlock()

	if trigger != nil {
		select {
		case trigger <- os.Interrupt:
		default:
		}
	}
}

// SetupHandler returns a context that is cancelled once SIGINT or SIGTERM
// arrives (or Shutdown is called), after the registered hooks have run.
func SetupHandler(parent context.Context) context.Context {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	mut.Lock()
	trigger = ch
	mut.Unlock()

	ctx, cancel := context.WithCancel(parent)

	go func() {
		defer cancel()
		defer signal.Stop(ch)

		select {
		case sig := <-ch:
			logger.Get(ctx).Warn("Received " + sig.String() + ", shutting down...")

			hookCtx, hookCancel := context.WithTimeout(context.WithoutCancel(ctx), HookTimeout)
			defer hookCancel()

			_ = RunHooks(hookCtx)
		case <-ctx.Done():
		}
	}()

	return ctx
}

// RunHooks runs and clears the registered hooks, newest first. Every hook
// runs even if an earlier one fails; the failures are joined.
func RunHooks(ctx context.Context) error {
	mut.Lock()
	pending := hooks
	hooks = nil
	mut.Unlock()

	errs := &errors.Collection{}

	for i := len(pending) - 1; i >= 0; i-- {
		h := pending[i]

		if err := h.hook(ctx); err != nil {
			logger.Get(ctx).Error("shutdown hook failed", "hook", h.name, "error", err)
			errs.Add(fmt.Errorf("%s: %w", h.name, err))
		}
	}

	return errs.GetError()
}
