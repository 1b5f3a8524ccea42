package output

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// InstallSignalHandlers tears the runtime down before the process reacts to
// an interrupt or terminate signal. On SIGINT the returned context is
// cancelled once teardown completes, so the caller unwinds normally. On
// SIGTERM the runtime's exit function runs with status 0.
//
// Only the first signal is handled; the returned stop function removes the
// handlers and cancels the context.
func (rt *Runtime) InstallSignalHandlers(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	stop := func() {
		signal.Stop(sigs)
		cancel()
	}

	go func() {
		select {
		case sig := <-sigs:
			signal.Stop(sigs)
			rt.handleSignal(sig, cancel)
		case <-ctx.Done():
		}
	}()

	return ctx, stop
}

func (rt *Runtime) handleSignal(sig os.Signal, cancel context.CancelFunc) {
	rt.log().Debug().Str("signal", sig.String()).Msg("Signal received, tearing down output")

	if err := rt.Teardown(); err != nil {
		rt.log().Error().Err(err).Msg("Teardown after signal failed")
	}

	if sig == syscall.SIGTERM {
		cancel()
		rt.exit(0)
		return
	}
	cancel()
}
