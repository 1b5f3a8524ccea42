package output

import (
	"context"
	"sync"

	"github.com/arthur-debert/clio/pkg/config"
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/state"
)

var (
	defaultMu sync.RWMutex
	defaultRT *Runtime
)

// Default returns the process-wide runtime, creating it on first use. It
// shares state.Default() with the rest of the process.
func Default() *Runtime {
	defaultMu.RLock()
	rt := defaultRT
	defaultMu.RUnlock()
	if rt != nil {
		return rt
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT == nil {
		defaultRT = New(WithState(state.Default()))
	}
	return defaultRT
}

// SetDefault replaces the process-wide runtime and returns the previous one
func SetDefault(rt *Runtime) *Runtime {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultRT
	defaultRT = rt
	return prev
}

// Initialize initializes the default runtime
func Initialize(threaded bool, cfg config.OutputConfig) error {
	return Default().Initialize(threaded, cfg)
}

// Teardown tears the default runtime down
func Teardown() error {
	return Default().Teardown()
}

// RegisterHook registers fn on the default runtime
func RegisterHook(intent message.Intent, fn Hook) {
	Default().RegisterHook(intent, fn)
}

// InstallSignalHandlers installs signal handlers for the default runtime
func InstallSignalHandlers(ctx context.Context) (context.Context, func()) {
	return Default().InstallSignalHandlers(ctx)
}

// Info emits v as INFO on the default runtime
func Info[T message.Payload](v T, opts ...EmitOption) {
	Default().Info(message.NewBody(v), opts...)
}

// InfoV emits v as INFO shown from verbosity 1
func InfoV[T message.Payload](v T, opts ...EmitOption) {
	Default().InfoV(message.NewBody(v), opts...)
}

// InfoVV emits v as INFO shown from verbosity 2
func InfoVV[T message.Payload](v T, opts ...EmitOption) {
	Default().InfoVV(message.NewBody(v), opts...)
}

// InfoVVV emits v as INFO shown from verbosity 3
func InfoVVV[T message.Payload](v T, opts ...EmitOption) {
	Default().InfoVVV(message.NewBody(v), opts...)
}

// Out emits v as OUT on the default runtime
func Out[T message.Payload](v T, opts ...EmitOption) {
	Default().Out(message.NewBody(v), opts...)
}

// Err emits v as ERR on the default runtime
func Err[T message.Payload](v T, opts ...EmitOption) {
	Default().Err(message.NewBody(v), opts...)
}
