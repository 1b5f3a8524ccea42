// Package output is the entry point tools use to talk to their users.
//
// A Runtime owns the verbosity and interactivity state, the per-intent hook
// pipelines and the active sender. Messages are built by the emit methods,
// transformed by the hooks registered for their intent, then handed to the
// sender, which decides whether and where they are written.
//
// Typical use from a command's entry point:
//
//	rt := output.New()
//	if err := rt.Initialize(false, config.Default()); err != nil {
//	    return err
//	}
//	defer rt.Teardown()
//
//	rt.Out(message.NewBody("result"))
//	rt.InfoV(message.NewBody("details shown with -v"))
//
// The package also exposes a process-wide default Runtime through free
// functions (Initialize, Teardown, Info, Out, Err, ...).
package output

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/clio/pkg/config"
	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/logging"
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/sender"
	"github.com/arthur-debert/clio/pkg/state"
)

// Hook transforms a message before it reaches the sender
type Hook func(message.Message) message.Message

// Runtime is an output runtime: state, hooks and the active sender
type Runtime struct {
	mu     sync.RWMutex
	state  *state.State
	hooks  map[message.Intent][]Hook
	sender sender.Sender

	senderOpts []sender.Option
	// logger is nil until WithLogger; the global logger is used otherwise
	logger *zerolog.Logger
	exit   func(int)
}

// Option configures a Runtime
type Option func(*Runtime)

// WithState uses st instead of a fresh state
func WithState(st *state.State) Option {
	return func(rt *Runtime) { rt.state = st }
}

// WithSenderOptions passes options to every sender the runtime creates
func WithSenderOptions(opts ...sender.Option) Option {
	return func(rt *Runtime) { rt.senderOpts = append(rt.senderOpts, opts...) }
}

// WithLogger sets the logger used for diagnostics such as dropped messages
func WithLogger(l zerolog.Logger) Option {
	return func(rt *Runtime) { rt.logger = &l }
}

// WithExitFunc replaces os.Exit for the terminate signal handler
func WithExitFunc(exit func(int)) Option {
	return func(rt *Runtime) { rt.exit = exit }
}

// New creates an uninitialized runtime
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		state: state.New(),
		hooks: make(map[message.Intent][]Hook),
		exit:  os.Exit,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Runtime) log() *zerolog.Logger {
	if rt.logger != nil {
		return rt.logger
	}
	l := logging.GetLogger("output")
	return &l
}

// State returns the runtime's verbosity and interactivity state
func (rt *Runtime) State() *state.State {
	return rt.state
}

// Initialize creates the sender: a queued one when threaded is true, a
// direct one otherwise. It fails if a sender already exists.
func (rt *Runtime) Initialize(threaded bool, cfg config.OutputConfig) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.sender != nil {
		return errors.New(errors.ErrAlreadyInitialized, "output must only be initialized once")
	}

	opts := append([]sender.Option{sender.WithState(rt.state)}, rt.senderOpts...)
	s, err := sender.New(threaded, cfg, opts...)
	if err != nil {
		return err
	}
	rt.sender = s

	rt.log().Debug().
		Bool("threaded", threaded).
		Int("verbosity", rt.state.Verbosity()).
		Str("interactivity", rt.state.Interactivity().String()).
		Msg("Output initialized")
	return nil
}

// Initialized reports whether a sender is active
func (rt *Runtime) Initialized() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.sender != nil
}

// Teardown finishes the sender, waiting for queued messages to be written,
// and releases it. Messages emitted afterwards are dropped. Without a
// sender it does nothing.
func (rt *Runtime) Teardown() error {
	rt.mu.Lock()
	s := rt.sender
	rt.sender = nil
	rt.mu.Unlock()

	if s == nil {
		return nil
	}
	done := logging.LogOperationStart(*rt.log(), "teardown")
	defer done()
	return s.Finish()
}

// RegisterHook appends fn to the hooks of intent. Hooks run in
// registration order, each one seeing the previous one's result.
func (rt *Runtime) RegisterHook(intent message.Intent, fn Hook) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.hooks[intent] = append(rt.hooks[intent], fn)
}

// ClearHooks removes every hook of intent
func (rt *Runtime) ClearHooks(intent message.Intent) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	delete(rt.hooks, intent)
}

func (rt *Runtime) hooksFor(intent message.Intent) []Hook {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return append([]Hook(nil), rt.hooks[intent]...)
}

// Send runs m through its intent's hooks and hands it to the sender.
// It never fails: without a sender the message is dropped with a notice,
// and delivery errors are logged.
func (rt *Runtime) Send(m message.Message) {
	for _, h := range rt.hooksFor(m.Intent) {
		m = h(m)
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.sender == nil {
		rt.log().Warn().
			Str("code", string(errors.ErrNotInitialized)).
			Str("intent", m.Intent.String()).
			Msg("output must be initialized before sending messages")
		return
	}
	if err := rt.sender.Send(m); err != nil {
		rt.log().Error().
			Err(err).
			Str("intent", m.Intent.String()).
			Msg("Message delivery failed")
	}
}
