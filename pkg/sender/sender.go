// Package sender gates and routes messages to writers.
//
// Two strategies share the Sender interface. A Router delivers on the
// calling goroutine. A Queue hands messages to a single worker goroutine
// that owns every writer, so any number of goroutines may call Send.
package sender

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/clio/pkg/config"
	"github.com/arthur-debert/clio/pkg/destination"
	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/logging"
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/state"
	"github.com/arthur-debert/clio/pkg/writer"
)

// Sender dispatches messages to their destinations
type Sender interface {
	// Send delivers or enqueues m
	Send(m message.Message) error
	// Finish flushes pending messages and releases destinations
	Finish() error
}

type options struct {
	state        *state.State
	stdout       *os.File
	resolverOpts []destination.Option
	logger       zerolog.Logger
}

// Option configures a sender
type Option func(*options)

// WithState uses st for the verbosity and interactivity decisions
func WithState(st *state.State) Option {
	return func(o *options) { o.state = st }
}

// WithDetectionFile sets the stream checked to pick the interactive mode
func WithDetectionFile(f *os.File) Option {
	return func(o *options) { o.stdout = f }
}

// WithResolverOptions passes options to the destination resolver
func WithResolverOptions(opts ...destination.Option) Option {
	return func(o *options) { o.resolverOpts = append(o.resolverOpts, opts...) }
}

// WithLogger sets the diagnostic logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(component string, opts []Option) options {
	o := options{
		state:  state.Default(),
		stdout: os.Stdout,
		logger: logging.GetLogger(component),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a Queue when threaded is true and a Router otherwise
func New(threaded bool, cfg config.OutputConfig, opts ...Option) (Sender, error) {
	if threaded {
		return NewQueue(cfg, opts...)
	}
	return NewRouter(cfg, opts...)
}

// Router delivers messages synchronously on the calling goroutine
type Router struct {
	verbosity   int
	interactive bool
	chains      map[message.Intent][]writer.Writer
	resolver    *destination.Resolver
	logger      zerolog.Logger
}

// NewRouter captures verbosity, picks the interactive or non-interactive
// mode by checking stdout, and resolves that mode's destinations once
func NewRouter(cfg config.OutputConfig, opts ...Option) (*Router, error) {
	o := buildOptions("sender.Router", opts)

	r := &Router{
		verbosity:   o.state.Verbosity(),
		interactive: o.state.IsInteractive(o.stdout),
		chains:      make(map[message.Intent][]writer.Writer, len(message.Intents)),
		resolver:    destination.NewResolver(o.resolverOpts...),
		logger:      o.logger,
	}

	mode := cfg.Mode(r.interactive)
	for _, intent := range message.Intents {
		chain, err := r.resolver.Resolve(mode.For(intent))
		if err != nil {
			_ = r.resolver.Close()
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "cannot resolve %s destination", intent).
				WithDetail("intent", intent.String())
		}
		r.chains[intent] = chain
	}

	r.logger.Debug().
		Int("verbosity", r.verbosity).
		Bool("interactive", r.interactive).
		Str("info", mode.Info).
		Str("out", mode.Out).
		Str("err", mode.Err).
		Msg("Router created")

	return r, nil
}

// Interactive reports which mode the router selected
func (r *Router) Interactive() bool {
	return r.interactive
}

// Send drops messages without a body or above the captured verbosity and
// writes the rest through the intent's writer chain
func (r *Router) Send(m message.Message) error {
	if m.Body == nil {
		return nil
	}
	if m.MinVerbosity > r.verbosity {
		return nil
	}
	chain, ok := r.chains[m.Intent]
	if !ok {
		return errors.Newf(errors.ErrInvalidInput, "unknown intent %d", int(m.Intent))
	}
	return writer.Deliver(chain, m)
}

// Finish flushes and closes the destinations the router opened
func (r *Router) Finish() error {
	return r.resolver.Close()
}
