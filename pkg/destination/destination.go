// Package destination turns destination descriptors into writer chains.
//
// Descriptors:
//
//	null             discard everything
//	styled[<target>] styled terminal writer over target, plain fallback for bytes
//	logging          forward to the diagnostic logger
//	stdout, stderr   the process streams
//	<path>           a file, created or truncated
//
// Resolution happens once per configuration. The Resolver owns every file it
// opens until Close.
package destination

import (
	stderrors "errors"
	"io"
	"os"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/logging"
	"github.com/arthur-debert/clio/pkg/writer"
)

// Kind is the type of a descriptor
type Kind int

const (
	// Stream is a process stream or file
	Stream Kind = iota
	// Null discards messages
	Null
	// Styled is a styled terminal over a target stream
	Styled
	// Logging forwards messages to the diagnostic logger
	Logging
)

// Well-known descriptor tokens
const (
	NullToken    = "null"
	LoggingToken = "logging"
	StdoutToken  = "stdout"
	StderrToken  = "stderr"
)

var styledPattern = regexp.MustCompile(`^styled\[(.+)\]$`)

// Descriptor is a parsed destination descriptor
type Descriptor struct {
	Kind   Kind
	Target string
}

// Parse parses a destination descriptor string
func Parse(s string) (Descriptor, error) {
	switch s {
	case "":
		return Descriptor{}, errors.New(errors.ErrInvalidDescriptor, "empty destination descriptor")
	case NullToken:
		return Descriptor{Kind: Null}, nil
	case LoggingToken:
		return Descriptor{Kind: Logging}, nil
	}
	if m := styledPattern.FindStringSubmatch(s); m != nil {
		return Descriptor{Kind: Styled, Target: m[1]}, nil
	}
	return Descriptor{Kind: Stream, Target: s}, nil
}

// String returns the descriptor in its string form
func (d Descriptor) String() string {
	switch d.Kind {
	case Null:
		return NullToken
	case Logging:
		return LoggingToken
	case Styled:
		return "styled[" + d.Target + "]"
	default:
		return d.Target
	}
}

// Resolver resolves descriptors to writer chains and owns the streams it
// opens
type Resolver struct {
	stdout  io.Writer
	stderr  io.Writer
	logger  zerolog.Logger
	streams map[string]io.Writer
	owned   []io.Closer
}

// Option configures a Resolver
type Option func(*Resolver)

// WithStdout replaces the stream used for "stdout"
func WithStdout(w io.Writer) Option {
	return func(r *Resolver) { r.stdout = w }
}

// WithStderr replaces the stream used for "stderr"
func WithStderr(w io.Writer) Option {
	return func(r *Resolver) { r.stderr = w }
}

// WithLogger sets the logger used by the "logging" destination
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver over the process streams
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger:  logging.GetLogger("output"),
		streams: make(map[string]io.Writer),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.stdout == nil {
		r.stdout = writer.NewFileStream(os.Stdout, false)
	}
	if r.stderr == nil {
		r.stderr = writer.NewFileStream(os.Stderr, false)
	}
	return r
}

// Resolve parses s and returns its writer chain
func (r *Resolver) Resolve(s string) ([]writer.Writer, error) {
	d, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return r.ResolveDescriptor(d)
}

// ResolveDescriptor returns the writer chain for d
func (r *Resolver) ResolveDescriptor(d Descriptor) ([]writer.Writer, error) {
	log := logging.GetLogger("destination.Resolver")

	var chain []writer.Writer
	switch d.Kind {
	case Null:
		chain = []writer.Writer{writer.NewDiscardWriter()}
	case Logging:
		chain = []writer.Writer{writer.NewLogWriter(r.logger)}
	case Styled:
		stream, err := r.open(d.Target)
		if err != nil {
			return nil, err
		}
		chain = []writer.Writer{writer.NewStyledWriter(stream), writer.NewPlainWriter(stream)}
	default:
		stream, err := r.open(d.Target)
		if err != nil {
			return nil, err
		}
		chain = []writer.Writer{writer.NewPlainWriter(stream)}
	}

	log.Debug().
		Str("descriptor", d.String()).
		Int("writers", len(chain)).
		Msg("Destination resolved")
	return chain, nil
}

// open returns the stream for name, opening files once per resolver
func (r *Resolver) open(name string) (io.Writer, error) {
	switch name {
	case StdoutToken:
		return r.stdout, nil
	case StderrToken:
		return r.stderr, nil
	}
	if s, ok := r.streams[name]; ok {
		return s, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileCreate, "cannot open destination %s", name).
			WithDetail("path", name)
	}
	stream := writer.NewFileStream(f, true)
	r.streams[name] = stream
	r.owned = append(r.owned, stream)
	return stream, nil
}

// Close flushes the process streams and closes every file the resolver
// opened
func (r *Resolver) Close() error {
	var errs []error
	for _, s := range []io.Writer{r.stdout, r.stderr} {
		if f, ok := s.(writer.Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, c := range r.owned {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.owned = nil
	r.streams = make(map[string]io.Writer)

	if len(errs) > 0 {
		return errors.Wrap(stderrors.Join(errs...), errors.ErrFileWrite, "closing destinations failed")
	}
	return nil
}
