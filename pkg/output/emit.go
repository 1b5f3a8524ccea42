package output

import "github.com/arthur-debert/clio/pkg/message"

// EmitOption adjusts a message before hooks run
type EmitOption func(*message.Message)

// Verbosity sets the verbosity a message requires to be shown
func Verbosity(n int) EmitOption {
	return func(m *message.Message) {
		if n < 0 {
			n = 0
		}
		m.MinVerbosity = n
	}
}

// NoNewline suppresses the trailing newline
func NoNewline() EmitOption {
	return func(m *message.Message) { m.Newline = false }
}

// Emit builds a message for intent and sends it
func (rt *Runtime) Emit(intent message.Intent, body message.Body, opts ...EmitOption) {
	m := message.New(intent, body)
	for _, opt := range opts {
		opt(&m)
	}
	rt.Send(m)
}

// Info emits a message meant for humans. Interactive sessions show it on
// stdout; otherwise it goes to stderr so it does not mix with
// machine-readable output.
func (rt *Runtime) Info(body message.Body, opts ...EmitOption) {
	rt.Emit(message.Info, body, opts...)
}

// InfoV is Info shown from verbosity 1
func (rt *Runtime) InfoV(body message.Body, opts ...EmitOption) {
	rt.Emit(message.Info, body, append(opts, Verbosity(1))...)
}

// InfoVV is Info shown from verbosity 2
func (rt *Runtime) InfoVV(body message.Body, opts ...EmitOption) {
	rt.Emit(message.Info, body, append(opts, Verbosity(2))...)
}

// InfoVVV is Info shown from verbosity 3
func (rt *Runtime) InfoVVV(body message.Body, opts ...EmitOption) {
	rt.Emit(message.Info, body, append(opts, Verbosity(3))...)
}

// Out emits primary output
func (rt *Runtime) Out(body message.Body, opts ...EmitOption) {
	rt.Emit(message.Out, body, opts...)
}

// Err emits error output
func (rt *Runtime) Err(body message.Body, opts ...EmitOption) {
	rt.Emit(message.Err, body, opts...)
}
