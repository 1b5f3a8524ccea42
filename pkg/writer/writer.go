// Package writer implements the sinks messages are delivered to.
//
// A destination resolves to an ordered chain of writers. Delivery picks the
// first writer in the chain that can take the message body (raw bytes need a
// writer that WritesBytes) and writes through that writer only.
package writer

import (
	"io"

	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/message"
)

// Writer is a message sink
type Writer interface {
	// WritesBytes reports whether the writer accepts raw byte bodies
	WritesBytes() bool
	// Write delivers one message
	Write(m message.Message) error
}

// BinaryStream is implemented by streams that expose a raw byte channel
// next to their text channel
type BinaryStream interface {
	Binary() io.Writer
}

// Flusher is implemented by buffered streams
type Flusher interface {
	Flush() error
}

// Accepts reports whether w can take the body of m
func Accepts(w Writer, m message.Message) bool {
	if m.Body != nil && m.Body.IsBytes() {
		return w.WritesBytes()
	}
	return true
}

// Select returns the first writer of chain that accepts m
func Select(chain []Writer, m message.Message) (Writer, bool) {
	for _, w := range chain {
		if Accepts(w, m) {
			return w, true
		}
	}
	return nil, false
}

// Deliver writes m through the first accepting writer of chain. Messages
// without a body are dropped.
func Deliver(chain []Writer, m message.Message) error {
	if m.Body == nil {
		return nil
	}
	w, ok := Select(chain, m)
	if !ok {
		return errors.New(errors.ErrByteWrite, "no writer in chain accepts bytes").
			WithDetail("intent", m.Intent.String())
	}
	return w.Write(m)
}

func flush(stream io.Writer) error {
	if f, ok := stream.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "flush failed")
		}
	}
	return nil
}
