package writer

import (
	"io"

	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/message"
)

// PlainWriter writes unstyled text, and raw bytes when its stream exposes a
// binary channel
type PlainWriter struct {
	stream io.Writer
	flush  bool
}

// PlainOption configures a PlainWriter
type PlainOption func(*PlainWriter)

// WithoutFlush disables flushing after every write
func WithoutFlush() PlainOption {
	return func(w *PlainWriter) { w.flush = false }
}

// NewPlainWriter creates a plain writer over stream. Flushing after every
// write is on by default.
func NewPlainWriter(stream io.Writer, opts ...PlainOption) *PlainWriter {
	w := &PlainWriter{stream: stream, flush: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WritesBytes reports whether the stream has a binary channel
func (w *PlainWriter) WritesBytes() bool {
	_, ok := w.stream.(BinaryStream)
	return ok
}

// Write delivers m to the stream
func (w *PlainWriter) Write(m message.Message) error {
	if m.Body == nil {
		return nil
	}

	if m.Body.IsBytes() {
		bs, ok := w.stream.(BinaryStream)
		if !ok {
			return errors.New(errors.ErrByteWrite, "plain stream has no binary channel")
		}
		data, _ := m.Body.Bytes()
		bin := bs.Binary()
		if _, err := bin.Write(data); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "byte write failed")
		}
		if m.Newline {
			if _, err := bin.Write([]byte{'\n'}); err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "byte write failed")
			}
		}
	} else {
		text, err := m.Body.Text()
		if err != nil {
			return err
		}
		if m.Newline {
			text += "\n"
		}
		if _, err := io.WriteString(w.stream, text); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "text write failed")
		}
	}

	if w.flush {
		return flush(w.stream)
	}
	return nil
}
