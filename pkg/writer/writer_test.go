package writer

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/message"
)

// textStream has no binary channel
type textStream struct {
	bytes.Buffer
}

// binStream records text, bytes and flushes separately
type binStream struct {
	text    bytes.Buffer
	bin     bytes.Buffer
	flushes int
}

func (s *binStream) Write(p []byte) (int, error) { return s.text.Write(p) }
func (s *binStream) Binary() io.Writer           { return &s.bin }
func (s *binStream) Flush() error                { s.flushes++; return nil }

type failingStream struct{}

func (failingStream) Write([]byte) (int, error) { return 0, stderrors.New("closed") }

func msg(intent message.Intent, body message.Body) message.Message {
	return message.New(intent, body)
}

func TestPlainWriterText(t *testing.T) {
	s := &binStream{}
	w := NewPlainWriter(s)

	require.NoError(t, w.Write(msg(message.Out, message.NewBody("hello"))))
	m := msg(message.Out, message.NewBody("no newline"))
	m.Newline = false
	require.NoError(t, w.Write(m))

	assert.Equal(t, "hello\nno newline", s.text.String())
	assert.Empty(t, s.bin.Bytes())
	assert.Equal(t, 2, s.flushes, "flushes after every write by default")
}

func TestPlainWriterStripsANSI(t *testing.T) {
	s := &textStream{}
	w := NewPlainWriter(s)

	require.NoError(t, w.Write(msg(message.Info, message.NewBody("\x1b[31mred\x1b[0m"))))
	assert.Equal(t, "red\n", s.String())
}

func TestPlainWriterWithoutFlush(t *testing.T) {
	s := &binStream{}
	w := NewPlainWriter(s, WithoutFlush())

	require.NoError(t, w.Write(msg(message.Out, message.NewBody("x"))))
	assert.Equal(t, 0, s.flushes)
}

func TestPlainWriterBytes(t *testing.T) {
	s := &binStream{}
	w := NewPlainWriter(s)
	require.True(t, w.WritesBytes())

	payload := []byte{0x00, 0xff, 0x10}
	require.NoError(t, w.Write(msg(message.Out, message.NewBody(payload))))

	m := msg(message.Out, message.NewBody([]byte("tail")))
	m.Newline = false
	require.NoError(t, w.Write(m))

	assert.Equal(t, append(append(payload, '\n'), []byte("tail")...), s.bin.Bytes())
	assert.Empty(t, s.text.String())
}

func TestPlainWriterBytesWithoutBinaryChannel(t *testing.T) {
	s := &textStream{}
	w := NewPlainWriter(s)
	assert.False(t, w.WritesBytes())

	err := w.Write(msg(message.Out, message.NewBody([]byte("x"))))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ByteWriteFailure)
	assert.Zero(t, s.Len())
}

func TestPlainWriterPropagatesWriteFailure(t *testing.T) {
	w := NewPlainWriter(failingStream{})
	err := w.Write(msg(message.Out, message.NewBody("x")))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))
}

func TestStyledWriter(t *testing.T) {
	t.Run("never writes bytes", func(t *testing.T) {
		s := &binStream{}
		w := NewStyledWriter(s, WithColorProfile(termenv.ANSI))
		assert.False(t, w.WritesBytes())

		err := w.Write(msg(message.Out, message.NewBody([]byte("x"))))
		assert.ErrorIs(t, err, errors.ByteWriteFailure)
		assert.Empty(t, s.bin.Bytes())
		assert.Empty(t, s.text.String())
	})

	t.Run("plain text", func(t *testing.T) {
		s := &binStream{}
		w := NewStyledWriter(s, WithColorProfile(termenv.ANSI))

		require.NoError(t, w.Write(msg(message.Out, message.NewBody("hello\tworld"))))
		assert.Equal(t, "hello\tworld\n", s.text.String())
		assert.Equal(t, 1, s.flushes)
	})

	t.Run("ansi passes through with color", func(t *testing.T) {
		s := &binStream{}
		w := NewStyledWriter(s, WithColorProfile(termenv.ANSI))

		require.NoError(t, w.Write(msg(message.Out, message.NewBody("\x1b[1mbold\x1b[0m"))))
		assert.Equal(t, "\x1b[1mbold\x1b[0m\n", s.text.String())
	})

	t.Run("ansi degrades without color", func(t *testing.T) {
		s := &binStream{}
		w := NewStyledWriter(s, WithColorProfile(termenv.Ascii))

		require.NoError(t, w.Write(msg(message.Out, message.NewBody("\x1b[1mbold\x1b[0m"))))
		assert.Equal(t, "bold\n", s.text.String())
	})

	t.Run("styled text renders attributes", func(t *testing.T) {
		s := &binStream{}
		w := NewStyledWriter(s, WithColorProfile(termenv.ANSI))

		body := message.NewBody(message.StyledText{Text: "ok", Attrs: message.Attrs{FG: "green", Bold: true}})
		require.NoError(t, w.Write(msg(message.Out, body)))

		out := s.text.String()
		assert.Contains(t, out, "\x1b[")
		assert.Equal(t, "ok\n", ansi.Strip(out))
	})

	t.Run("styled text is plain without color", func(t *testing.T) {
		s := &binStream{}
		w := NewStyledWriter(s, WithColorProfile(termenv.Ascii))

		body := message.NewBody(message.StyledText{Text: "ok", Attrs: message.Attrs{FG: "red"}})
		require.NoError(t, w.Write(msg(message.Out, body)))
		assert.Equal(t, "ok\n", s.text.String())
	})
}

func TestColor(t *testing.T) {
	assert.Equal(t, "1", string(Color("red")))
	assert.Equal(t, "12", string(Color("Bright-Blue")))
	assert.Equal(t, "#ff0000", string(Color("#ff0000")))
	assert.Equal(t, "208", string(Color("208")))
}

func TestDiscardWriter(t *testing.T) {
	w := NewDiscardWriter()
	assert.True(t, w.WritesBytes())
	assert.NoError(t, w.Write(msg(message.Out, message.NewBody([]byte("x")))))
	assert.NoError(t, w.Write(msg(message.Out, message.NewBody("x"))))
}

func TestLogWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewLogWriter(zerolog.New(&buf))
	assert.True(t, w.WritesBytes())

	require.NoError(t, w.Write(msg(message.Err, message.NewBody("disk full"))))
	require.NoError(t, w.Write(msg(message.Out, message.NewBody([]byte("abc")))))

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"intent":"err"`)
	assert.Contains(t, out, `"message":"disk full"`)
	assert.Contains(t, out, `"size":3`)
}

func TestSelect(t *testing.T) {
	s := &binStream{}
	styled := NewStyledWriter(s, WithColorProfile(termenv.Ascii))
	plain := NewPlainWriter(s)
	chain := []Writer{styled, plain}

	got, ok := Select(chain, msg(message.Out, message.NewBody("text")))
	require.True(t, ok)
	assert.Same(t, styled, got)

	got, ok = Select(chain, msg(message.Out, message.NewBody([]byte("raw"))))
	require.True(t, ok)
	assert.Same(t, plain, got)

	_, ok = Select([]Writer{styled}, msg(message.Out, message.NewBody([]byte("raw"))))
	assert.False(t, ok)
}

func TestDeliverWritesOnce(t *testing.T) {
	first := &binStream{}
	second := &binStream{}
	chain := []Writer{NewPlainWriter(first), NewPlainWriter(second)}

	require.NoError(t, Deliver(chain, msg(message.Out, message.NewBody("once"))))
	assert.Equal(t, "once\n", first.text.String())
	assert.Empty(t, second.text.String(), "only the first matching writer is used")
}

func TestDeliverFallsBackForBytes(t *testing.T) {
	s := &binStream{}
	chain := []Writer{NewStyledWriter(s, WithColorProfile(termenv.ANSI)), NewPlainWriter(s)}

	require.NoError(t, Deliver(chain, msg(message.Out, message.NewBody([]byte("raw")))))
	assert.Equal(t, "raw\n", s.bin.String())
	assert.Empty(t, s.text.String())
}

func TestDeliverEdgeCases(t *testing.T) {
	s := &textStream{}
	chain := []Writer{NewPlainWriter(s)}

	assert.NoError(t, Deliver(chain, message.Message{Intent: message.Out}))
	assert.Zero(t, s.Len())

	err := Deliver(chain, msg(message.Out, message.NewBody([]byte("raw"))))
	assert.ErrorIs(t, err, errors.ByteWriteFailure)
}

func TestFileStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	f, err := os.Create(path)
	require.NoError(t, err)

	s := NewFileStream(f, true)
	assert.Same(t, f, s.File())

	w := NewPlainWriter(s, WithoutFlush())
	require.NoError(t, w.Write(msg(message.Out, message.NewBody("text"))))
	require.NoError(t, w.Write(msg(message.Out, message.NewBody([]byte{0x01, 0x02}))))
	require.NoError(t, w.Write(msg(message.Out, message.NewBody("more"))))

	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("text\n\x01\x02\nmore\n"), data)
}
