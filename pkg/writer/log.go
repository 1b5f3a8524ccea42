package writer

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/clio/pkg/message"
)

// LogWriter forwards messages to a zerolog logger. Err messages are logged
// at error level, everything else at info level.
type LogWriter struct {
	logger zerolog.Logger
}

// NewLogWriter creates a writer logging through logger
func NewLogWriter(logger zerolog.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

// WritesBytes is true: byte bodies are logged as a field
func (w *LogWriter) WritesBytes() bool { return true }

// Write logs one event for m
func (w *LogWriter) Write(m message.Message) error {
	if m.Body == nil {
		return nil
	}

	event := w.logger.Info()
	if m.Intent == message.Err {
		event = w.logger.Error()
	}
	event = event.Str("intent", m.Intent.String())

	if m.Body.IsBytes() {
		data, _ := m.Body.Bytes()
		event.Bytes("body", data).Int("size", len(data)).Msg("message")
		return nil
	}

	text, err := m.Body.Text()
	if err != nil {
		return err
	}
	event.Msg(text)
	return nil
}
