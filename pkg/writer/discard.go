package writer

import "github.com/arthur-debert/clio/pkg/message"

// DiscardWriter accepts every message and writes nothing
type DiscardWriter struct{}

// NewDiscardWriter returns a discarding writer
func NewDiscardWriter() DiscardWriter {
	return DiscardWriter{}
}

// WritesBytes is true so a discarding writer ends any fallback chain
func (DiscardWriter) WritesBytes() bool { return true }

// Write does nothing
func (DiscardWriter) Write(message.Message) error { return nil }
