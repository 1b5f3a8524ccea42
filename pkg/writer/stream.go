package writer

import (
	"bufio"
	"io"
	"os"
)

// FileStream is a buffered stream over an *os.File. Text and bytes share
// one buffer, so both channels stay in write order.
type FileStream struct {
	file  *os.File
	buf   *bufio.Writer
	owned bool
}

// NewFileStream wraps f. When owned is true, Close closes f.
func NewFileStream(f *os.File, owned bool) *FileStream {
	return &FileStream{
		file:  f,
		buf:   bufio.NewWriter(f),
		owned: owned,
	}
}

// Write writes to the buffer
func (s *FileStream) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// Binary returns the raw byte channel
func (s *FileStream) Binary() io.Writer {
	return s.buf
}

// Flush writes buffered data to the file
func (s *FileStream) Flush() error {
	return s.buf.Flush()
}

// File returns the underlying file
func (s *FileStream) File() *os.File {
	return s.file
}

// Close flushes and, for owned files, closes the file
func (s *FileStream) Close() error {
	if err := s.buf.Flush(); err != nil {
		return err
	}
	if s.owned {
		return s.file.Close()
	}
	return nil
}
