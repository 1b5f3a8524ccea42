// Package message defines the values that flow through the output runtime:
// the Intent of a message, its Body and the Message itself.
package message

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/arthur-debert/clio/pkg/errors"
)

// Intent classifies the semantic channel of a message
type Intent int

const (
	// Info is human oriented, non-error output
	Info Intent = iota
	// Out is the primary output of the tool
	Out
	// Err is error output
	Err
)

// Intents lists every intent in routing order
var Intents = []Intent{Info, Out, Err}

// String returns the string representation of the intent
func (i Intent) String() string {
	switch i {
	case Info:
		return "info"
	case Out:
		return "out"
	case Err:
		return "err"
	default:
		return "unknown"
	}
}

// ParseIntent parses a string into an Intent
func ParseIntent(s string) (Intent, error) {
	switch strings.ToLower(s) {
	case "info":
		return Info, nil
	case "out":
		return Out, nil
	case "err", "error":
		return Err, nil
	default:
		return Info, errors.Newf(errors.ErrInvalidInput, "unknown intent: %s", s)
	}
}

// Kind is the payload type of a Body
type Kind int

const (
	// KindPlain is plain text
	KindPlain Kind = iota
	// KindBytes is an opaque byte payload
	KindBytes
	// KindANSI is text carrying terminal escape sequences
	KindANSI
	// KindStyled is structured styled text
	KindStyled
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindBytes:
		return "bytes"
	case KindANSI:
		return "ansi"
	case KindStyled:
		return "styled"
	default:
		return "unknown"
	}
}

// Attrs are the rendering attributes of styled text. Colors are names,
// ANSI numbers or hex values; interpretation is left to the writer.
type Attrs struct {
	FG            string
	BG            string
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Blink         bool
	Reverse       bool
}

// IsZero reports whether no attribute is set
func (a Attrs) IsZero() bool {
	return a == Attrs{}
}

// StyledText is text paired with rendering attributes
type StyledText struct {
	Text  string
	Attrs Attrs
}

// Payload lists the values a Body can be built from
type Payload interface {
	string | []byte | StyledText
}

// csi introduces an ANSI control sequence
const csi = "\x1b["

// Body is a message payload. Its Kind is fixed at construction.
type Body struct {
	kind   Kind
	text   string
	raw    []byte
	styled StyledText
}

// NewBody builds a Body, inferring its kind from the payload:
// strings with escape sequences are ANSI, other strings plain, byte slices
// raw and StyledText styled. Byte payloads are copied.
func NewBody[T Payload](v T) Body {
	switch p := any(v).(type) {
	case StyledText:
		return Body{kind: KindStyled, styled: p}
	case []byte:
		raw := make([]byte, len(p))
		copy(raw, p)
		return Body{kind: KindBytes, raw: raw}
	case string:
		if strings.Contains(p, csi) {
			return Body{kind: KindANSI, text: p}
		}
		return Body{kind: KindPlain, text: p}
	}
	// unreachable: Payload is a closed set
	panic(fmt.Sprintf("unsupported payload %T", v))
}

// Kind returns the payload kind
func (b Body) Kind() Kind {
	return b.kind
}

// IsBytes reports whether the body is a raw byte payload
func (b Body) IsBytes() bool {
	return b.kind == KindBytes
}

// Data returns the original payload. Byte payloads are copied.
func (b Body) Data() any {
	switch b.kind {
	case KindBytes:
		return bytes.Clone(b.raw)
	case KindStyled:
		return b.styled
	default:
		return b.text
	}
}

// Styled returns the styled payload and whether the body is styled
func (b Body) Styled() (StyledText, bool) {
	return b.styled, b.kind == KindStyled
}

// Text returns the body as unstyled text. ANSI bodies are stripped of their
// escape sequences. Raw byte bodies cannot be converted.
func (b Body) Text() (string, error) {
	switch b.kind {
	case KindPlain:
		return b.text, nil
	case KindANSI:
		return ansi.Strip(b.text), nil
	case KindStyled:
		return b.styled.Text, nil
	default:
		return "", errors.New(errors.ErrUnsupportedConversion, "binary message cannot be converted to text").
			WithDetail("size", len(b.raw))
	}
}

// Raw returns the text as given, escape sequences included. Raw byte bodies
// cannot be converted.
func (b Body) Raw() (string, error) {
	if b.kind == KindANSI {
		return b.text, nil
	}
	return b.Text()
}

// Bytes returns a copy of raw byte payloads and the UTF-8 encoding of Text
// otherwise. The body stays immutable while it waits in a queue.
func (b Body) Bytes() ([]byte, error) {
	if b.kind == KindBytes {
		return bytes.Clone(b.raw), nil
	}
	s, err := b.Text()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// String implements fmt.Stringer
func (b Body) String() string {
	if b.kind == KindBytes {
		return fmt.Sprintf("<%d bytes>", len(b.raw))
	}
	s, _ := b.Text()
	return s
}

// Message is one unit of output. A nil Body makes the message a no-op.
type Message struct {
	Intent       Intent
	Body         *Body
	Newline      bool
	MinVerbosity int
}

// New returns a message for intent with a trailing newline and no
// verbosity requirement
func New(intent Intent, body Body) Message {
	return Message{
		Intent:  intent,
		Body:    &body,
		Newline: true,
	}
}

// WithBody returns a copy of m carrying body
func (m Message) WithBody(body Body) Message {
	m.Body = &body
	return m
}
