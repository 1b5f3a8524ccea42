// Package style attaches visual styling to messages.
//
// Styling is declarative: a Style becomes the attributes of a styled body,
// and the writer that finally prints the message decides how (and whether)
// to render them for its terminal. Styles are applied through output hooks,
// either one at a time (SetInfoStyle, SetOutStyle, SetErrStyle) or from a
// YAML style sheet.
package style

import (
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/output"
)

// Style describes how a message should look. Colors are names such as
// "red" or "bright_blue", ANSI numbers such as "208", or hex values.
type Style struct {
	FG            string `yaml:"fg,omitempty"`
	BG            string `yaml:"bg,omitempty"`
	Bold          bool   `yaml:"bold,omitempty"`
	Italic        bool   `yaml:"italic,omitempty"`
	Underline     bool   `yaml:"underline,omitempty"`
	Strikethrough bool   `yaml:"strikethrough,omitempty"`
	Blink         bool   `yaml:"blink,omitempty"`
	Reverse       bool   `yaml:"reverse,omitempty"`
}

// Attrs converts s to message attributes
func (s Style) Attrs() message.Attrs {
	return message.Attrs{
		FG:            s.FG,
		BG:            s.BG,
		Bold:          s.Bold,
		Italic:        s.Italic,
		Underline:     s.Underline,
		Strikethrough: s.Strikethrough,
		Blink:         s.Blink,
		Reverse:       s.Reverse,
	}
}

// merge lays s over a: set colors replace, set flags add
func (s Style) merge(a message.Attrs) message.Attrs {
	if s.FG != "" {
		a.FG = s.FG
	}
	if s.BG != "" {
		a.BG = s.BG
	}
	a.Bold = a.Bold || s.Bold
	a.Italic = a.Italic || s.Italic
	a.Underline = a.Underline || s.Underline
	a.Strikethrough = a.Strikethrough || s.Strikethrough
	a.Blink = a.Blink || s.Blink
	a.Reverse = a.Reverse || s.Reverse
	return a
}

// Apply gives m's body the style s. Plain text becomes styled text, styled
// text gets s merged over its attributes. Raw bytes and text that already
// carries escape sequences are left untouched.
func Apply(m message.Message, s Style) message.Message {
	if m.Body == nil {
		return m
	}
	switch m.Body.Kind() {
	case message.KindPlain:
		text, _ := m.Body.Text()
		return m.WithBody(message.NewBody(message.StyledText{Text: text, Attrs: s.Attrs()}))
	case message.KindStyled:
		st, _ := m.Body.Styled()
		st.Attrs = s.merge(st.Attrs)
		return m.WithBody(message.NewBody(st))
	default:
		return m
	}
}

// Hook returns an output hook applying s
func Hook(s Style) output.Hook {
	return func(m message.Message) message.Message {
		return Apply(m, s)
	}
}

// SetInfoStyle styles every INFO message emitted through rt
func SetInfoStyle(rt *output.Runtime, s Style) {
	rt.RegisterHook(message.Info, Hook(s))
}

// SetOutStyle styles every OUT message emitted through rt
func SetOutStyle(rt *output.Runtime, s Style) {
	rt.RegisterHook(message.Out, Hook(s))
}

// SetErrStyle styles every ERR message emitted through rt
func SetErrStyle(rt *output.Runtime, s Style) {
	rt.RegisterHook(message.Err, Hook(s))
}
