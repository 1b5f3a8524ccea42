package writer

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/logging"
	"github.com/arthur-debert/clio/pkg/message"
)

// StyledWriter renders text bodies for a terminal. It never writes raw bytes.
type StyledWriter struct {
	stream   io.Writer
	renderer *lipgloss.Renderer
	flush    bool
}

// StyledOption configures a StyledWriter
type StyledOption func(*StyledWriter)

// WithColorProfile forces the color profile instead of detecting it
func WithColorProfile(p termenv.Profile) StyledOption {
	return func(w *StyledWriter) { w.renderer.SetColorProfile(p) }
}

// fileBacked is implemented by streams wrapping an *os.File
type fileBacked interface {
	File() *os.File
}

// NewStyledWriter creates a styled writer over stream. Terminal capabilities
// are detected on the file behind the stream when there is one, and
// NO_COLOR disables color.
func NewStyledWriter(stream io.Writer, opts ...StyledOption) *StyledWriter {
	log := logging.GetLogger("writer.StyledWriter")

	var detectOn io.Writer = stream
	if fb, ok := stream.(fileBacked); ok {
		detectOn = fb.File()
	}

	renderer := lipgloss.NewRenderer(detectOn)
	if termenv.EnvNoColor() {
		renderer.SetColorProfile(termenv.Ascii)
	}

	w := &StyledWriter{
		stream:   stream,
		renderer: renderer,
		flush:    true,
	}
	for _, opt := range opts {
		opt(w)
	}

	log.Debug().
		Str("colorProfile", profileName(w.renderer.ColorProfile())).
		Str("NO_COLOR_env", os.Getenv("NO_COLOR")).
		Msg("Styled writer created")

	return w
}

// WritesBytes is always false for styled writers
func (w *StyledWriter) WritesBytes() bool {
	return false
}

// Write renders m and writes it to the stream
func (w *StyledWriter) Write(m message.Message) error {
	if m.Body == nil {
		return nil
	}

	var out string
	switch m.Body.Kind() {
	case message.KindBytes:
		return errors.New(errors.ErrByteWrite, "styled writer cannot write bytes")
	case message.KindANSI:
		raw, _ := m.Body.Raw()
		if w.renderer.ColorProfile() == termenv.Ascii {
			raw = ansi.Strip(raw)
		}
		out = raw
	case message.KindStyled:
		st, _ := m.Body.Styled()
		out = w.Render(st)
	default:
		out, _ = m.Body.Text()
	}

	if m.Newline {
		out += "\n"
	}
	if _, err := io.WriteString(w.stream, out); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "styled write failed")
	}

	if w.flush {
		return flush(w.stream)
	}
	return nil
}

// Render applies the attributes of st with the writer's color profile
func (w *StyledWriter) Render(st message.StyledText) string {
	if st.Attrs.IsZero() {
		return st.Text
	}
	return Style(w.renderer, st.Attrs).Render(st.Text)
}

// Style converts attributes into a lipgloss style bound to r
func Style(r *lipgloss.Renderer, a message.Attrs) lipgloss.Style {
	s := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if a.FG != "" {
		s = s.Foreground(Color(a.FG))
	}
	if a.BG != "" {
		s = s.Background(Color(a.BG))
	}
	if a.Bold {
		s = s.Bold(true)
	}
	if a.Italic {
		s = s.Italic(true)
	}
	if a.Underline {
		s = s.Underline(true)
	}
	if a.Strikethrough {
		s = s.Strikethrough(true)
	}
	if a.Blink {
		s = s.Blink(true)
	}
	if a.Reverse {
		s = s.Reverse(true)
	}
	return s
}

var namedColors = map[string]string{
	"black":          "0",
	"red":            "1",
	"green":          "2",
	"yellow":         "3",
	"blue":           "4",
	"magenta":        "5",
	"cyan":           "6",
	"white":          "7",
	"bright_black":   "8",
	"grey":           "8",
	"gray":           "8",
	"bright_red":     "9",
	"bright_green":   "10",
	"bright_yellow":  "11",
	"bright_blue":    "12",
	"bright_magenta": "13",
	"bright_cyan":    "14",
	"bright_white":   "15",
}

// Color resolves a color name, ANSI number or hex value
func Color(name string) lipgloss.Color {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if c, ok := namedColors[key]; ok {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(name)
}

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.ANSI:
		return "ansi"
	default:
		return "ascii"
	}
}
