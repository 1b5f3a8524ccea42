package style

import (
	"regexp"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/output"
	"github.com/arthur-debert/clio/pkg/writer"
)

// DefaultTags are the markup tags every Markup starts with
var DefaultTags = map[string]Style{
	"bold":      {Bold: true},
	"italic":    {Italic: true},
	"underline": {Underline: true},
	"title":     {Bold: true, Underline: true},
	"success":   {FG: "green", Bold: true},
	"error":     {FG: "red", Bold: true},
	"warning":   {FG: "yellow", Bold: true},
	"info":      {FG: "cyan"},
	"muted":     {FG: "bright_black"},
	"code":      {FG: "blue"},
	"path":      {FG: "magenta", Italic: true},
}

type tag struct {
	pattern *regexp.Regexp
	style   Style
}

// Markup renders inline tags such as "[bold]text[/bold]" into escape
// sequences for a given renderer. Unknown tags are left as they are.
type Markup struct {
	mu       sync.RWMutex
	tags     map[string]tag
	renderer *lipgloss.Renderer
}

// NewMarkup creates a markup parser rendering with r, or with lipgloss'
// default renderer when r is nil
func NewMarkup(r *lipgloss.Renderer) *Markup {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	m := &Markup{tags: make(map[string]tag), renderer: r}
	for name, s := range DefaultTags {
		m.AddTag(name, s)
	}
	return m
}

// AddTag defines or replaces a tag
func (p *Markup) AddTag(name string, s Style) {
	pattern := regexp.MustCompile(`\[` + regexp.QuoteMeta(name) + `\](.*?)\[/` + regexp.QuoteMeta(name) + `\]`)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.tags[name] = tag{pattern: pattern, style: s}
}

// Render replaces every known tag in text with its styled content. Nested
// tags are handled by rendering until the text stops changing.
func (p *Markup) Render(text string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := text
	for {
		before := result
		for _, t := range p.tags {
			st := writer.Style(p.renderer, t.style.Attrs())
			result = t.pattern.ReplaceAllStringFunc(result, func(match string) string {
				sub := t.pattern.FindStringSubmatch(match)
				if len(sub) != 2 {
					return match
				}
				return st.Render(sub[1])
			})
		}
		if result == before {
			return result
		}
	}
}

// Hook returns an output hook rendering markup in plain text bodies
func (p *Markup) Hook() output.Hook {
	return func(m message.Message) message.Message {
		if m.Body == nil || m.Body.Kind() != message.KindPlain {
			return m
		}
		text, _ := m.Body.Text()
		rendered := p.Render(text)
		if rendered == text {
			return m
		}
		return m.WithBody(message.NewBody(rendered))
	}
}
