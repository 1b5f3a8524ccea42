package style

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/output"
)

// Markdown returns a hook rendering plain text bodies as markdown. Without
// options the style is detected from the terminal and text wraps at 80
// columns. A body that fails to render is passed on unchanged.
func Markdown(opts ...glamour.TermRendererOption) (output.Hook, error) {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		}
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	return func(m message.Message) message.Message {
		if m.Body == nil || m.Body.Kind() != message.KindPlain {
			return m
		}
		text, _ := m.Body.Text()

		mu.Lock()
		rendered, err := renderer.Render(text)
		mu.Unlock()
		if err != nil {
			return m
		}
		return m.WithBody(message.NewBody(strings.Trim(rendered, "\n")))
	}, nil
}
