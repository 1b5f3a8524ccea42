package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/output"
)

// Sheet is a set of styles loaded from YAML:
//
//	info:
//	  fg: cyan
//	err:
//	  fg: red
//	  bold: true
//	tags:
//	  key:
//	    fg: yellow
//
// Intents without an entry are left unstyled. Tags extend the markup
// understood in plain text bodies.
type Sheet struct {
	Info *Style           `yaml:"info,omitempty"`
	Out  *Style           `yaml:"out,omitempty"`
	Err  *Style           `yaml:"err,omitempty"`
	Tags map[string]Style `yaml:"tags,omitempty"`
}

// ParseSheet decodes a YAML style sheet
func ParseSheet(data []byte) (*Sheet, error) {
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid style sheet")
	}
	return &s, nil
}

// LoadSheet reads and decodes the style sheet at path
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read style sheet %s", path).
			WithDetail("path", path)
	}
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse style sheet %s", path).
			WithDetail("path", path)
	}
	return &s, nil
}

// For returns the style for intent, if the sheet has one
func (s *Sheet) For(intent message.Intent) (Style, bool) {
	var st *Style
	switch intent {
	case message.Info:
		st = s.Info
	case message.Out:
		st = s.Out
	case message.Err:
		st = s.Err
	}
	if st == nil {
		return Style{}, false
	}
	return *st, true
}

// Install registers the sheet's hooks on rt. When the sheet defines tags,
// markup is rendered with r before the intent styles apply.
func (s *Sheet) Install(rt *output.Runtime, r *lipgloss.Renderer) {
	var markup *Markup
	if len(s.Tags) > 0 {
		markup = NewMarkup(r)
		for name, st := range s.Tags {
			markup.AddTag(name, st)
		}
	}

	for _, intent := range message.Intents {
		if markup != nil {
			rt.RegisterHook(intent, markup.Hook())
		}
		if st, ok := s.For(intent); ok {
			rt.RegisterHook(intent, Hook(st))
		}
	}
}
