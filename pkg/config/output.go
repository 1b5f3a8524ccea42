package config

import (
	"github.com/arthur-debert/clio/pkg/destination"
	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/message"
)

// ModeConfig maps each intent to a destination descriptor
type ModeConfig struct {
	Info string `koanf:"info" toml:"info" yaml:"info"`
	Out  string `koanf:"out" toml:"out" yaml:"out"`
	Err  string `koanf:"err" toml:"err" yaml:"err"`
}

// For returns the descriptor for intent
func (m ModeConfig) For(intent message.Intent) string {
	switch intent {
	case message.Out:
		return m.Out
	case message.Err:
		return m.Err
	default:
		return m.Info
	}
}

// Validate checks that every descriptor parses
func (m ModeConfig) Validate() error {
	for _, intent := range message.Intents {
		if _, err := destination.Parse(m.For(intent)); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid destination for %s", intent).
				WithDetail("intent", intent.String())
		}
	}
	return nil
}

// OutputConfig holds one ModeConfig per interactivity mode. Values are
// copied into senders, so a config never changes under a running sender.
type OutputConfig struct {
	Interactive    ModeConfig `koanf:"interactive" toml:"interactive" yaml:"interactive"`
	NonInteractive ModeConfig `koanf:"non_interactive" toml:"non_interactive" yaml:"non_interactive"`
}

// Default returns the default routing policy. Interactive sessions get
// styled output; otherwise info moves to stderr so stdout only carries
// primary output.
func Default() OutputConfig {
	return OutputConfig{
		Interactive: ModeConfig{
			Info: "styled[stdout]",
			Out:  "styled[stdout]",
			Err:  "styled[stderr]",
		},
		NonInteractive: ModeConfig{
			Info: "stderr",
			Out:  "stdout",
			Err:  "stderr",
		},
	}
}

// Mode returns the ModeConfig for the given interactivity
func (c OutputConfig) Mode(interactive bool) ModeConfig {
	if interactive {
		return c.Interactive
	}
	return c.NonInteractive
}

// Validate checks both modes
func (c OutputConfig) Validate() error {
	if err := c.Interactive.Validate(); err != nil {
		return err
	}
	return c.NonInteractive.Validate()
}
