package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/logging"
	"github.com/arthur-debert/clio/pkg/state"
)

const (
	// AppName names the user configuration directory
	AppName = "clio"
	// EnvPrefix prefixes environment overrides, e.g. CLIO_OUTPUT__INTERACTIVE__INFO
	EnvPrefix = "CLIO_"
)

// Settings is the effective configuration of a clio host
type Settings struct {
	Verbosity   int          `koanf:"verbosity" toml:"verbosity"`
	Interactive string       `koanf:"interactive" toml:"interactive"`
	Threaded    bool         `koanf:"threaded" toml:"threaded"`
	StyleSheet  string       `koanf:"style_sheet" toml:"style_sheet"`
	Output      OutputConfig `koanf:"output" toml:"output"`
}

// LoadOptions controls which layers Load reads
type LoadOptions struct {
	// Path is an explicit config file (.toml, .yaml or .yml)
	Path string
	// SkipUserConfig ignores the user config file under XDG_CONFIG_HOME
	SkipUserConfig bool
	// SkipEnv ignores CLIO_* environment variables
	SkipEnv bool
}

// Load reads settings from, in increasing priority: embedded defaults, the
// user config file, opts.Path and the environment
func Load(opts LoadOptions) (*Settings, error) {
	log := logging.GetLogger("config.Load")
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Load user config if it exists
	if !opts.SkipUserConfig {
		path := UserConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(k, path); err != nil {
				return nil, err
			}
			log.Debug().Str("path", path).Msg("Loaded user config")
		}
	}

	// 3. Load explicit config
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", opts.Path).
				WithDetail("path", opts.Path)
		}
		if err := loadFile(k, opts.Path); err != nil {
			return nil, err
		}
		log.Debug().Str("path", opts.Path).Msg("Loaded config file")
	}

	// 4. Environment overrides
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// loadFile loads path with the parser matching its extension
func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml", "":
		parser = toml.Parser()
	default:
		return errors.Newf(errors.ErrConfigLoad, "unsupported config format: %s", path).
			WithDetail("path", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps CLIO_OUTPUT__NON_INTERACTIVE__INFO to output.non_interactive.info
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// UserConfigPath returns the user config file path. It respects
// XDG_CONFIG_HOME if set, otherwise uses the platform config dir.
func UserConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, AppName, "config.toml")
}

// Interactivity parses the interactive setting
func (s *Settings) Interactivity() (state.Interactivity, error) {
	i, err := state.ParseInteractivity(s.Interactive)
	if err != nil {
		return state.Detect, errors.Wrap(err, errors.ErrConfigValid, "invalid interactive setting")
	}
	return i, nil
}

// Validate checks every setting
func (s *Settings) Validate() error {
	if s.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "verbosity must not be negative: %d", s.Verbosity)
	}
	if _, err := s.Interactivity(); err != nil {
		return err
	}
	return s.Output.Validate()
}

// Apply copies verbosity and interactivity into st
func (s *Settings) Apply(st *state.State) error {
	i, err := s.Interactivity()
	if err != nil {
		return err
	}
	st.SetVerbosity(s.Verbosity)
	st.SetInteractivity(i)
	return nil
}

// TOML serializes the settings
func (s *Settings) TOML() ([]byte, error) {
	data, err := gotoml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode settings")
	}
	return data, nil
}
