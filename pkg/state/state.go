// Package state holds the runtime values that decide whether a message is
// shown: the verbosity level and the interactivity mode.
//
// Interactivity is resolved per stream. With Detect, asking about stdin and
// asking about stdout are separate TTY checks and may disagree: stdin drives
// prompting, stdout drives output mode selection.
package state

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Interactivity is the interactive mode setting
type Interactivity int

const (
	// Detect resolves interactivity with a TTY check on the queried stream
	Detect Interactivity = iota
	// On forces interactive mode
	On
	// Off forces non-interactive mode
	Off
)

// String returns the string representation of the mode
func (i Interactivity) String() string {
	switch i {
	case Detect:
		return "detect"
	case On:
		return "true"
	case Off:
		return "false"
	default:
		return "unknown"
	}
}

// ParseInteractivity parses a string into an Interactivity value
func ParseInteractivity(s string) (Interactivity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "detect", "auto", "-1", "":
		return Detect, nil
	case "true", "yes", "on", "1":
		return On, nil
	case "false", "no", "off", "0":
		return Off, nil
	default:
		return Detect, fmt.Errorf("unknown interactivity: %s", s)
	}
}

// State is the verbosity and interactivity of one output runtime
type State struct {
	mu            sync.RWMutex
	verbosity     int
	interactivity Interactivity
	isTerminal    func(*os.File) bool
}

// New returns a State with verbosity 0 and interactivity Detect
func New() *State {
	return &State{isTerminal: isTerminal}
}

var defaultState = New()

// Default returns the process-wide state
func Default() *State {
	return defaultState
}

// Verbosity returns the current verbosity level
func (s *State) Verbosity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verbosity
}

// SetVerbosity sets the verbosity level. Negative values clamp to 0.
func (s *State) SetVerbosity(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verbosity = n
}

// Interactivity returns the configured interactivity mode
func (s *State) Interactivity() Interactivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interactivity
}

// SetInteractivity sets the interactivity mode
func (s *State) SetInteractivity(i Interactivity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactivity = i
}

// IsInteractive reports whether f should be treated as interactive.
// Forced modes ignore f; Detect runs one TTY check against it.
func (s *State) IsInteractive(f *os.File) bool {
	s.mu.RLock()
	mode, check := s.interactivity, s.isTerminal
	s.mu.RUnlock()

	switch mode {
	case On:
		return true
	case Off:
		return false
	}
	if f == nil {
		return false
	}
	return check(f)
}

// SetTerminalCheck replaces the TTY check used by Detect
func (s *State) SetTerminalCheck(check func(*os.File) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if check == nil {
		check = isTerminal
	}
	s.isTerminal = check
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
