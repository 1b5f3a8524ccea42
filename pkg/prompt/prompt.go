// Package prompt asks the user for input through the output runtime.
//
// Prompts only read when stdin is interactive. Otherwise they return the
// default straight away, so scripted runs never block waiting for input.
package prompt

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/output"
)

// Prompter reads answers from an input stream, printing questions as INFO
type Prompter struct {
	rt     *output.Runtime
	reader *bufio.Reader
	stdin  *os.File
}

// Option configures a Prompter
type Option func(*Prompter)

// WithInput reads answers from r instead of os.Stdin
func WithInput(r io.Reader) Option {
	return func(p *Prompter) { p.reader = bufio.NewReader(r) }
}

// WithStdin sets the file checked for interactivity
func WithStdin(f *os.File) Option {
	return func(p *Prompter) { p.stdin = f }
}

// New creates a Prompter emitting through rt
func New(rt *output.Runtime, opts ...Option) *Prompter {
	p := &Prompter{rt: rt, stdin: os.Stdin}
	for _, opt := range opts {
		opt(p)
	}
	if p.reader == nil {
		p.reader = bufio.NewReader(os.Stdin)
	}
	return p
}

// Interactive reports whether prompts will read input
func (p *Prompter) Interactive() bool {
	return p.rt.State().IsInteractive(p.stdin)
}

func (p *Prompter) ask(question string) (string, error) {
	p.rt.Info(message.NewBody(question), output.NoNewline())

	line, err := p.reader.ReadString('\n')
	if err != nil && !stderrors.Is(err, io.EOF) {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "cannot read answer")
	}
	return strings.TrimSpace(line), nil
}

// Prompt asks question and returns the answer, or def when the answer is
// empty or stdin is not interactive
func (p *Prompter) Prompt(question, def string) (string, error) {
	if !p.Interactive() {
		return def, nil
	}
	answer, err := p.ask(fmt.Sprintf("%s (%s): ", question, def))
	if err != nil {
		return def, err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// PromptYN asks a yes/no question. "y" and "yes" in any case are yes, an
// empty answer is def and anything else is no.
func (p *Prompter) PromptYN(question string, def bool) (bool, error) {
	if !p.Interactive() {
		return def, nil
	}
	indicator := "(y/N)"
	if def {
		indicator = "(Y/n)"
	}
	answer, err := p.ask(fmt.Sprintf("%s %s: ", question, indicator))
	if err != nil {
		return def, err
	}
	if answer == "" {
		return def, nil
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// StringFlag returns the value of flag name when it was given on the
// command line and prompts for it otherwise, offering the flag's default
func (p *Prompter) StringFlag(cmd *cobra.Command, name string) (string, error) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return "", errors.Newf(errors.ErrInvalidInput, "unknown flag %q", name)
	}
	if flag.Changed {
		return flag.Value.String(), nil
	}
	return p.Prompt(flagQuestion(name), flag.DefValue)
}

// BoolFlag is StringFlag for boolean flags
func (p *Prompter) BoolFlag(cmd *cobra.Command, name string) (bool, error) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return false, errors.Newf(errors.ErrInvalidInput, "unknown flag %q", name)
	}
	if flag.Changed {
		return cmd.Flags().GetBool(name)
	}
	return p.PromptYN(flagQuestion(name), flag.DefValue == "true")
}

func flagQuestion(name string) string {
	return strings.ReplaceAll(name, "-", " ")
}
