// Package cli builds the clio command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/clio/internal/version"
	"github.com/arthur-debert/clio/pkg/config"
	"github.com/arthur-debert/clio/pkg/logging"
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/output"
	"github.com/arthur-debert/clio/pkg/prompt"
	"github.com/arthur-debert/clio/pkg/state"
	"github.com/arthur-debert/clio/pkg/style"
)

type app struct {
	rt       *output.Runtime
	input    io.Reader
	loadOpts config.LoadOptions
	settings *config.Settings

	verbosity      int
	interactive    bool
	nonInteractive bool
	detect         bool
	threaded       bool
	configPath     string

	stopSignals func()
}

// Option configures the command tree
type Option func(*app)

// WithRuntime emits through rt instead of the default runtime
func WithRuntime(rt *output.Runtime) Option {
	return func(a *app) { a.rt = rt }
}

// WithInput reads prompt answers from r
func WithInput(r io.Reader) Option {
	return func(a *app) { a.input = r }
}

// WithLoadOptions sets the config layers to read; the config flag still
// overrides the explicit path
func WithLoadOptions(opts config.LoadOptions) Option {
	return func(a *app) { a.loadOpts = opts }
}

// NewRootCmd creates the root command and all subcommands
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		opt(a)
	}
	if a.rt == nil {
		a.rt = output.Default()
	}

	rootCmd := &cobra.Command{
		Use:                "clio",
		Short:              MsgRootShort,
		Long:               MsgRootLong,
		Version:            version.Version,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableAutoGenTag:  true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&a.interactive, "interactive", false, MsgFlagInteractive)
	flags.BoolVar(&a.nonInteractive, "non-interactive", false, MsgFlagNonInteractive)
	flags.BoolVar(&a.detect, "detect-interactive", false, MsgFlagDetect)
	flags.BoolVar(&a.threaded, "threaded", false, MsgFlagThreaded)
	flags.StringVar(&a.configPath, "config", "", MsgFlagConfig)
	rootCmd.MarkFlagsMutuallyExclusive("interactive", "non-interactive", "detect-interactive")

	rootCmd.AddCommand(a.newEchoCmd())
	rootCmd.AddCommand(a.newCatCmd())
	rootCmd.AddCommand(a.newAskCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(a.newVersionCmd())

	return rootCmd
}

// setup loads settings, applies the flags and starts output
func (a *app) setup(cmd *cobra.Command, args []string) error {
	loadOpts := a.loadOpts
	if a.configPath != "" {
		loadOpts.Path = a.configPath
	}
	settings, err := config.Load(loadOpts)
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}
	a.settings = settings

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		settings.Verbosity = a.verbosity
	}
	if flags.Changed("threaded") {
		settings.Threaded = a.threaded
	}

	logging.SetupLogger(settings.Verbosity)
	log.Debug().Str("command", cmd.Name()).Msg("Command started")

	st := a.rt.State()
	if err := settings.Apply(st); err != nil {
		return err
	}
	switch {
	case a.interactive:
		st.SetInteractivity(state.On)
	case a.nonInteractive:
		st.SetInteractivity(state.Off)
	case a.detect:
		st.SetInteractivity(state.Detect)
	}

	if settings.StyleSheet != "" {
		sheet, err := style.LoadSheet(settings.StyleSheet)
		if err != nil {
			return fmt.Errorf(MsgErrStyleSheet, err)
		}
		sheet.Install(a.rt, nil)
	}

	if err := a.rt.Initialize(settings.Threaded, settings.Output); err != nil {
		return err
	}

	ctx, stop := a.rt.InstallSignalHandlers(cmd.Context())
	cmd.SetContext(ctx)
	a.stopSignals = stop
	return nil
}

// teardown stops output. A command that finished after an interrupt still
// reports the cancellation so the process exits as interrupted.
func (a *app) teardown(cmd *cobra.Command, args []string) error {
	interrupted := cmd.Context().Err()
	if a.stopSignals != nil {
		a.stopSignals()
		a.stopSignals = nil
	}
	if err := a.rt.Teardown(); err != nil {
		return err
	}
	return interrupted
}

func (a *app) newEchoCmd() *cobra.Command {
	var (
		info, err, noNewline, markdown bool
		level                          int
	)

	cmd := &cobra.Command{
		Use:   "echo [words...]",
		Short: MsgEchoShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			intent := message.Out
			switch {
			case info:
				intent = message.Info
			case err:
				intent = message.Err
			}

			m := message.New(intent, message.NewBody(strings.Join(args, " ")))
			m.Newline = !noNewline
			m.MinVerbosity = max(level, 0)

			if markdown {
				render, e := style.Markdown()
				if e != nil {
					return fmt.Errorf(MsgErrMarkdown, e)
				}
				m = render(m)
			}
			a.rt.Send(m)
			return nil
		},
	}

	cmd.Flags().BoolVar(&info, "info", false, MsgFlagEchoInfo)
	cmd.Flags().BoolVar(&err, "err", false, MsgFlagEchoErr)
	cmd.Flags().BoolVarP(&noNewline, "no-newline", "n", false, MsgFlagEchoNoNL)
	cmd.Flags().IntVar(&level, "level", 0, MsgFlagEchoLevel)
	cmd.Flags().BoolVar(&markdown, "markdown", false, MsgFlagEchoMarkdown)
	cmd.MarkFlagsMutuallyExclusive("info", "err")
	return cmd
}

func (a *app) newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE...",
		Short: MsgCatShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				var (
					data []byte
					err  error
				)
				if name == "-" {
					in := a.stdin()
					data, err = await(cmd.Context(), func() ([]byte, error) { return io.ReadAll(in) })
				} else {
					data, err = os.ReadFile(name)
				}
				if err != nil {
					return fmt.Errorf(MsgErrReadFile, name, err)
				}
				a.rt.Out(message.NewBody(data), output.NoNewline())
			}
			return nil
		},
	}
}

// await runs fn on its own goroutine and returns ctx's error as soon as ctx
// is done. An abandoned fn keeps running until its read returns.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// ExitCode maps the error returned by the command tree to a process status:
// 130 when an interrupt cancelled the command, 1 for any other error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func (a *app) stdin() io.Reader {
	if a.input != nil {
		return a.input
	}
	return os.Stdin
}

func (a *app) newAskCmd() *cobra.Command {
	var (
		def   string
		yesNo bool
	)

	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: MsgAskShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := prompt.New(a.rt, prompt.WithInput(a.stdin()))

			if yesNo {
				defYes := def == "" || strings.EqualFold(def, "y") || strings.EqualFold(def, "yes")
				yes, err := await(cmd.Context(), func() (bool, error) { return p.PromptYN(args[0], defYes) })
				if err != nil {
					return err
				}
				answer := "no"
				if yes {
					answer = "yes"
				}
				a.rt.Out(message.NewBody(answer))
				return nil
			}

			if cmd.Flags().Changed("answer") {
				answer, _ := cmd.Flags().GetString("answer")
				a.rt.Out(message.NewBody(answer))
				return nil
			}
			answer, err := await(cmd.Context(), func() (string, error) { return p.Prompt(args[0], def) })
			if err != nil {
				return err
			}
			a.rt.Out(message.NewBody(answer))
			return nil
		},
	}

	cmd.Flags().StringVar(&def, "default", "", MsgFlagAskDefault)
	cmd.Flags().BoolVar(&yesNo, "yes-no", false, MsgFlagAskYesNo)
	cmd.Flags().String("answer", "", MsgFlagAskAnswer)
	return cmd
}

func (a *app) newConfigCmd() *cobra.Command {
	var template bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				a.rt.Out(message.NewBody(strings.TrimRight(config.GenerateConfigContent(), "\n")))
				return nil
			}
			data, err := a.settings.TOML()
			if err != nil {
				return err
			}
			a.rt.Out(message.NewBody(strings.TrimRight(string(data), "\n")))
			return nil
		},
	}
	cmd.Flags().BoolVar(&template, "template", false, MsgFlagConfigTemplate)
	return cmd
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			a.rt.Out(message.NewBody(fmt.Sprintf(MsgVersionFormat, version.Version)))
			a.rt.InfoV(message.NewBody(fmt.Sprintf(MsgCommitFormat, version.Commit)))
			a.rt.InfoV(message.NewBody(fmt.Sprintf(MsgBuiltFormat, version.Date)))
		},
	}
}
