package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/clio/pkg/config"
	"github.com/arthur-debert/clio/pkg/destination"
	"github.com/arthur-debert/clio/pkg/errors"
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/sender"
	"github.com/arthur-debert/clio/pkg/state"
)

// stream is a goroutine-safe buffer
type stream struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *stream) Binary() io.Writer { return s }

func (s *stream) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

type env struct {
	rt     *Runtime
	stdout *stream
	stderr *stream
	log    *stream
}

func newEnv(verbosity int, opts ...Option) *env {
	st := state.New()
	st.SetVerbosity(verbosity)
	st.SetInteractivity(state.Off)

	e := &env{stdout: &stream{}, stderr: &stream{}, log: &stream{}}
	base := []Option{
		WithState(st),
		WithLogger(zerolog.New(e.log)),
		WithSenderOptions(sender.WithResolverOptions(
			destination.WithStdout(e.stdout),
			destination.WithStderr(e.stderr),
		)),
	}
	e.rt = New(append(base, opts...)...)
	return e
}

func (e *env) init(t *testing.T, threaded bool) {
	t.Helper()
	require.NoError(t, e.rt.Initialize(threaded, config.Default()))
}

func body(s string) message.Body { return message.NewBody(s) }

func TestInitializeTwice(t *testing.T) {
	e := newEnv(0)
	e.init(t, false)
	defer e.rt.Teardown()

	err := e.rt.Initialize(false, config.Default())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyInitialized))
	assert.ErrorIs(t, err, errors.AlreadyInitialized)
	assert.True(t, e.rt.Initialized())
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	e := newEnv(0)
	cfg := config.Default()
	cfg.NonInteractive.Err = ""

	err := e.rt.Initialize(false, cfg)
	require.Error(t, err)
	assert.False(t, e.rt.Initialized())
}

func TestEmitBeforeInitializeIsDropped(t *testing.T) {
	e := newEnv(0)

	assert.NotPanics(t, func() { e.rt.Out(body("lost")) })

	assert.Empty(t, e.stdout.String())
	assert.Contains(t, e.log.String(), string(errors.ErrNotInitialized))
}

func TestRuntimeFallsBackToGlobalLogger(t *testing.T) {
	buf := &stream{}
	prev := log.Logger
	log.Logger = zerolog.New(buf)
	defer func() { log.Logger = prev }()

	rt := New(WithState(state.New()))
	rt.Out(body("lost"))

	assert.Contains(t, buf.String(), string(errors.ErrNotInitialized))
	assert.Contains(t, buf.String(), `"component":"output"`)
}

func TestOutAndErr(t *testing.T) {
	e := newEnv(0)
	e.init(t, false)

	e.rt.Out(body("result"))
	e.rt.Err(body("failure"))
	e.rt.Info(body("note"))
	require.NoError(t, e.rt.Teardown())

	assert.Equal(t, "result\n", e.stdout.String())
	assert.Equal(t, "failure\nnote\n", e.stderr.String())
}

func TestNoNewline(t *testing.T) {
	e := newEnv(0)
	e.init(t, false)

	e.rt.Out(body("a"), NoNewline())
	e.rt.Out(body("b"))
	require.NoError(t, e.rt.Teardown())

	assert.Equal(t, "ab\n", e.stdout.String())
}

func TestLeveledInfo(t *testing.T) {
	tests := []struct {
		verbosity int
		want      string
	}{
		{0, "i\n"},
		{1, "i\nv\n"},
		{2, "i\nv\nvv\n"},
		{3, "i\nv\nvv\nvvv\n"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("verbosity %d", tt.verbosity), func(t *testing.T) {
			e := newEnv(tt.verbosity)
			e.init(t, false)

			e.rt.Info(body("i"))
			e.rt.InfoV(body("v"))
			e.rt.InfoVV(body("vv"))
			e.rt.InfoVVV(body("vvv"))
			require.NoError(t, e.rt.Teardown())

			assert.Equal(t, tt.want, e.stderr.String())
		})
	}
}

func TestVerbosityOption(t *testing.T) {
	e := newEnv(1)
	e.init(t, false)

	e.rt.Out(body("shown"), Verbosity(1))
	e.rt.Out(body("hidden"), Verbosity(2))
	e.rt.Out(body("clamped"), Verbosity(-3))
	require.NoError(t, e.rt.Teardown())

	assert.Equal(t, "shown\nclamped\n", e.stdout.String())
}

func TestHooksRunInRegistrationOrder(t *testing.T) {
	e := newEnv(0)
	suffix := func(s string) Hook {
		return func(m message.Message) message.Message {
			text, _ := m.Body.Text()
			return m.WithBody(message.NewBody(text + s))
		}
	}
	e.rt.RegisterHook(message.Out, suffix("A"))
	e.rt.RegisterHook(message.Out, suffix("B"))
	e.rt.RegisterHook(message.Err, suffix("E"))
	e.init(t, false)

	e.rt.Out(body("out"))
	e.rt.Info(body("info"))
	e.rt.Err(body("err"))
	require.NoError(t, e.rt.Teardown())

	assert.Equal(t, "outAB\n", e.stdout.String())
	assert.Equal(t, "info\nerrE\n", e.stderr.String())
}

func TestHookCanSilenceMessage(t *testing.T) {
	e := newEnv(0)
	e.rt.RegisterHook(message.Out, func(m message.Message) message.Message {
		m.Body = nil
		return m
	})
	e.init(t, false)

	e.rt.Out(body("gone"))
	require.NoError(t, e.rt.Teardown())
	assert.Empty(t, e.stdout.String())

	e.rt.ClearHooks(message.Out)
	e.init(t, false)
	e.rt.Out(body("back"))
	require.NoError(t, e.rt.Teardown())
	assert.Equal(t, "back\n", e.stdout.String())
}

func TestTeardownDrainsQueue(t *testing.T) {
	e := newEnv(0)
	e.init(t, true)

	var want strings.Builder
	for i := 0; i < 50; i++ {
		e.rt.Out(body(fmt.Sprintf("%d", i)))
		fmt.Fprintf(&want, "%d\n", i)
	}
	require.NoError(t, e.rt.Teardown())
	assert.Equal(t, want.String(), e.stdout.String())
	assert.False(t, e.rt.Initialized())

	e.rt.Out(body("late"))
	assert.NotContains(t, e.stdout.String(), "late")
}

func TestTeardownIsIdempotent(t *testing.T) {
	e := newEnv(0)
	assert.NoError(t, e.rt.Teardown())

	e.init(t, true)
	assert.NoError(t, e.rt.Teardown())
	assert.NoError(t, e.rt.Teardown())
}

func TestReinitializeAfterTeardown(t *testing.T) {
	e := newEnv(0)
	e.init(t, true)
	require.NoError(t, e.rt.Teardown())

	e.init(t, false)
	e.rt.Out(body("again"))
	require.NoError(t, e.rt.Teardown())
	assert.Equal(t, "again\n", e.stdout.String())
}

func TestConcurrentEmitters(t *testing.T) {
	e := newEnv(0)
	e.init(t, true)

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				e.rt.Out(body("x"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, e.rt.Teardown())

	assert.Equal(t, 400, strings.Count(e.stdout.String(), "x\n"))
}

func TestHandleInterrupt(t *testing.T) {
	exited := false
	e := newEnv(0, WithExitFunc(func(int) { exited = true }))
	e.init(t, true)
	e.rt.Out(body("pending"))

	ctx, cancel := context.WithCancel(context.Background())
	e.rt.handleSignal(os.Interrupt, cancel)

	assert.Error(t, ctx.Err(), "interrupt cancels the context")
	assert.False(t, exited)
	assert.False(t, e.rt.Initialized())
	assert.Equal(t, "pending\n", e.stdout.String())
	assert.Contains(t, e.log.String(), "Signal received")
}

func TestHandleTerminate(t *testing.T) {
	code := -1
	e := newEnv(0, WithExitFunc(func(c int) { code = c }))
	e.init(t, true)
	e.rt.Out(body("pending"))

	_, cancel := context.WithCancel(context.Background())
	e.rt.handleSignal(syscall.SIGTERM, cancel)

	assert.Equal(t, 0, code)
	assert.False(t, e.rt.Initialized())
	assert.Equal(t, "pending\n", e.stdout.String(), "teardown completes before exit")
}

func TestInstallSignalHandlersOnInterrupt(t *testing.T) {
	e := newEnv(0, WithExitFunc(func(int) { t.Error("interrupt must not exit") }))
	e.init(t, true)

	ctx, stop := e.rt.InstallSignalHandlers(context.Background())
	defer stop()

	for i := 0; i < 10; i++ {
		e.rt.Out(body("queued"))
	}
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled after SIGINT")
	}
	assert.False(t, e.rt.Initialized())
	assert.Equal(t, 10, strings.Count(e.stdout.String(), "queued\n"))
}

func TestInstallSignalHandlersStop(t *testing.T) {
	e := newEnv(0)
	e.init(t, false)
	defer e.rt.Teardown()

	ctx, stop := e.rt.InstallSignalHandlers(context.Background())
	stop()

	<-ctx.Done()
	assert.True(t, e.rt.Initialized(), "stopping the handlers leaves output running")
}

func TestDefaultRuntime(t *testing.T) {
	e := newEnv(0)
	prev := SetDefault(e.rt)
	defer SetDefault(prev)

	require.NoError(t, Initialize(false, config.Default()))
	Out("text")
	Out([]byte("raw"))
	Err(message.StyledText{Text: "styled"})
	InfoV("hidden")
	require.NoError(t, Teardown())

	assert.Equal(t, "text\nraw\n", e.stdout.String())
	assert.Equal(t, "styled\n", e.stderr.String())
}
