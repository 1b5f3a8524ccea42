package state

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Verbosity())
	assert.Equal(t, Detect, s.Interactivity())
}

func TestSetVerbosityClampsNegative(t *testing.T) {
	s := New()
	s.SetVerbosity(3)
	assert.Equal(t, 3, s.Verbosity())

	s.SetVerbosity(-2)
	assert.Equal(t, 0, s.Verbosity())
}

func TestParseInteractivity(t *testing.T) {
	tests := []struct {
		in      string
		want    Interactivity
		wantErr bool
	}{
		{"detect", Detect, false},
		{"", Detect, false},
		{"-1", Detect, false},
		{"true", On, false},
		{"YES", On, false},
		{"1", On, false},
		{"false", Off, false},
		{"off", Off, false},
		{"0", Off, false},
		{"sometimes", Detect, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInteractivity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsInteractiveForcedModes(t *testing.T) {
	s := New()
	s.SetTerminalCheck(func(*os.File) bool { t.Fatal("forced mode should not run TTY check"); return false })

	s.SetInteractivity(On)
	assert.True(t, s.IsInteractive(os.Stdout))
	assert.True(t, s.IsInteractive(nil))

	s.SetInteractivity(Off)
	assert.False(t, s.IsInteractive(os.Stdout))
}

func TestIsInteractiveDetectIsPerStream(t *testing.T) {
	s := New()
	s.SetTerminalCheck(func(f *os.File) bool { return f == os.Stdin })

	assert.True(t, s.IsInteractive(os.Stdin))
	assert.False(t, s.IsInteractive(os.Stdout), "stdin and stdout detection may disagree")
	assert.False(t, s.IsInteractive(nil))
}

func TestIsInteractiveDetectOnRegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	s := New()
	assert.False(t, s.IsInteractive(f), "a regular file is never a terminal")
}

func TestStringRoundTrip(t *testing.T) {
	for _, i := range []Interactivity{Detect, On, Off} {
		got, err := ParseInteractivity(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.SetVerbosity(n)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Verbosity()
			_ = s.IsInteractive(nil)
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, s.Verbosity(), 0)
}
