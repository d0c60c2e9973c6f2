package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/unityrip/internal/config"
)

func newTestLogger(verbose bool) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut, verbose)
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return l, &out, &errOut
}

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	assert.False(t, l.Verbose())
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "unityrip.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.out, l.errOut = &bytes.Buffer{}, &bytes.Buffer{}
	l.Info("to file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO] to file")
}

func TestLogger_FileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	for _, msg := range []string{"first", "second"} {
		l, _, _ := newTestLogger(false)
		require.NoError(t, l.OpenFile(path))
		l.Warn("%s", msg)
		require.NoError(t, l.Close())
	}
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2024-05-01 12:30:00 [WARN] first", lines[0])
	assert.Equal(t, "2024-05-01 12:30:00 [WARN] second", lines[1])
}

func TestLogger_Streams(t *testing.T) {
	l, out, errOut := newTestLogger(false)
	l.Info("hello %d", 1)
	l.Success("done")
	l.Error("broken %s", "file")

	assert.Contains(t, out.String(), "hello 1")
	assert.Contains(t, out.String(), "done")
	assert.NotContains(t, out.String(), "broken")
	assert.Contains(t, errOut.String(), "broken file")
}

func TestLogger_DebugGatedOnVerbose(t *testing.T) {
	quiet, out, _ := newTestLogger(false)
	quiet.Debug("hidden")
	assert.Empty(t, out.String())

	loud, out, _ := newTestLogger(true)
	loud.Debug("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestLogger_OpenFileFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	l, _, _ := newTestLogger(false)
	assert.Error(t, l.OpenFile(filepath.Join(blocker, "sub", "x.log")))
}
