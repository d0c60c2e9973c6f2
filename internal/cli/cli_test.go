package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/unityrip/internal/config"
	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/pipeline"
)

// memOpener serves one text asset per known path.
type memOpener map[string]string

func (m memOpener) Open(_ context.Context, path string) (container.Container, error) {
	name, ok := m[path]
	if !ok {
		return nil, errors.New("not a container")
	}
	a := &container.TextAsset{Name: name, Script: container.Payload{IsText: true, Text: "hello"}}
	return &container.Memory{
		EngineVersion: "2020.3.1f1",
		Entries: []container.Entry{{
			Object: container.NewObject(1, "TextAsset", func() (container.Asset, error) { return a, nil }),
		}},
	}, nil
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, opener container.Opener, args ...string) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	a.progressTTY = func() bool { return false }
	if opener != nil {
		a.newOpener = func(*config.Config) container.Opener { return opener }
	}
	code := a.run(context.Background(), append([]string{"--no-color"}, args...))
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func TestRun_NoInput(t *testing.T) {
	r := runCLI(t, nil)
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "no input specified")
}

func TestRun_MissingInput(t *testing.T) {
	r := runCLI(t, memOpener{}, filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "Input not found")
}

func TestRun_NoCandidates(t *testing.T) {
	r := runCLI(t, memOpener{}, t.TempDir())
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "No asset files found")
}

func TestRun_InvalidConfig(t *testing.T) {
	r := runCLI(t, nil, "--max-texture-size", "-1", t.TempDir())
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "max texture size")
}

func TestRun_UnknownFlag(t *testing.T) {
	r := runCLI(t, nil, "--bogus")
	assert.Equal(t, ExitFailure, r.code)
}

func TestRun_Version(t *testing.T) {
	r := runCLI(t, nil, "--version")
	assert.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, Version)
}

func TestRun_ExtractsAndWritesReport(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	good := touch(t, in, "a.assets")
	touch(t, in, "b.assets")
	report := filepath.Join(out, "run.json")

	r := runCLI(t, memOpener{good: "readme"},
		"--out", out, "--no-timestamp", "--report", report, in)

	assert.Equal(t, ExitOK, r.code, "failed files do not fail the run")
	assert.FileExists(t, filepath.Join(out, "a", "texts", "readme.txt"))
	assert.NoDirExists(t, filepath.Join(out, "b"))
	assert.Contains(t, r.stdout, "Engine version: 2020.3.1f1")
	assert.Contains(t, r.stdout, "[2/2] b.assets")

	stats, err := pipeline.ReadReport(report)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Failed)
	require.NotNil(t, stats.Version)
	assert.Equal(t, "2020.3.1f1", stats.Version.Version)
}

func TestRun_SingleFileInput(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	f := touch(t, in, "custom.bin")

	r := runCLI(t, memOpener{f: "only"}, "-o", out, "--no-timestamp", f)
	assert.Equal(t, ExitOK, r.code)
	assert.FileExists(t, filepath.Join(out, "custom", "texts", "only.txt"))
}

func TestRun_OutputInsideInputWarns(t *testing.T) {
	in := t.TempDir()
	f := touch(t, in, "a.assets")
	out := filepath.Join(in, "exported")

	r := runCLI(t, memOpener{f: "x"}, "-o", out, "--no-timestamp", in)
	assert.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, "output directory is inside input directory")
}

func TestRun_DetectVersion(t *testing.T) {
	in := t.TempDir()
	opener := memOpener{}
	for _, n := range []string{"a.assets", "b.assets", "c.assets", "d.assets"} {
		opener[touch(t, in, n)] = n
	}
	out := filepath.Join(t.TempDir(), "never-created")

	r := runCLI(t, opener, "--detect-version", "-o", out, in)
	assert.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, "c.assets")
	assert.NotContains(t, r.stdout, "d.assets")
	assert.Equal(t, 3, strings.Count(r.stdout, "2020.3.1f1"))
	assert.NoDirExists(t, out)
}

func TestRun_CheckMissingDumper(t *testing.T) {
	r := runCLI(t, nil, "--check", "--parser", filepath.Join(t.TempDir(), "missing"), "-o", t.TempDir())
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "not found on PATH")
}

func TestRun_ConfigFileFlag(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	f := touch(t, in, "a.assets")
	cfgPath := filepath.Join(t.TempDir(), "u.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("timestamp: false\nextract:\n  texts: false\n"), 0o644))

	r := runCLI(t, memOpener{f: "readme"}, "--config", cfgPath, "-o", out, in)
	assert.Equal(t, ExitOK, r.code)
	assert.DirExists(t, filepath.Join(out, "a"))
	assert.NoFileExists(t, filepath.Join(out, "a", "texts", "readme.txt"))
	assert.Contains(t, r.stdout, "Skipping kinds: [texts]")
}
