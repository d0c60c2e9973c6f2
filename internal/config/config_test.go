package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "exported_assets", cfg.OutputDir)
	assert.True(t, cfg.Timestamp)
	assert.True(t, cfg.Progress)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.Equal(t, "unityrip-dump", cfg.Parser.Command)

	opts := cfg.ExtractOptions()
	assert.True(t, opts.Textures && opts.Sprites && opts.Audio && opts.Meshes &&
		opts.Texts && opts.Fonts && opts.Scripts && opts.Materials)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) { c.Input = "game" }, false},
		{"no input", func(c *Config) {}, true},
		{"check mode needs no input", func(c *Config) { c.CheckOnly = true }, false},
		{"bad color", func(c *Config) { c.Input = "x"; c.ColorMode = "rainbow" }, true},
		{"negative texture size", func(c *Config) { c.Input = "x"; c.Extract.MaxTextureSize = -1 }, true},
		{"empty parser", func(c *Config) { c.Input = "x"; c.Parser.Command = " " }, true},
		{"empty out", func(c *Config) { c.Input = "x"; c.OutputDir = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ValidatePaths("/data/game", "/data/game"))
	assert.Error(t, cfg.ValidatePaths("/data/game", "/data/game/out"))
	assert.NoError(t, cfg.ValidatePaths("/data/game", "/data/game2"))
	assert.NoError(t, cfg.ValidatePaths("/data/game", "/out"))
}

func newFlags(t *testing.T, args ...string) (*pflag.FlagSet, *NegatedFlags) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	n := DefineFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs, n
}

func load(t *testing.T, l *Loader) Config {
	t.Helper()
	cfg, err := l.Load()
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	fs, _ := newFlags(t)
	cfg := load(t, &Loader{Flags: fs})
	want := DefaultConfig()
	assert.Equal(t, want.OutputDir, cfg.OutputDir)
	assert.Equal(t, want.Extract, cfg.Extract)
	assert.Equal(t, want.Parser.Command, cfg.Parser.Command)
	assert.Empty(t, cfg.Discovery.Include)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "unityrip.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
out: from-file
verbose: true
color: never
extract:
  audio: false
  max_texture_size: 512
parser:
  command: /opt/dump
  args: ["--typetree"]
discovery:
  exclude: ["**/*.resS"]
`), 0o644))

	t.Setenv("UNITYRIP_OUT", "from-env")
	t.Setenv("UNITYRIP_EXTRACT_FONTS", "false")

	fs, _ := newFlags(t, "--out", "from-flag", "--include", "data/*.bin", "--include", "x/**")
	cfg := load(t, &Loader{ConfigFile: file, Flags: fs})

	assert.Equal(t, "from-flag", cfg.OutputDir, "flag beats env")
	assert.True(t, cfg.Verbose, "file beats default")
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.False(t, cfg.Extract.Audio)
	assert.False(t, cfg.Extract.Fonts, "env applies")
	assert.True(t, cfg.Extract.Textures)
	assert.Equal(t, 512, cfg.Extract.MaxTextureSize)
	assert.Equal(t, "/opt/dump", cfg.Parser.Command)
	assert.Equal(t, []string{"--typetree"}, cfg.Parser.Args)
	assert.Equal(t, []string{"data/*.bin", "x/**"}, cfg.Discovery.Include)
	assert.Equal(t, []string{"**/*.resS"}, cfg.Discovery.Exclude)
	assert.Equal(t, file, cfg.ConfigFile)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(file, []byte("out: from-file\n"), 0o644))
	t.Setenv("UNITYRIP_OUT", "from-env")

	cfg := load(t, &Loader{ConfigFile: file})
	assert.Equal(t, "from-env", cfg.OutputDir)
}

func TestLoad_SearchPaths(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, ".unityrip.yaml")
	require.NoError(t, os.WriteFile(second, []byte("report: run.json\n"), 0o644))

	cfg := load(t, &Loader{SearchPaths: []string{filepath.Join(dir, "missing.yaml"), second}})
	assert.Equal(t, "run.json", cfg.ReportFile)
	assert.Equal(t, second, cfg.ConfigFile)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := (&Loader{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_MalformedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("out: [unterminated\n"), 0o644))
	_, err := (&Loader{ConfigFile: file}).Load()
	assert.Error(t, err)
}

func TestNegatedFlags(t *testing.T) {
	fs, n := newFlags(t, "--no-textures", "--no-scripts", "--no-materials", "--no-timestamp", "--no-progress", "--color")
	cfg := load(t, &Loader{Flags: fs})
	n.Apply(&cfg)

	assert.False(t, cfg.Extract.Textures)
	assert.False(t, cfg.Extract.Scripts)
	assert.False(t, cfg.Extract.Materials)
	assert.True(t, cfg.Extract.Sprites)
	assert.True(t, cfg.Extract.Texts)
	assert.False(t, cfg.Timestamp)
	assert.False(t, cfg.Progress)
	assert.Equal(t, ColorAlways, cfg.ColorMode)
}

func TestNegatedFlags_NoColorWins(t *testing.T) {
	cfg := DefaultConfig()
	(&NegatedFlags{ForceColor: true, NoColor: true}).Apply(&cfg)
	assert.Equal(t, ColorNever, cfg.ColorMode)
}

func TestNegatedFlags_UnsetKeepsFileValue(t *testing.T) {
	file := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(file, []byte("extract:\n  sprites: false\ntimestamp: false\n"), 0o644))
	fs, n := newFlags(t)
	cfg := load(t, &Loader{ConfigFile: file, Flags: fs})
	n.Apply(&cfg)
	assert.False(t, cfg.Extract.Sprites)
	assert.False(t, cfg.Timestamp)
}
