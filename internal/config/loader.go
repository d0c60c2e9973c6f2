package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. UNITYRIP_OUT or
// UNITYRIP_EXTRACT_TEXTURES.
const EnvPrefix = "UNITYRIP"

// ErrConfigNotFound is returned when an explicitly named config file does
// not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Loader layers configuration sources. Priority, highest first: changed
// flags, UNITYRIP_* environment variables, config file, defaults.
type Loader struct {
	// ConfigFile is an explicit config path (--config). It must exist.
	ConfigFile string
	// SearchPaths are tried in order when ConfigFile is empty; the first
	// existing file is read.
	SearchPaths []string
	// Flags is the parsed flag set; may be nil.
	Flags *pflag.FlagSet
}

// NewLoader returns a Loader over fs that searches ./unityrip.yaml and then
// $HOME/.unityrip.yaml unless configFile is given.
func NewLoader(fs *pflag.FlagSet, configFile string) *Loader {
	return &Loader{
		ConfigFile:  configFile,
		SearchPaths: DefaultSearchPaths(),
		Flags:       fs,
	}
}

// DefaultSearchPaths lists the implicit config file locations.
func DefaultSearchPaths() []string {
	paths := []string{"unityrip.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".unityrip.yaml"))
	}
	return paths
}

// Load builds the Config. Negated flags are not applied here.
func (l *Loader) Load() (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if l.Flags != nil {
		if err := bindFlags(v, l.Flags); err != nil {
			return Config{}, err
		}
	}

	file, err := l.resolveFile()
	if err != nil {
		return Config{}, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, goerr.Wrap(err, "failed to read config file", goerr.V("file", file))
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, goerr.Wrap(err, "failed to unmarshal config")
	}
	cfg.ColorMode = ColorMode(strings.ToLower(string(cfg.ColorMode)))
	cfg.ConfigFile = file
	return cfg, nil
}

func (l *Loader) resolveFile() (string, error) {
	if l.ConfigFile != "" {
		if _, err := os.Stat(l.ConfigFile); err != nil {
			return "", goerr.Wrap(ErrConfigNotFound, "cannot use config file",
				goerr.V("file", l.ConfigFile), goerr.V("cause", err.Error()))
		}
		return l.ConfigFile, nil
	}
	for _, p := range l.SearchPaths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", nil
}

// setDefaults registers every key so AutomaticEnv can see it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("out", d.OutputDir)
	v.SetDefault("timestamp", d.Timestamp)
	v.SetDefault("detect_version", d.DetectVersion)
	v.SetDefault("check", d.CheckOnly)
	v.SetDefault("report", d.ReportFile)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("color", string(d.ColorMode))
	v.SetDefault("log", d.LogFile)
	v.SetDefault("progress", d.Progress)

	v.SetDefault("extract.textures", d.Extract.Textures)
	v.SetDefault("extract.sprites", d.Extract.Sprites)
	v.SetDefault("extract.audio", d.Extract.Audio)
	v.SetDefault("extract.meshes", d.Extract.Meshes)
	v.SetDefault("extract.texts", d.Extract.Texts)
	v.SetDefault("extract.fonts", d.Extract.Fonts)
	v.SetDefault("extract.scripts", d.Extract.Scripts)
	v.SetDefault("extract.materials", d.Extract.Materials)
	v.SetDefault("extract.max_texture_size", d.Extract.MaxTextureSize)

	v.SetDefault("parser.command", d.Parser.Command)
	v.SetDefault("parser.args", []string{})

	v.SetDefault("discovery.include", []string{})
	v.SetDefault("discovery.exclude", []string{})
}
