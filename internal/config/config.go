// Package config holds runtime configuration: defaults, config file and
// environment layering, CLI flag binding, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/extract"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultOutputDir is the output root used when --out is not given.
const DefaultOutputDir = "exported_assets"

// ExtractConfig selects extracted kinds. Keys match the kind keys.
type ExtractConfig struct {
	Textures       bool `mapstructure:"textures"`
	Sprites        bool `mapstructure:"sprites"`
	Audio          bool `mapstructure:"audio"`
	Meshes         bool `mapstructure:"meshes"`
	Texts          bool `mapstructure:"texts"`
	Fonts          bool `mapstructure:"fonts"`
	Scripts        bool `mapstructure:"scripts"`
	Materials      bool `mapstructure:"materials"`
	MaxTextureSize int  `mapstructure:"max_texture_size"` // 0 keeps original size.
}

// ParserConfig names the dumper command that opens containers.
type ParserConfig struct {
	Command string   `mapstructure:"command"` // Default: "unityrip-dump".
	Args    []string `mapstructure:"args"`    // Prepended before the file path.
}

// DiscoveryConfig holds user glob patterns applied during discovery.
type DiscoveryConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// layered by [Load], and adjusted by [NegatedFlags.Apply] before being
// passed (by pointer) to packages that need it.
type Config struct {
	// Input is the positional file or directory argument.
	Input string `mapstructure:"-"`

	OutputDir string `mapstructure:"out"`

	// Behavior.
	Timestamp     bool   `mapstructure:"timestamp"` // Default: true. Suffix per-file dirs with the run time.
	DetectVersion bool   `mapstructure:"detect_version"`
	CheckOnly     bool   `mapstructure:"check"`
	ReportFile    string `mapstructure:"report"` // Optional JSON run report path.

	// Display and logging.
	Verbose   bool      `mapstructure:"verbose"`
	ColorMode ColorMode `mapstructure:"color"`    // Default: "auto".
	LogFile   string    `mapstructure:"log"`      // Optional log file path.
	Progress  bool      `mapstructure:"progress"` // Default: true. Only shown on a TTY.

	Extract   ExtractConfig   `mapstructure:"extract"`
	Parser    ParserConfig    `mapstructure:"parser"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`

	// ConfigFile is the file that was actually read, if any.
	ConfigFile string `mapstructure:"-"`
}

// DefaultConfig returns a Config with every kind enabled and timestamped
// output directories.
func DefaultConfig() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		Timestamp: true,
		ColorMode: ColorAuto,
		Progress:  true,
		Extract: ExtractConfig{
			Textures:  true,
			Sprites:   true,
			Audio:     true,
			Meshes:    true,
			Texts:     true,
			Fonts:     true,
			Scripts:   true,
			Materials: true,
		},
		Parser: ParserConfig{Command: container.DefaultDumper},
	}
}

// ExtractOptions converts the extract section to engine options.
func (c *Config) ExtractOptions() extract.Options {
	e := c.Extract
	return extract.Options{
		Textures:       e.Textures,
		Sprites:        e.Sprites,
		Audio:          e.Audio,
		Meshes:         e.Meshes,
		Texts:          e.Texts,
		Fonts:          e.Fonts,
		Scripts:        e.Scripts,
		Materials:      e.Materials,
		MaxTextureSize: e.MaxTextureSize,
	}
}

// Validate checks enum and range fields. When not in CheckOnly mode it also
// requires an input path.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}
	if c.Extract.MaxTextureSize < 0 {
		return errors.New("max texture size must not be negative")
	}
	if strings.TrimSpace(c.Parser.Command) == "" {
		return errors.New("parser command must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output directory must not be empty")
	}
	if c.Input == "" {
		return errors.New("no input specified")
	}
	return nil
}

// ValidatePaths reports an error when the resolved output directory is
// inside (or equal to) the resolved input directory; a later run would
// rediscover extracted files. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory is inside input directory")
	}
	return nil
}
