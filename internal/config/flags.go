package config

// This file defines the CLI flags and binds them to config keys.
// Negated flags (e.g. --no-textures) are applied after Load so config file
// and environment values hold unless the user passes the flag.

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps direct flags to the config keys they override.
var flagKeys = map[string]string{
	"out":              "out",
	"verbose":          "verbose",
	"log":              "log",
	"report":           "report",
	"detect-version":   "detect_version",
	"check":            "check",
	"parser":           "parser.command",
	"parser-arg":       "parser.args",
	"include":          "discovery.include",
	"exclude":          "discovery.exclude",
	"max-texture-size": "extract.max_texture_size",
}

// NegatedFlags holds boolean flags that are applied after Load.
type NegatedFlags struct {
	NoTextures  bool
	NoSprites   bool
	NoAudio     bool
	NoMeshes    bool
	NoTexts     bool
	NoFonts     bool
	NoScripts   bool
	NoMaterials bool
	NoTimestamp bool
	NoProgress  bool
	ForceColor  bool
	NoColor     bool
}

// DefineFlags registers all flags on fs. The returned NegatedFlags is filled
// when fs is parsed.
func DefineFlags(fs *pflag.FlagSet) *NegatedFlags {
	d := DefaultConfig()
	n := &NegatedFlags{}

	// Output and behavior.
	fs.StringP("out", "o", d.OutputDir, "Output folder")
	fs.Bool("detect-version", false, "Detect engine version of up to 3 files and exit")
	fs.Bool("check", false, "Check that the dumper is available and exit")
	fs.String("report", "", "Write a JSON run report to `file`")
	fs.BoolVar(&n.NoTimestamp, "no-timestamp", false, "Do not suffix per-file output folders with the run time")

	// Kinds.
	fs.BoolVar(&n.NoTextures, "no-textures", false, "Skip textures")
	fs.BoolVar(&n.NoSprites, "no-sprites", false, "Skip sprites")
	fs.BoolVar(&n.NoAudio, "no-audio", false, "Skip audio")
	fs.BoolVar(&n.NoMeshes, "no-meshes", false, "Skip meshes")
	fs.BoolVar(&n.NoScripts, "no-scripts", false, "Skip scripts")
	fs.BoolVar(&n.NoTexts, "no-texts", false, "Skip text assets")
	fs.BoolVar(&n.NoFonts, "no-fonts", false, "Skip fonts")
	fs.BoolVar(&n.NoMaterials, "no-materials", false, "Skip materials")
	fs.Int("max-texture-size", 0, "Scale textures and sprites down to at most `px` on the longer edge (0 = original)")

	// Parser and discovery.
	fs.String("parser", d.Parser.Command, "Dumper `command` used to open containers")
	fs.StringArray("parser-arg", nil, "Extra argument passed to the dumper before the file path (repeatable)")
	fs.StringArray("include", nil, "Also process files matching `glob` (repeatable)")
	fs.StringArray("exclude", nil, "Skip files matching `glob` (repeatable)")

	// Display.
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.StringP("log", "l", "", "Append logs to `file`")
	fs.BoolVar(&n.ForceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.NoColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&n.NoProgress, "no-progress", false, "Disable the progress bar")

	return n
}

// bindFlags points each direct flag at its config key. A bound flag only
// wins when the user actually set it.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return goerr.Wrap(err, "failed to bind flag", goerr.V("flag", name))
		}
	}
	return nil
}

// Apply copies negated and override flag values into cfg (e.g. NoTextures
// -> Extract.Textures=false).
func (n *NegatedFlags) Apply(cfg *Config) {
	if n.NoTextures {
		cfg.Extract.Textures = false
	}
	if n.NoSprites {
		cfg.Extract.Sprites = false
	}
	if n.NoAudio {
		cfg.Extract.Audio = false
	}
	if n.NoMeshes {
		cfg.Extract.Meshes = false
	}
	if n.NoTexts {
		cfg.Extract.Texts = false
	}
	if n.NoFonts {
		cfg.Extract.Fonts = false
	}
	if n.NoScripts {
		cfg.Extract.Scripts = false
	}
	if n.NoMaterials {
		cfg.Extract.Materials = false
	}
	if n.NoTimestamp {
		cfg.Timestamp = false
	}
	if n.NoProgress {
		cfg.Progress = false
	}
	if n.NoColor {
		cfg.ColorMode = ColorNever
	} else if n.ForceColor {
		cfg.ColorMode = ColorAlways
	}
}
