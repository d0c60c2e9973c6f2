// Package check provides environment diagnostics (--check mode) and the
// pre-batch dumper lookup (CheckDeps).
package check

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/backmassage/unityrip/internal/config"
)

// ErrParserNotFound is returned by CheckDeps when the dumper command cannot
// be resolved.
var ErrParserNotFound = errors.New("dumper not found")

// versionTimeout bounds the "<dumper> --version" probe.
const versionTimeout = 5 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...any)
	Success(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
}

// RunCheck runs the --check flow: dumper on PATH and its version, config
// file in use, and whether the output folder can be written. It is
// informational and returns false when a required piece is missing.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	ok := checkDumper(ctx, cfg, log)
	checkConfigFile(cfg, log)
	if !checkOutputDir(cfg.OutputDir, log) {
		ok = false
	}
	return ok
}

func checkDumper(ctx context.Context, cfg *config.Config, log Logger) bool {
	path, err := lookup(cfg.Parser.Command)
	if err != nil {
		log.Error("Dumper %q not found on PATH", cfg.Parser.Command)
		return false
	}
	log.Success("Dumper: %s", path)

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		log.Warn("Dumper found but --version failed: %v", err)
		return true
	}
	log.Info("  Version: %s", firstLine(string(out)))
	if len(cfg.Parser.Args) > 0 {
		log.Info("  Extra args: %s", strings.Join(cfg.Parser.Args, " "))
	}
	return true
}

func checkConfigFile(cfg *config.Config, log Logger) {
	if cfg.ConfigFile == "" {
		log.Info("Config file: none (defaults, env and flags only)")
		return
	}
	log.Info("Config file: %s", cfg.ConfigFile)
}

// checkOutputDir verifies the output folder exists or can be created, and
// that a file can be created in it.
func checkOutputDir(dir string, log Logger) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("Output folder %s cannot be created: %v", dir, err)
		return false
	}
	f, err := os.CreateTemp(dir, ".unityrip-check-*")
	if err != nil {
		log.Error("Output folder %s is not writable: %v", dir, err)
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	abs, _ := filepath.Abs(dir)
	log.Success("Output folder writable: %s", abs)
	return true
}

// CheckDeps verifies the configured dumper resolves to an executable.
func CheckDeps(cfg *config.Config) error {
	if _, err := lookup(cfg.Parser.Command); err != nil {
		return goerr.Wrap(ErrParserNotFound, "cannot run dumper",
			goerr.V("command", cfg.Parser.Command), goerr.V("cause", err.Error()))
	}
	return nil
}

func lookup(command string) (string, error) {
	return exec.LookPath(strings.TrimSpace(command))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}
