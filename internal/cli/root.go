// Package cli wires configuration, logging and the extraction pipeline into
// the unityrip command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/unityrip/internal/config"
	"github.com/backmassage/unityrip/internal/container"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "none"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// app carries the streams and seams a single invocation uses.
type app struct {
	stdout io.Writer
	stderr io.Writer
	// newOpener builds the container opener from the loaded config.
	newOpener func(cfg *config.Config) container.Opener
	// progressTTY reports whether the progress bar may be drawn.
	progressTTY func() bool
	code        int
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		newOpener: func(cfg *config.Config) container.Opener {
			return container.NewBridge(cfg.Parser.Command, cfg.Parser.Args...)
		},
		progressTTY: stderrIsTerminal,
	}
}

// newRootCmd builds the root command. Flags are defined on the command's
// own flag set and bound to config keys when the command runs.
func newRootCmd(a *app) *cobra.Command {
	var (
		cfgFile string
		negated *config.NegatedFlags
	)
	cmd := &cobra.Command{
		Use:   "unityrip [flags] [input]",
		Short: "Extract textures, audio, meshes and other assets from Unity game files",
		Long: `unityrip walks a game folder (or a single container file), opens every
candidate asset container through an external dumper, and writes each
recognized object to a per-file output folder grouped by kind.`,
		Version:       fmt.Sprintf("%s (commit %s)", Version, GitCommit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgFile, negated, args)
			if err != nil {
				return err
			}
			a.code = a.execute(cmd.Context(), &cfg)
			return nil
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	fs := cmd.Flags()
	negated = config.DefineFlags(fs)
	fs.StringVar(&cfgFile, "config", "", "Config `file` (default ./unityrip.yaml, then $HOME/.unityrip.yaml)")
	return cmd
}

// loadConfig layers defaults, config file, environment and flags, then
// applies negated flags and validates.
func loadConfig(cmd *cobra.Command, cfgFile string, negated *config.NegatedFlags, args []string) (config.Config, error) {
	cfg, err := config.NewLoader(cmd.Flags(), cfgFile).Load()
	if err != nil {
		return cfg, err
	}
	negated.Apply(&cfg)
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Run executes the command with args (without the program name) and returns
// the process exit code. SIGINT and SIGTERM cancel the batch between files.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newApp(os.Stdout, os.Stderr).run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "unityrip: %v\n", err)
		return ExitFailure
	}
	return a.code
}
