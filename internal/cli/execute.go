package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/backmassage/unityrip/internal/check"
	"github.com/backmassage/unityrip/internal/config"
	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/display"
	"github.com/backmassage/unityrip/internal/extract"
	"github.com/backmassage/unityrip/internal/logging"
	"github.com/backmassage/unityrip/internal/pipeline"
	"github.com/backmassage/unityrip/internal/version"
)

// execute runs one validated invocation and returns the exit code.
func (a *app) execute(ctx context.Context, cfg *config.Config) int {
	log, err := logging.NewLoggerTo(cfg, a.stdout, a.stderr)
	if err != nil {
		log = logging.New(a.stdout, a.stderr, cfg.Verbose)
		log.Error("%v", err)
		return ExitFailure
	}
	defer log.Close()

	display.PrintBanner(a.stdout)

	// 1. System check.
	if cfg.CheckOnly {
		if !check.RunCheck(ctx, cfg, log) {
			return ExitFailure
		}
		return ExitOK
	}

	// 2. Inputs.
	filter, err := pipeline.NewFilter(cfg.Discovery.Include, cfg.Discovery.Exclude)
	if err != nil {
		log.Error("%v", err)
		return ExitFailure
	}
	files, walkErrs, err := pipeline.ResolveInputs(cfg.Input, filter)
	if err != nil {
		log.Error("Input not found: %s", cfg.Input)
		return ExitFailure
	}
	for _, e := range walkErrs {
		log.Warn("Discovery: %v", e)
	}
	if len(files) == 0 {
		log.Error("No asset files found in %s", cfg.Input)
		return ExitFailure
	}
	log.Info("Found %s", display.Plural(len(files), "file"))

	if err := check.CheckDeps(cfg); err != nil {
		log.Warn("%v", err)
	}
	opener := a.newOpener(cfg)

	// 3. Version detection only.
	if cfg.DetectVersion {
		rows := pipeline.DetectVersions(ctx, opener, files, pipeline.DetectLimit)
		pipeline.PrintVersionTable(a.stdout, rows)
		return ExitOK
	}

	// 4. Extraction.
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return ExitFailure
	}
	warnOutputInsideInput(cfg, log)

	log.Info("=== unityrip %s ===", Version)
	log.Info("In:  %s", cfg.Input)
	log.Info("Out: %s", cfg.OutputDir)
	log.Debug("Dumper: %s", cfg.Parser.Command)

	info := version.Detect(ctx, opener, files[0])
	logVersion(log, info)

	opts := cfg.ExtractOptions()
	logKinds(log, opts)

	runner := pipeline.NewRunner(
		extract.NewEngine(opener, opts, log),
		log,
		pipeline.WithTimestamp(cfg.Timestamp),
		pipeline.WithProgress(a.progress(cfg)),
	)
	stats := runner.Run(ctx, files, cfg.OutputDir)
	stats.Version = &info

	display.WriteKindTable(a.stdout, stats.Totals)

	if cfg.ReportFile != "" {
		if err := pipeline.WriteReport(cfg.ReportFile, &stats); err != nil {
			log.Error("Cannot write report: %v", err)
		} else {
			log.Info("Report: %s", cfg.ReportFile)
		}
	}

	if stats.Interrupted {
		return ExitInterrupted
	}
	return ExitOK
}

// progress picks the bar reporter when enabled and stderr is a terminal.
func (a *app) progress(cfg *config.Config) pipeline.ProgressReporter {
	if !cfg.Progress || !a.progressTTY() {
		return pipeline.NoOpProgress{}
	}
	return newBarReporter(a.stderr)
}

// warnOutputInsideInput warns when the output folder lies under the input
// folder. The run still proceeds; a later run would rediscover its own
// output.
func warnOutputInsideInput(cfg *config.Config, log *logging.Logger) {
	inDir := cfg.Input
	if fi, err := os.Stat(inDir); err == nil && !fi.IsDir() {
		inDir = filepath.Dir(inDir)
	}
	inAbs, err := absPath(inDir)
	if err != nil {
		return
	}
	outAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		return
	}
	if err := cfg.ValidatePaths(inAbs, outAbs); err != nil {
		log.Warn("%v", err)
	}
}

func logVersion(log *logging.Logger, info version.Info) {
	if !info.Known() {
		if info.Warning != "" {
			log.Warn("Engine version: %s (%s)", version.Unknown, info.Warning)
		} else {
			log.Warn("Engine version: %s", version.Unknown)
		}
		return
	}
	log.Info("Engine version: %s (from %s)", info.Version, info.DetectedFrom)
	if info.Warning != "" {
		log.Warn("  %s", info.Warning)
	}
}

func logKinds(log *logging.Logger, opts extract.Options) {
	var off []string
	for _, k := range container.Extractable {
		if !opts.Enabled(k) {
			off = append(off, k.Key())
		}
	}
	if len(off) > 0 {
		log.Info("Skipping kinds: %v", off)
	}
	if opts.MaxTextureSize > 0 {
		log.Info("Max texture size: %dpx", opts.MaxTextureSize)
	}
}

// absPath returns the absolute path with symlinks resolved, for comparing
// input vs output hierarchy.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
