package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/display"
	"github.com/backmassage/unityrip/internal/extract"
	"github.com/backmassage/unityrip/internal/naming"
)

// Logger is the logging surface the runner needs.
type Logger = extract.Logger

// Extractor runs one container pass. *extract.Engine satisfies it.
type Extractor interface {
	Extract(ctx context.Context, file, outDir string) (extract.Result, error)
}

// Runner processes a list of container files sequentially.
type Runner struct {
	ext       Extractor
	log       Logger
	progress  ProgressReporter
	timestamp bool
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimestamp suffixes each per-file output folder with _YYYYMMDD_HHMMSS.
func WithTimestamp(on bool) Option {
	return func(r *Runner) { r.timestamp = on }
}

// WithProgress sets the progress reporter. nil selects NoOpProgress.
func WithProgress(p ProgressReporter) Option {
	return func(r *Runner) {
		if p == nil {
			p = NoOpProgress{}
		}
		r.progress = p
	}
}

// WithClock overrides time.Now for timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner returns a Runner using ext for each file.
func NewRunner(ext Extractor, log Logger, opts ...Option) *Runner {
	r := &Runner{
		ext:      ext,
		log:      log,
		progress: NoOpProgress{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run extracts every file into its own folder under outRoot and returns the
// aggregate stats. A failing file is counted and skipped; the batch only
// stops early when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, files []string, outRoot string) RunStats {
	stats := RunStats{
		RunID:   uuid.NewString(),
		Started: r.now(),
		Total:   len(files),
		Files:   make([]FileReport, 0, len(files)),
	}
	dirs := naming.NewCollisionResolver()

	r.progress.Start(stats.Total)
	for i, path := range files {
		if ctx.Err() != nil {
			stats.Interrupted = true
			r.log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		r.processFile(ctx, path, outRoot, dirs, &stats)
		if stats.Interrupted {
			break
		}
	}

	stats.Finished = r.now()
	r.progress.Finish(&stats)
	r.logSummary(&stats)
	return stats
}

// processFile handles one container: name its folder, extract, fold stats.
func (r *Runner) processFile(ctx context.Context, path, outRoot string, dirs *naming.CollisionResolver, stats *RunStats) {
	base := filepath.Base(path)
	r.log.Info("[%d/%d] %s", stats.Current, stats.Total, base)
	r.progress.FileStarted(stats.Current, path)

	start := r.now()
	name := naming.OutputDirName(path, start, r.timestamp)
	outDir := dirs.ResolveDir(path, filepath.Join(outRoot, name))
	report := FileReport{Path: path, OutputDir: outDir}

	var res extract.Result
	err := os.MkdirAll(outDir, 0o755)
	if err == nil {
		res, err = r.ext.Extract(ctx, path, outDir)
	}

	report.Stats = res.Stats
	report.Objects = res.Objects
	report.Errors = res.Errors
	report.Warnings = res.Warnings
	report.BytesWritten = res.BytesWritten
	report.Seconds = r.now().Sub(start).Seconds()
	stats.fold(res)

	switch {
	case err == nil:
		stats.Processed++
		r.log.Success("  Done: %d extracted, %d other (%s)", res.Stats.Extracted(),
			res.Stats.Get(container.KindOther), display.FormatBytes(res.BytesWritten))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		stats.Interrupted = true
		report.Error = err.Error()
		r.log.Warn("  Interrupted after %s", display.Plural(res.Objects, "object"))
	default:
		stats.Failed++
		report.Error = err.Error()
		r.log.Warn("  Skipped %s", base)
		// Only removes the folder when nothing was written into it.
		_ = os.Remove(outDir)
	}

	r.progress.FileDone(stats.Current, path, res, err)
	stats.Files = append(stats.Files, report)
}

func (r *Runner) logSummary(stats *RunStats) {
	r.log.Info("==============================")
	r.log.Info("Done: %d processed, %d failed of %s", stats.Processed, stats.Failed,
		display.Plural(stats.Total, "file"))
	r.log.Info("  Extracted: %d objects (%d other)", stats.Totals.Extracted(), stats.Totals.Get(container.KindOther))
	r.log.Info("  By kind: %s", stats.Totals)
	if stats.Errors > 0 || stats.Warnings > 0 {
		r.log.Warn("  Object errors: %d, warnings: %d", stats.Errors, stats.Warnings)
	}
	r.log.Info("  Written: %s in %s", display.FormatBytes(stats.BytesWritten),
		stats.Elapsed().Round(time.Millisecond))
}
