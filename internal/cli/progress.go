package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/unityrip/internal/extract"
	"github.com/backmassage/unityrip/internal/pipeline"
	"github.com/backmassage/unityrip/internal/term"
)

// barReporter draws a files progress bar.
type barReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newBarReporter(w io.Writer) *barReporter {
	return &barReporter{w: w}
}

func (b *barReporter) Start(total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionEnableColorCodes(term.Enabled()),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(b.w, "\n")
		}),
	)
}

func (b *barReporter) FileStarted(_ int, path string) {
	if b.bar != nil {
		b.bar.Describe(filepath.Base(path))
	}
}

func (b *barReporter) FileDone(int, string, extract.Result, error) {
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

func (b *barReporter) Finish(*pipeline.RunStats) {
	if b.bar != nil {
		_ = b.bar.Finish()
		b.bar = nil
	}
}

func stderrIsTerminal() bool { return term.IsTerminal(os.Stderr) }
