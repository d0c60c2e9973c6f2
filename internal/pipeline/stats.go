package pipeline

import (
	"time"

	"github.com/backmassage/unityrip/internal/extract"
	"github.com/backmassage/unityrip/internal/version"
)

// RunStats tracks aggregate counters across a batch run. It is also the
// shape of the JSON run report.
type RunStats struct {
	RunID       string    `json:"run_id"`
	Started     time.Time `json:"started"`
	Finished    time.Time `json:"finished"`
	Total       int       `json:"total"`
	Current     int       `json:"-"`
	Processed   int       `json:"processed"`
	Failed      int       `json:"failed"`
	Interrupted bool      `json:"interrupted"`

	Totals       extract.KindStats `json:"totals"`
	Errors       int               `json:"object_errors"`
	Warnings     int               `json:"object_warnings"`
	BytesWritten int64             `json:"bytes_written"`

	Version *version.Info `json:"version,omitempty"`
	Files   []FileReport  `json:"files"`
}

// FileReport is the outcome of one input file.
type FileReport struct {
	Path         string            `json:"path"`
	OutputDir    string            `json:"output_dir"`
	Stats        extract.KindStats `json:"stats"`
	Objects      int               `json:"objects"`
	Errors       int               `json:"object_errors"`
	Warnings     int               `json:"object_warnings"`
	BytesWritten int64             `json:"bytes_written"`
	Error        string            `json:"error,omitempty"`
	Seconds      float64           `json:"seconds"`
}

// Elapsed is the wall time of the run.
func (s *RunStats) Elapsed() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// fold adds one file's result to the run totals.
func (s *RunStats) fold(res extract.Result) {
	s.Totals.Merge(res.Stats)
	s.Errors += res.Errors
	s.Warnings += res.Warnings
	s.BytesWritten += res.BytesWritten
}
