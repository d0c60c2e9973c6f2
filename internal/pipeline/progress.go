package pipeline

import "github.com/backmassage/unityrip/internal/extract"

// ProgressReporter receives batch events. Implementations must not block.
type ProgressReporter interface {
	Start(total int)
	FileStarted(index int, path string)
	FileDone(index int, path string, res extract.Result, err error)
	Finish(stats *RunStats)
}

// NoOpProgress discards all events.
type NoOpProgress struct{}

func (NoOpProgress) Start(int) {}

func (NoOpProgress) FileStarted(int, string) {}

func (NoOpProgress) FileDone(int, string, extract.Result, error) {}

func (NoOpProgress) Finish(*RunStats) {}
