package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// WriteReport writes stats as indented JSON to path. The file is written to a
// temporary sibling first and renamed into place, so readers never observe a
// partial report.
func WriteReport(path string, stats *RunStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode run report")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create report directory", goerr.V("path", dir))
	}
	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp report", goerr.V("path", path))
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to write report", goerr.V("path", path))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to close report", goerr.V("path", path))
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to set report mode", goerr.V("path", path))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to move report into place", goerr.V("path", path))
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*RunStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read report", goerr.V("path", path))
	}
	var stats RunStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, goerr.Wrap(err, "failed to decode report", goerr.V("path", path))
	}
	return &stats, nil
}
