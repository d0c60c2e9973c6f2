package extract

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/backmassage/unityrip/internal/container"
)

// kindWriter owns the output directory of one pass. Kind subdirectories are
// created on first write; every file lands via temp → rename.
type kindWriter struct {
	root    string
	ready   [container.NumKinds]bool
	written int64
}

func newKindWriter(root string) *kindWriter {
	return &kindWriter{root: root}
}

// dir returns the output directory of k without creating it.
func (w *kindWriter) dir(k container.Kind) string {
	return filepath.Join(w.root, k.Key())
}

func (w *kindWriter) ensure(k container.Kind) error {
	if w.ready[k] {
		return nil
	}
	if err := os.MkdirAll(w.dir(k), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create kind directory", goerr.V("dir", w.dir(k)))
	}
	w.ready[k] = true
	return nil
}

// write stores data at path, which must be inside w.dir(k).
func (w *kindWriter) write(k container.Kind, path string, data []byte) error {
	if err := w.ensure(k); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".unityrip-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("path", path))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to write temp file", goerr.V("path", path))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to close temp file", goerr.V("path", path))
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to set file mode", goerr.V("path", path))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to rename temp file", goerr.V("path", path))
	}

	w.written += int64(len(data))
	return nil
}
