package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/term"
	"github.com/backmassage/unityrip/internal/version"
)

// DetectLimit is how many files --detect-version inspects.
const DetectLimit = 3

// Detection is the version result for one file.
type Detection struct {
	Path string
	Info version.Info
}

// DetectVersions runs version detection on up to limit files (limit <= 0
// means all) and returns the results in file order. It stops early if ctx is
// cancelled.
func DetectVersions(ctx context.Context, opener container.Opener, files []string, limit int) []Detection {
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	out := make([]Detection, 0, len(files))
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		out = append(out, Detection{Path: f, Info: version.Detect(ctx, opener, f)})
	}
	return out
}

// PrintVersionTable writes one aligned row per detection result.
func PrintVersionTable(w io.Writer, rows []Detection) {
	nameW := len("File")
	verW := len("Version")
	for _, d := range rows {
		nameW = max(nameW, len(filepath.Base(d.Path)))
		verW = max(verW, len(d.Info.Version))
	}

	fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameW, "File", verW, "Version", "Status")
	fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", nameW), strings.Repeat("-", verW), strings.Repeat("-", 6))
	for _, d := range rows {
		fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameW, filepath.Base(d.Path), verW, d.Info.Version, status(d.Info))
	}
}

func status(in version.Info) string {
	switch {
	case !in.Known():
		if in.Warning != "" {
			return term.Yellow.Sprint("not detected: " + in.Warning)
		}
		return term.Yellow.Sprint("not detected")
	case !in.Compatible:
		return term.Red.Sprint(in.Warning)
	default:
		_, msg := version.Classify(in.Version)
		return term.Green.Sprint(msg)
	}
}
