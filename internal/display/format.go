package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/extract"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// Plural returns "1 file" or "3 files".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// WriteKindTable writes one "  <kind>  <count>" row per kind with a non-zero
// count, followed by a total of extracted objects. Rows are aligned on the
// longest kind label.
func WriteKindTable(w io.Writer, stats extract.KindStats) {
	width := 0
	for _, k := range container.All {
		if n := len(k.String()); n > width {
			width = n
		}
	}
	for _, k := range container.All {
		n := stats.Get(k)
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-*s  %d\n", width, k.String(), n)
	}
	fmt.Fprintf(w, "  %s\n  %-*s  %d\n", strings.Repeat("-", width+6), width, "extracted", stats.Extracted())
}
