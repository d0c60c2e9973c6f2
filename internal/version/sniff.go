// Package version infers the engine version a container was built with and
// classifies it against the range the dumper is known to handle. Results are
// advisory and never fail the caller.
package version

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/backmassage/unityrip/internal/container"
)

// Unknown is the version reported when nothing could be detected.
const Unknown = "Unknown"

// HeaderSize is how many leading bytes of a file the header scan inspects.
const HeaderSize = 1024

// Info is the advisory result of Detect.
type Info struct {
	Version      string `json:"version"`
	DetectedFrom string `json:"detected_from,omitempty"`
	Compatible   bool   `json:"compatible"`
	Warning      string `json:"warning,omitempty"`
}

// Known reports whether a version was detected.
func (i Info) Known() bool { return i.Version != "" && i.Version != Unknown }

// Matcher pairs a compiled pattern with a name for diagnostics. Matchers
// are evaluated in order by [Sniff]; first match wins. Group 1 of Pattern is
// the version string.
type Matcher struct {
	Name    string
	Pattern *regexp.Regexp
}

// Matchers is the ordered header-scan table.
var Matchers = []Matcher{
	{Name: "unity-prefixed", Pattern: regexp.MustCompile(`Unity (\d+\.\d+\.\d+[a-z0-9]*)`)},
	{Name: "bare-triple", Pattern: regexp.MustCompile(`(\d+\.\d+\.\d+[a-z0-9]*)`)},
	{Name: "unityfs-tag", Pattern: regexp.MustCompile(`(?s)UnityFS.*?(\d+\.\d+)`)},
}

// Sniff scans header bytes with Matchers and returns the first match.
func Sniff(header []byte) (string, bool) {
	for _, m := range Matchers {
		if sub := m.Pattern.FindSubmatch(header); sub != nil {
			return string(sub[1]), true
		}
	}
	return "", false
}

// Detect infers the version of path. The container's own version field
// wins; otherwise the first HeaderSize bytes are scanned. An open failure
// is kept as the warning unless the header scan succeeds.
func Detect(ctx context.Context, opener container.Opener, path string) Info {
	info := Info{Version: Unknown, Compatible: true}
	name := filepath.Base(path)

	if opener != nil {
		c, err := opener.Open(ctx, path)
		if err != nil {
			info.Warning = err.Error()
		} else {
			v := c.Version()
			_ = c.Close()
			if v != "" {
				return classified(v, name)
			}
		}
	}

	header, err := readHeader(path)
	if err != nil {
		if info.Warning == "" {
			info.Warning = err.Error()
		}
		return info
	}
	if v, ok := Sniff(header); ok {
		return classified(v, name)
	}
	return info
}

func classified(v, from string) Info {
	ok, msg := Classify(v)
	info := Info{Version: v, DetectedFrom: from, Compatible: ok}
	if !ok {
		info.Warning = msg
	}
	return info
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}
