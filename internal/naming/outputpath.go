package naming

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the per-run output directory suffix format.
const TimestampLayout = "20060102_150405"

// Stem returns the base name of path without its final extension.
// A dotfile such as ".assets" keeps its full name.
func Stem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// OrDefault returns name, or "<kind>_<id>" when name is empty.
func OrDefault(name, kind string, id int64) string {
	if name != "" {
		return name
	}
	return kind + "_" + strconv.FormatInt(id, 10)
}

// WithID builds "<sanitized name>_<id><ext>". ext includes the dot.
func WithID(name string, id int64, ext string) string {
	return Sanitize(name) + "_" + strconv.FormatInt(id, 10) + ext
}

// Plain builds "<sanitized name><ext>".
func Plain(name, ext string) string {
	return Sanitize(name) + ext
}

// OutputDirName builds the per-file output directory name:
//
//	<stem>                    (withTimestamp false)
//	<stem>_YYYYMMDD_HHMMSS    (withTimestamp true)
func OutputDirName(file string, t time.Time, withTimestamp bool) string {
	name := Sanitize(Stem(file))
	if withTimestamp {
		name += "_" + t.Format(TimestampLayout)
	}
	return name
}
