package version

import (
	"regexp"
	"strconv"
)

// Classification messages.
const (
	MsgInconclusive = "Version check inconclusive"
	MsgTooOld       = "Unity version too old (< 3.4)"
	MsgNewer        = "Newer version - may have limited support"
	MsgSupported    = "Fully supported"
)

var reMajorMinor = regexp.MustCompile(`^(\d+)\.(\d+)`)

// Classify maps a version string to (compatible, message). Supported range is
// 3.4 through 2023.x; newer majors are accepted with a caveat.
func Classify(v string) (bool, string) {
	m := reMajorMinor.FindStringSubmatch(v)
	if m == nil {
		return true, MsgInconclusive
	}
	major, err1 := strconv.Atoi(m[1])
	minor, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return true, MsgInconclusive
	}

	switch {
	case major < 3 || (major == 3 && minor < 4):
		return false, MsgTooOld
	case major > 2023:
		return true, MsgNewer
	default:
		return true, MsgSupported
	}
}
