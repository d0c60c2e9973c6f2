package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/backmassage/unityrip/internal/container"
)

// KindStats counts objects per kind, indexed by container.Kind. The zero
// value is ready to use.
type KindStats [container.NumKinds]int

// Add increments the count of k by n.
func (s *KindStats) Add(k container.Kind, n int) {
	if k < 0 || int(k) >= container.NumKinds {
		k = container.KindOther
	}
	s[k] += n
}

// Get returns the count of k.
func (s KindStats) Get(k container.Kind) int {
	if k < 0 || int(k) >= container.NumKinds {
		return 0
	}
	return s[k]
}

// Merge folds o into s element-wise.
func (s *KindStats) Merge(o KindStats) {
	for i := range s {
		s[i] += o[i]
	}
}

// Extracted is the total over recognized kinds.
func (s KindStats) Extracted() int {
	n := 0
	for _, k := range container.Extractable {
		n += s[k]
	}
	return n
}

// MarshalJSON writes an object with keys in reporting order.
func (s KindStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range container.All {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", k.Key(), s[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON. Unknown keys
// are ignored.
func (s *KindStats) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = KindStats{}
	for key, n := range m {
		if k, ok := container.ParseKind(key); ok {
			s[k] = n
		}
	}
	return nil
}

func (s KindStats) String() string {
	parts := make([]string, 0, container.NumKinds)
	for _, k := range container.All {
		parts = append(parts, fmt.Sprintf("%s=%d", k.Key(), s[k]))
	}
	return strings.Join(parts, " ")
}
