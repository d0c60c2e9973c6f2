package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/extract"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"typical bundle 700 MiB", 734003200, "700.0 MiB"},
		{"4.7 GiB", 5046586572, "4.7 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.bytes))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 file", Plural(1, "file"))
	assert.Equal(t, "0 files", Plural(0, "file"))
	assert.Equal(t, "3 errors", Plural(3, "error"))
}

func TestWriteKindTable(t *testing.T) {
	var s extract.KindStats
	s.Add(container.KindTexture, 5)
	s.Add(container.KindAudio, 2)
	s.Add(container.KindOther, 7)

	var buf bytes.Buffer
	WriteKindTable(&buf, s)
	out := buf.String()

	assert.Contains(t, out, container.KindTexture.String())
	assert.Contains(t, out, container.KindAudio.String())
	assert.NotContains(t, out, container.KindMesh.String())
	assert.Contains(t, out, "extracted")
	assert.Regexp(t, `extracted\s+7\n$`, out)
}
