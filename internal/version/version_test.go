package version

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/unityrip/internal/container"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in      string
		wantOK  bool
		wantMsg string
	}{
		{"3.3.9", false, MsgTooOld},
		{"2.6.1", false, MsgTooOld},
		{"3.4.0", true, MsgSupported},
		{"2021.3.10f1", true, MsgSupported},
		{"2023.2.1f1", true, MsgSupported},
		{"2025.1", true, MsgNewer},
		{"6000.0.23f1", true, MsgNewer},
		{"not-a-version", true, MsgInconclusive},
		{"", true, MsgInconclusive},
		{"99999999999999999999.1", true, MsgInconclusive},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			ok, msg := Classify(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}

func TestSniff_Priority(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		found  bool
	}{
		{"unity prefix beats earlier bare triple", "1.2.3 then Unity 2019.4.1f1", "2019.4.1f1", true},
		{"bare triple", "xx 5.6.7p3 yy", "5.6.7p3", true},
		{"unityfs major.minor", "UnityFS\x00\x00\x06\x005.x\x002018.4", "2018.4", true},
		{"nothing", "garbage bytes only", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Sniff([]byte(tc.header))
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestDetect_ContainerVersionWins(t *testing.T) {
	p := writeFile(t, t.TempDir(), "data.unity3d", []byte("Unity 5.0.0f1"))
	opener := container.OpenerFunc(func(context.Context, string) (container.Container, error) {
		return &container.Memory{EngineVersion: "2020.3.4f1"}, nil
	})
	info := Detect(context.Background(), opener, p)
	assert.Equal(t, "2020.3.4f1", info.Version)
	assert.Equal(t, "data.unity3d", info.DetectedFrom)
	assert.True(t, info.Compatible)
	assert.Empty(t, info.Warning)
}

func TestDetect_HeaderFallbackClearsOpenError(t *testing.T) {
	p := writeFile(t, t.TempDir(), "level0", []byte("\x00\x00UnityFS\x00Unity 3.2.0f4\x00"))
	opener := container.OpenerFunc(func(context.Context, string) (container.Container, error) {
		return nil, errors.New("boom")
	})
	info := Detect(context.Background(), opener, p)
	assert.Equal(t, "3.2.0f4", info.Version)
	assert.False(t, info.Compatible)
	assert.Equal(t, MsgTooOld, info.Warning)
}

func TestDetect_OnlyFirst1024Bytes(t *testing.T) {
	data := make([]byte, 2048)
	copy(data[1500:], "Unity 2019.1.0f1")
	p := writeFile(t, t.TempDir(), "big.assets", data)
	info := Detect(context.Background(), nil, p)
	assert.False(t, info.Known())
	assert.Equal(t, Unknown, info.Version)
	assert.Empty(t, info.DetectedFrom)
	assert.True(t, info.Compatible)
}

func TestDetect_UnknownKeepsOpenError(t *testing.T) {
	p := writeFile(t, t.TempDir(), "x.assets", []byte("nothing here"))
	opener := container.OpenerFunc(func(context.Context, string) (container.Container, error) {
		return nil, errors.New("cannot parse")
	})
	info := Detect(context.Background(), opener, p)
	assert.Equal(t, Unknown, info.Version)
	assert.Equal(t, "cannot parse", info.Warning)
	assert.True(t, info.Compatible)
}

func TestDetect_MissingFile(t *testing.T) {
	info := Detect(context.Background(), nil, filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, Unknown, info.Version)
	assert.NotEmpty(t, info.Warning)
}
