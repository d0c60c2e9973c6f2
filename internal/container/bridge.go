package container

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultDumper is the dumper command used when none is configured.
const DefaultDumper = "unityrip-dump"

// ErrNoHeader means the dumper produced no version header line, which is
// treated as a failure to open the container.
var ErrNoHeader = errors.New("dumper produced no header")

// ErrStream marks a failure of the object stream as a whole, such as a read
// error or the dumper exiting non-zero, as opposed to one bad object.
var ErrStream = errors.New("object stream failed")

// Bridge opens containers by running an external dumper as
// `<Command> [Args...] <path>` and reading its NDJSON object stream.
type Bridge struct {
	Command string
	Args    []string
}

// NewBridge returns a Bridge for command, falling back to DefaultDumper.
func NewBridge(command string, args ...string) *Bridge {
	if strings.TrimSpace(command) == "" {
		command = DefaultDumper
	}
	return &Bridge{Command: command, Args: args}
}

// Open starts the dumper and consumes the header line.
func (b *Bridge) Open(ctx context.Context, path string) (Container, error) {
	args := append(append([]string{}, b.Args...), path)
	cmd := exec.CommandContext(ctx, b.Command, args...)
	stderr := &tailBuffer{max: 4096}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open dumper stdout", goerr.V("file", path))
	}
	if err := cmd.Start(); err != nil {
		return nil, goerr.Wrap(err, "failed to start dumper", goerr.V("command", b.Command), goerr.V("file", path))
	}

	s, err := newStream(stdout)
	if err != nil {
		_ = cmd.Process.Kill()
		waitErr := cmd.Wait()
		return nil, goerr.Wrap(err, "failed to open container",
			goerr.V("file", path),
			goerr.V("exit", exitText(waitErr)),
			goerr.V("stderr", stderr.String()))
	}
	s.cmd = cmd
	s.stderr = stderr
	s.path = path
	return s, nil
}

// ParseStream reads a dumper stream from r without a subprocess.
// Exported for testing without a real dumper binary.
func ParseStream(r io.Reader) (Container, error) {
	s, err := newStream(r)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

type stream struct {
	r       *bufio.Reader
	version string

	cmd     *exec.Cmd
	stderr  *tailBuffer
	path    string
	closer  io.Closer
	drained bool
	waited  bool
	waitErr error
}

func newStream(r io.Reader) (*stream, error) {
	s := &stream{r: bufio.NewReader(r)}
	line, err := s.nextLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, goerr.Wrap(err, "failed to read header")
	}
	var h wireHeader
	if err := json.Unmarshal(line, &h); err != nil || h.Version == nil {
		return nil, goerr.Wrap(ErrNoHeader, "malformed header", goerr.V("line", truncate(line, 120)))
	}
	s.version = strings.TrimSpace(*h.Version)
	return s, nil
}

// nextLine returns the next non-blank line without its terminator.
func (s *stream) nextLine() ([]byte, error) {
	for {
		line, err := s.r.ReadBytes('\n')
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			return trimmed, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (s *stream) Version() string { return s.version }

func (s *stream) Objects() iter.Seq2[Object, error] {
	return func(yield func(Object, error) bool) {
		if s.drained {
			return
		}
		for {
			line, err := s.nextLine()
			if err != nil {
				s.drained = true
				if !errors.Is(err, io.EOF) {
					yield(nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrStream, err), "failed to read object stream"))
					return
				}
				if werr := s.wait(); werr != nil {
					yield(nil, werr)
				}
				return
			}
			obj, err := parseObject(line)
			if !yield(obj, err) {
				return
			}
		}
	}
}

func (s *stream) wait() error {
	if s.cmd == nil || s.waited {
		return nil
	}
	s.waited = true
	if err := s.cmd.Wait(); err != nil {
		s.waitErr = goerr.Wrap(fmt.Errorf("%w: %w", ErrStream, err), "dumper exited with error",
			goerr.V("file", s.path),
			goerr.V("stderr", s.stderr.String()))
		return s.waitErr
	}
	return nil
}

// Close reaps the dumper, killing it first when the stream was abandoned.
func (s *stream) Close() error {
	if s.closer != nil {
		_ = s.closer.Close()
	}
	if s.cmd == nil || s.waited {
		return nil
	}
	if !s.drained {
		_ = s.cmd.Process.Kill()
		s.waited = true
		_ = s.cmd.Wait()
		return nil
	}
	return s.wait()
}

// --- wire types ---

type wireHeader struct {
	Version *string `json:"version"`
}

type wireObject struct {
	PathID *int64          `json:"path_id"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
}

type wireImage struct {
	Encoded []byte `json:"encoded"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	RGBA    []byte `json:"rgba"`
}

type wirePayload struct {
	Text  *string `json:"text"`
	Bytes []byte  `json:"bytes"`
}

type wireSample struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

type wireData struct {
	Name          string          `json:"name"`
	Image         *wireImage      `json:"image"`
	Samples       []wireSample    `json:"samples"`
	OBJ           string          `json:"obj"`
	ExportError   string          `json:"export_error"`
	Script        *wirePayload    `json:"script"`
	FontData      []byte          `json:"font_data"`
	TypeTree      json.RawMessage `json:"typetree"`
	TypeTreeError string          `json:"typetree_error"`
}

func parseObject(line []byte) (Object, error) {
	var w wireObject
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, goerr.Wrap(err, "malformed object line", goerr.V("line", truncate(line, 120)))
	}
	if w.PathID == nil || w.Type == "" {
		return nil, goerr.New("object line missing path_id or type", goerr.V("line", truncate(line, 120)))
	}
	data := w.Data
	kind := KindOf(w.Type)
	return NewObject(*w.PathID, w.Type, func() (Asset, error) {
		return decodeData(kind, w.Type, data)
	}), nil
}

func decodeData(kind Kind, typeName string, raw json.RawMessage) (Asset, error) {
	if kind == KindOther {
		return nil, goerr.New("unsupported object type", goerr.V("type", typeName))
	}
	var d wireData
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode object data", goerr.V("type", typeName))
		}
	}
	switch kind {
	case KindTexture:
		return &Texture{Name: d.Name, Image: d.Image.toImage()}, nil
	case KindSprite:
		return &Sprite{Name: d.Name, Image: d.Image.toImage()}, nil
	case KindAudio:
		clip := &AudioClip{Name: d.Name}
		for _, s := range d.Samples {
			clip.Samples = append(clip.Samples, Sample(s))
		}
		return clip, nil
	case KindMesh:
		return &Mesh{Name: d.Name, OBJ: d.OBJ, ExportError: d.ExportError}, nil
	case KindText:
		return &TextAsset{Name: d.Name, Script: d.Script.toPayload()}, nil
	case KindFont:
		return &Font{Name: d.Name, Data: d.FontData}, nil
	case KindScript:
		return &Script{
			Name:          d.Name,
			Source:        d.Script.toPayload(),
			TypeTree:      TypeTree(d.TypeTree),
			TypeTreeError: d.TypeTreeError,
		}, nil
	case KindMaterial:
		return &Material{Name: d.Name, TypeTree: TypeTree(d.TypeTree), TypeTreeError: d.TypeTreeError}, nil
	}
	return nil, goerr.New("unsupported object type", goerr.V("type", typeName))
}

func (w *wireImage) toImage() *ImageData {
	if w == nil {
		return nil
	}
	return &ImageData{Encoded: w.Encoded, Width: w.Width, Height: w.Height, RGBA: w.RGBA}
}

func (w *wirePayload) toPayload() Payload {
	if w == nil {
		return Payload{}
	}
	if w.Text != nil {
		return Payload{IsText: true, Text: *w.Text}
	}
	return Payload{Bytes: w.Bytes}
}

// --- helpers ---

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return strings.TrimSpace(string(t.buf)) }

func exitText(err error) string {
	if err == nil {
		return "0"
	}
	return err.Error()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
