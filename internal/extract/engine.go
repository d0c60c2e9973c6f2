// Package extract runs one extraction pass over a container: it iterates the
// container's objects, dispatches each recognized kind to its extractor, and
// counts the results.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strconv"

	"github.com/m-mizutani/goerr/v2"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/naming"
)

// Logger is the subset of logging.Logger the engine uses.
type Logger interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Debug(format string, args ...any)
}

// Options selects which kinds are extracted. Disabled kinds are counted as
// other.
type Options struct {
	Textures  bool
	Sprites   bool
	Audio     bool
	Meshes    bool
	Texts     bool
	Fonts     bool
	Scripts   bool
	Materials bool

	// MaxTextureSize bounds the longer edge of written textures and
	// sprites. 0 keeps the original size.
	MaxTextureSize int
}

// DefaultOptions enables every kind.
func DefaultOptions() Options {
	return Options{
		Textures:  true,
		Sprites:   true,
		Audio:     true,
		Meshes:    true,
		Texts:     true,
		Fonts:     true,
		Scripts:   true,
		Materials: true,
	}
}

// Enabled reports whether k is extracted under o.
func (o Options) Enabled(k container.Kind) bool {
	switch k {
	case container.KindTexture:
		return o.Textures
	case container.KindSprite:
		return o.Sprites
	case container.KindAudio:
		return o.Audio
	case container.KindMesh:
		return o.Meshes
	case container.KindText:
		return o.Texts
	case container.KindFont:
		return o.Fonts
	case container.KindScript:
		return o.Scripts
	case container.KindMaterial:
		return o.Materials
	}
	return false
}

// Result summarizes one pass.
type Result struct {
	Stats        KindStats
	Objects      int
	Errors       int // objects that failed to read, decode or write
	Warnings     int // objects skipped with a warning
	BytesWritten int64
	Version      string
}

// Engine extracts containers opened through an Opener.
type Engine struct {
	opener container.Opener
	opts   Options
	log    Logger
}

// NewEngine returns an Engine. opts is copied.
func NewEngine(opener container.Opener, opts Options, log Logger) *Engine {
	return &Engine{opener: opener, opts: opts, log: log}
}

// Extract runs one pass over file, writing into outDir/<kind>/. An open
// failure is logged and returned; nothing is written in that case. If ctx
// is cancelled the pass stops between objects and the partial result is
// returned with ctx.Err().
func (e *Engine) Extract(ctx context.Context, file, outDir string) (Result, error) {
	var res Result

	c, err := e.opener.Open(ctx, file)
	if err != nil {
		e.log.Error("Failed to load %s: %v", file, err)
		return res, goerr.Wrap(err, "failed to open container", goerr.V("file", file))
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			e.log.Warn("Closing %s: %v", filepath.Base(file), cerr)
		}
	}()
	res.Version = c.Version()

	p := &pass{
		file:     file,
		opts:     e.opts,
		log:      e.log,
		out:      newKindWriter(outDir),
		resolver: naming.NewCollisionResolver(),
	}

	for obj, err := range c.Objects() {
		if ctx.Err() != nil {
			res.BytesWritten = p.out.written
			return res, ctx.Err()
		}
		if errors.Is(err, container.ErrStream) {
			res.Errors++
			e.log.Error("  ! %s: %v", filepath.Base(file), err)
			continue
		}
		res.Objects++
		if err != nil {
			res.Errors++
			e.log.Error("  ! %s: error reading object: %v", filepath.Base(file), err)
			continue
		}
		p.handle(obj, &res)
	}

	res.BytesWritten = p.out.written
	e.log.Debug("Stats: %s", res.Stats)
	return res, nil
}

// pass holds the state of one Extract call.
type pass struct {
	file     string
	opts     Options
	log      Logger
	out      *kindWriter
	resolver *naming.CollisionResolver
	warnings int
}

// extractor writes the outputs of one decoded object and returns how many
// files it produced.
type extractor func(p *pass, obj container.Object, a container.Asset) (int, error)

var extractors = map[container.Kind]extractor{
	container.KindTexture:  extractTexture,
	container.KindSprite:   extractSprite,
	container.KindAudio:    extractAudio,
	container.KindMesh:     extractMesh,
	container.KindText:     extractText,
	container.KindFont:     extractFont,
	container.KindScript:   extractScript,
	container.KindMaterial: extractMaterial,
}

func (p *pass) handle(obj container.Object, res *Result) {
	kind := obj.Kind()
	fn, ok := extractors[kind]
	if !ok || !p.opts.Enabled(kind) {
		res.Stats.Add(container.KindOther, 1)
		return
	}

	before := p.warnings
	n, err := p.run(fn, obj)
	res.Warnings += p.warnings - before
	if err != nil {
		res.Errors++
		p.log.Error("  ! %s: error handling %s %d: %v", filepath.Base(p.file), kind.Key(), obj.PathID(), err)
	}
	res.Stats.Add(kind, n)
}

// run decodes obj and calls fn, turning panics into errors.
func (p *pass) run(fn extractor, obj container.Object) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Debug("%s", debug.Stack())
			n, err = 0, fmt.Errorf("panic: %v", r)
		}
	}()

	a, err := obj.Decode()
	if err != nil {
		return 0, err
	}
	if a == nil || a.Kind() != obj.Kind() {
		return 0, goerr.New("decoded payload does not match object kind",
			goerr.V("type", obj.TypeName()))
	}
	return fn(p, obj, a)
}

func (p *pass) warn(format string, args ...any) {
	p.warnings++
	p.log.Warn(format, args...)
}

// save claims a path for owner inside the kind directory and writes data.
// tag disambiguates when another object already claimed the name.
func (p *pass) save(kind container.Kind, owner, filename, tag string, data []byte) (string, error) {
	path := p.resolver.ResolveTagged(owner, filepath.Join(p.out.dir(kind), filename), tag)
	if err := p.out.write(kind, path, data); err != nil {
		return "", err
	}
	return path, nil
}

func idString(id int64) string { return strconv.FormatInt(id, 10) }
