package container

import (
	"context"
	"iter"
	"sync"
)

// Object is one entry of a container's object table. Decode is lazy and
// memoized: the payload is materialized at most once per Object.
type Object interface {
	PathID() int64
	TypeName() string
	Kind() Kind
	Decode() (Asset, error)
}

// Container is an opened asset container. Objects yields entries in the
// parser's native order; a non-nil error marks a single entry that could not
// be read and iteration may continue past it. Objects is single-use.
// Close must be called on every path.
type Container interface {
	Version() string
	Objects() iter.Seq2[Object, error]
	Close() error
}

// Opener opens a container file.
type Opener interface {
	Open(ctx context.Context, path string) (Container, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, path string) (Container, error)

func (f OpenerFunc) Open(ctx context.Context, path string) (Container, error) {
	return f(ctx, path)
}

type lazyObject struct {
	pathID   int64
	typeName string
	kind     Kind
	decode   func() (Asset, error)
}

// NewObject returns an Object whose decode function runs on the first call to
// Decode only.
func NewObject(pathID int64, typeName string, decode func() (Asset, error)) Object {
	return &lazyObject{
		pathID:   pathID,
		typeName: typeName,
		kind:     KindOf(typeName),
		decode:   sync.OnceValues(decode),
	}
}

func (o *lazyObject) PathID() int64          { return o.pathID }
func (o *lazyObject) TypeName() string       { return o.typeName }
func (o *lazyObject) Kind() Kind             { return o.kind }
func (o *lazyObject) Decode() (Asset, error) { return o.decode() }

// Entry is one slot of a Memory container: an object or a read error.
type Entry struct {
	Object Object
	Err    error
}

// Memory is an in-process Container over a fixed entry list.
type Memory struct {
	EngineVersion string
	Entries       []Entry
	Closed        bool
}

func (m *Memory) Version() string { return m.EngineVersion }

func (m *Memory) Objects() iter.Seq2[Object, error] {
	return func(yield func(Object, error) bool) {
		for _, e := range m.Entries {
			if !yield(e.Object, e.Err) {
				return
			}
		}
	}
}

func (m *Memory) Close() error {
	m.Closed = true
	return nil
}
