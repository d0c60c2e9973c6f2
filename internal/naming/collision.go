package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver tracks output paths claimed by owners (object ids, input
// files) and resolves duplicates. One resolver covers one extraction pass or
// one batch. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // output path → owner that claimed it
	counters map[string]int    // requested path → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final output file path for owner. If requested is
// unclaimed (or already owned by owner) it is returned as-is; otherwise a
// "_dupN" variant is generated before the extension.
func (cr *CollisionResolver) Resolve(owner, requested string) string {
	return cr.ResolveTagged(owner, requested, "")
}

// ResolveTagged is Resolve with a preferred disambiguator: on collision
// "<stem>_<tag><ext>" is tried first, then "_dupN" variants.
func (cr *CollisionResolver) ResolveTagged(owner, requested, tag string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.claim(owner, requested) {
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if tag != "" {
		candidate := filepath.Join(dir, stem+"_"+tag+ext)
		if cr.claim(owner, candidate) {
			return candidate
		}
	}
	return cr.dup(owner, requested, func(n int) string {
		return filepath.Join(dir, fmt.Sprintf("%s_dup%d%s", stem, n, ext))
	})
}

// ResolveDir resolves a directory path; the whole base name is the stem.
func (cr *CollisionResolver) ResolveDir(owner, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.claim(owner, requested) {
		return requested
	}
	return cr.dup(owner, requested, func(n int) string {
		return fmt.Sprintf("%s_dup%d", requested, n)
	})
}

// Claimed reports how many distinct paths have been claimed.
func (cr *CollisionResolver) Claimed() int {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return len(cr.owners)
}

func (cr *CollisionResolver) claim(owner, path string) bool {
	cur, exists := cr.owners[path]
	if !exists || cur == owner {
		cr.owners[path] = owner
		return true
	}
	return false
}

func (cr *CollisionResolver) dup(owner, requested string, variant func(int) string) string {
	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := variant(counter)
		if cr.claim(owner, candidate) {
			cr.counters[requested] = counter + 1
			return candidate
		}
		counter++
	}
}
