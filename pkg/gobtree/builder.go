package gobtree

import (
	"fmt"

	"github.com/ssargent/gobtree/pkg/stats"
)

const (
	defaultDegree       = 100
	defaultKeySizeBytes = 100
	defaultCacheSize    = 100
)

// Builder assembles a BTree from validated configuration. It is the
// primary, fluent way to open a tree; FileConfig layers an optional
// YAML-backed declarative form on top of the same validated fields.
type Builder[T any] struct {
	path         string
	degree       int
	keySizeBytes int
	cacheSize    int
	cmp          Comparator[T]
	codec        Codec[T]
	stats        stats.Recorder
}

// NewBuilder starts a Builder with the defaults from spec §6: degree 100,
// keySizeBytes 100, cacheSize 100.
func NewBuilder[T any](cmp Comparator[T], valueCodec Codec[T]) *Builder[T] {
	return &Builder[T]{
		degree:       defaultDegree,
		keySizeBytes: defaultKeySizeBytes,
		cacheSize:    defaultCacheSize,
		cmp:          cmp,
		codec:        valueCodec,
		stats:        stats.NoopRecorder{},
	}
}

// Stats attaches a statistics collaborator. A tree opened without calling
// this records nothing and pays no Prometheus cost (stats.NoopRecorder).
func (b *Builder[T]) Stats(r stats.Recorder) *Builder[T] {
	b.stats = r
	return b
}

// Path sets the base file the tree persists into. Required.
func (b *Builder[T]) Path(path string) *Builder[T] {
	b.path = path
	return b
}

// Degree sets the key count at which a node splits, so a node holds at
// most degree-1 keys. Must be >= 2.
func (b *Builder[T]) Degree(degree int) *Builder[T] {
	b.degree = degree
	return b
}

// KeySizeBytes sets the per-key slot budget used to size a node's fixed
// storage slot (slot size is degree*keySizeBytes). Must be > 0.
func (b *Builder[T]) KeySizeBytes(n int) *Builder[T] {
	b.keySizeBytes = n
	return b
}

// CacheSize bounds how many nodes stay resident in memory at once.
func (b *Builder[T]) CacheSize(n int) *Builder[T] {
	b.cacheSize = n
	return b
}

// Open validates the accumulated configuration and opens (or creates) the
// tree at Path. Misconfiguration is reported as a ConfigError; the tree's
// own degree/keySizeBytes are frozen into its metadata on first creation
// and win over the Builder's values on reopen.
func (b *Builder[T]) Open() (*BTree[T], error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return openBTree(b.path, b.degree, b.keySizeBytes, b.cacheSize, b.cmp, b.codec, b.stats)
}

func (b *Builder[T]) validate() error {
	if b.path == "" {
		return newError(ConfigError, "build tree", fmt.Errorf("Path is required"))
	}
	if b.degree < 2 {
		return newError(ConfigError, "build tree", fmt.Errorf("Degree must be >= 2, got %d", b.degree))
	}
	if b.keySizeBytes <= 0 {
		return newError(ConfigError, "build tree", fmt.Errorf("KeySizeBytes must be > 0, got %d", b.keySizeBytes))
	}
	if b.cacheSize < 0 {
		return newError(ConfigError, "build tree", fmt.Errorf("CacheSize must be >= 0, got %d", b.cacheSize))
	}
	if b.cmp == nil {
		return newError(ConfigError, "build tree", fmt.Errorf("Comparator is required"))
	}
	if b.codec == nil {
		return newError(ConfigError, "build tree", fmt.Errorf("Codec is required"))
	}
	return nil
}
