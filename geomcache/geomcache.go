// Package geomcache memoizes expensive mesh results (CSG and builder
// operations) keyed by a 128-bit fingerprint of their normalized inputs
// (spec.md §4.8), on top of the generic lru.Cache primitive.
package geomcache

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/shapescript/shapescript/lru"
)

// defaultCostLimit approximates "1 GB equivalent" in polygon-count cost
// units (spec.md §4.8's default), treating one unit of cost as one
// produced polygon.
const defaultCostLimit = 1 << 30

// Fingerprint is a 128-bit stable hash of a mesh-producing operation's
// normalized inputs.
type Fingerprint [16]byte

// Cache memoizes mesh-shaped payloads by Fingerprint. The payload type is
// left to the caller (the evaluator supplies its own mesh value type) to
// avoid a dependency from this package back onto the value/scene packages.
type Cache[V any] struct {
	inner *lru.Cache[Fingerprint, V]
}

// New creates a Cache with the spec's default bounds: unbounded count,
// ~1 GB-equivalent cost.
func New[V any]() *Cache[V] {
	return &Cache[V]{inner: lru.New[Fingerprint, V](0, defaultCostLimit)}
}

// NewWithLimits creates a Cache with caller-supplied bounds.
func NewWithLimits[V any](countLimit int, costLimit int64) *Cache[V] {
	return &Cache[V]{inner: lru.New[Fingerprint, V](countLimit, costLimit)}
}

// Get retrieves a memoized mesh for key, if present.
func (c *Cache[V]) Get(key Fingerprint) (V, bool) { return c.inner.Get(key) }

// Put stores a produced mesh under key, costed by its polygon count.
// A cost of 0 or less is raised to 1 (spec.md §4.8's "fallback to 1 when
// unknown").
func (c *Cache[V]) Put(key Fingerprint, mesh V, polygonCount int) {
	cost := int64(polygonCount)
	if cost <= 0 {
		cost = 1
	}
	c.inner.Put(key, mesh, cost)
}

// Clear empties the cache: used both when a document closes and in
// response to a global memory-pressure signal (spec.md §4.8).
func (c *Cache[V]) Clear() { c.inner.Clear() }

func (c *Cache[V]) Len() int    { return c.inner.Len() }
func (c *Cache[V]) Cost() int64 { return c.inner.Cost() }

// KeyBuilder accumulates the normalized inputs to a mesh-producing
// operation (operation kind, transform-free parameters, child
// fingerprints, detail, smoothing) in a stable order and reduces them to a
// single Fingerprint (spec.md §4.7's key: "(type, transform-free
// parameters, children fingerprints, detail, smoothing)").
type KeyBuilder struct {
	parts [][]byte
}

func (k *KeyBuilder) WriteString(s string) *KeyBuilder {
	k.parts = append(k.parts, []byte(s))
	return k
}

func (k *KeyBuilder) WriteFloat(f float64) *KeyBuilder {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	k.parts = append(k.parts, buf[:])
	return k
}

func (k *KeyBuilder) WriteInt(i int64) *KeyBuilder {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	k.parts = append(k.parts, buf[:])
	return k
}

func (k *KeyBuilder) WriteChild(fp Fingerprint) *KeyBuilder {
	k.parts = append(k.parts, fp[:])
	return k
}

// WriteChildrenUnordered mixes in a set of child fingerprints in a
// canonical (sorted) order, for commutative operators (union, xor) where
// child order should not affect the cache key.
func (k *KeyBuilder) WriteChildrenUnordered(fps []Fingerprint) *KeyBuilder {
	sorted := append([]Fingerprint(nil), fps...)
	sort.Slice(sorted, func(i, j int) bool {
		for b := 0; b < 16; b++ {
			if sorted[i][b] != sorted[j][b] {
				return sorted[i][b] < sorted[j][b]
			}
		}
		return false
	})
	for _, fp := range sorted {
		k.WriteChild(fp)
	}
	return k
}

// Build reduces the accumulated parts to a 128-bit Fingerprint using two
// independent xxhash passes (a zero-allocation, high-throughput non-
// cryptographic hash, appropriate for a cache key rather than a security
// boundary).
func (k *KeyBuilder) Build() Fingerprint {
	var buf []byte
	for _, p := range k.parts {
		buf = append(buf, p...)
	}
	h1 := xxhash.Sum64(buf)
	h2 := xxhash.Sum64(append(buf, 0x01))

	var fp Fingerprint
	binary.LittleEndian.PutUint64(fp[0:8], h1)
	binary.LittleEndian.PutUint64(fp[8:16], h2)
	return fp
}
