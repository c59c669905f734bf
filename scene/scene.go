// Package scene defines the Geometry node and Scene tree produced by
// evaluation: a declared -> evaluating -> built -> exported state machine
// over named, transformed, materialized geometry (spec.md §4.7, §3).
package scene

import (
	"fmt"
	"math"
	"sync"

	"github.com/shapescript/shapescript/geomcache"
	"github.com/shapescript/shapescript/source"
	"github.com/shapescript/shapescript/value"
)

// State is a Geometry node's position in its materialization lifecycle.
type State uint8

const (
	Declared State = iota
	Evaluating
	Built
	Exported
)

func (s State) String() string {
	switch s {
	case Declared:
		return "declared"
	case Evaluating:
		return "evaluating"
	case Built:
		return "built"
	case Exported:
		return "exported"
	default:
		return "unknown"
	}
}

// Transform is an affine transform: translation, rotation (degrees about
// roll/yaw/pitch), and scale, composed as a 4x4 matrix (spec.md §4.7).
type Transform struct {
	Translate [3]float64
	Rotate    [3]float64
	Scale     [3]float64
}

// Identity is the neutral transform.
func Identity() Transform {
	return Transform{Scale: [3]float64{1, 1, 1}}
}

// Matrix4 returns t's affine matrix, stored row-major, composed as
// translate * rotate * scale applied to a column vector.
func (t Transform) Matrix4() [16]float64 {
	rx, ry, rz := degToRad(t.Rotate[0]), degToRad(t.Rotate[1]), degToRad(t.Rotate[2])
	cr, sr := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)
	cp, sp := math.Cos(rz), math.Sin(rz)

	// Rotation = Rz(pitch) * Ry(yaw) * Rx(roll), scaled then translated.
	r00 := cy * cp
	r01 := sr*sy*cp - cr*sp
	r02 := cr*sy*cp + sr*sp
	r10 := cy * sp
	r11 := sr*sy*sp + cr*cp
	r12 := cr*sy*sp - sr*cp
	r20 := -sy
	r21 := sr * cy
	r22 := cr * cy

	sx, sY, sz := t.Scale[0], t.Scale[1], t.Scale[2]
	return [16]float64{
		r00 * sx, r01 * sY, r02 * sz, t.Translate[0],
		r10 * sx, r11 * sY, r12 * sz, t.Translate[1],
		r20 * sx, r21 * sY, r22 * sz, t.Translate[2],
		0, 0, 0, 1,
	}
}

// Compose returns child applied after parent: parent's transform composed
// with child's, matching spec.md §3's invariant "Every Geometry node's
// world transform is the product of ancestor transforms composed with its
// local transform."
func Compose(parent, child [16]float64) [16]float64 {
	var out [16]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += parent[row*4+k] * child[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// Material is the current color/texture/opacity/font state that primitives
// inherit from their enclosing scope (spec.md §4.7).
type Material struct {
	Color   value.Value // a color value, or unset to inherit the default
	Texture string
	Opacity float64
	Font    string
}

// DefaultMaterial is white, fully opaque, with the system default font.
func DefaultMaterial() Material {
	return Material{Color: value.Color(1, 1, 1, 1), Opacity: 1}
}

// MeshProducer lazily materializes a Geometry's mesh, consulting the
// geometry cache first. It is supplied by the evaluator, which has access
// to the out-of-core geometry engine; this package only calls it.
type MeshProducer func() (mesh value.Value, polygonCount int, err error)

// Geometry is one node in the scene tree.
type Geometry struct {
	mu sync.Mutex

	ID        string // stable identifier derived from the node's source range
	Kind      string // "cube", "sphere", "union", "group", ...
	Range     source.Range
	Name      string
	Local     Transform
	World     [16]float64
	Material  Material
	Children  []*Geometry
	Parent    *Geometry

	state        State
	fingerprint  geomcache.Fingerprint
	produceMesh  MeshProducer
	mesh         value.Value
	polygonCount int
	buildErr     error
}

// NewGeometry constructs a declared node. World is computed once the node
// is attached to a parent (AttachTo) or, for a root, left as the identity
// composed with Local.
func NewGeometry(kind string, rng source.Range, local Transform, mat Material, produce MeshProducer) *Geometry {
	return &Geometry{
		ID:          stableID(rng),
		Kind:        kind,
		Range:       rng,
		Local:       local,
		World:       local.Matrix4(),
		Material:    mat,
		state:       Declared,
		produceMesh: produce,
	}
}

// stableID derives a stable per-node identifier from its source range, as
// spec.md §4.7 requires ("every geometry node carries a stable identifier
// derived from its source range").
func stableID(rng source.Range) string {
	return fmt.Sprintf("%d:%d", rng.Start, rng.End)
}

// AttachTo appends child to parent's children and recomputes child's
// (and, recursively, its descendants') world transform from parent's,
// maintaining the ancestor-composition invariant.
func AttachTo(parent, child *Geometry) {
	child.Parent = parent
	child.World = Compose(parent.World, child.Local.Matrix4())
	parent.Children = append(parent.Children, child)
	var refresh func(g *Geometry)
	refresh = func(g *Geometry) {
		for _, gc := range g.Children {
			gc.World = Compose(g.World, gc.Local.Matrix4())
			refresh(gc)
		}
	}
	refresh(child)
}

// State returns the node's current lifecycle state.
func (g *Geometry) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Build realizes g's mesh (and recursively its children's), transitioning
// declared -> evaluating -> built. isCancelled is polled before each
// child's build, matching the evaluator's cooperative cancellation
// contract (spec.md §4.7, §5).
func (g *Geometry) Build(isCancelled func() bool) error {
	g.mu.Lock()
	if g.state == Built {
		g.mu.Unlock()
		return g.buildErr
	}
	g.state = Evaluating
	g.mu.Unlock()

	for _, child := range g.Children {
		if isCancelled != nil && isCancelled() {
			return fmt.Errorf("cancelled")
		}
		if err := child.Build(isCancelled); err != nil {
			return err
		}
	}

	if isCancelled != nil && isCancelled() {
		return fmt.Errorf("cancelled")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.produceMesh != nil {
		mesh, polys, err := g.produceMesh()
		g.mesh, g.polygonCount, g.buildErr = mesh, polys, err
	}
	g.state = Built
	return g.buildErr
}

// SetMeshProducer attaches p as g's lazy mesh producer. Used when the
// producing closure itself needs to reference g (e.g. to record its own
// fingerprint), which isn't possible at NewGeometry time.
func (g *Geometry) SetMeshProducer(p MeshProducer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.produceMesh = p
}

// Fingerprint returns the geometry-cache key g's mesh was produced or
// looked up under. Valid only once State() is Built or later.
func (g *Geometry) Fingerprint() geomcache.Fingerprint {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fingerprint
}

// SetFingerprint records the geometry-cache key for g's mesh, called by
// the evaluator's mesh producer once it has computed the key (spec.md
// §4.7: "every geometry node carries a stable identifier"; the
// fingerprint plays the analogous role for cache lookups by ancestors,
// e.g. a CSG parent mixing in its children's fingerprints).
func (g *Geometry) SetFingerprint(fp geomcache.Fingerprint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fingerprint = fp
}

// PolygonCount returns the built mesh's polygon count. Valid only once
// State() is Built or later.
func (g *Geometry) PolygonCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.polygonCount
}

// Mesh returns the built mesh value. Valid only once State() == Built.
func (g *Geometry) Mesh() value.Value {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mesh
}

// MarkExported transitions a built node to exported.
func (g *Geometry) MarkExported() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Built {
		g.state = Exported
	}
}

// Scene is the root container for a compiled program's geometry tree.
type Scene struct {
	Root       *Geometry
	Background value.Value
}

// Build forces mesh realization across the whole tree, returning false (and
// no error) if cancelled partway through, per spec.md §6's
// `Scene.build(isCancelled) -> bool`.
func (s *Scene) Build(isCancelled func() bool) (bool, error) {
	if s.Root == nil {
		return true, nil
	}
	err := s.Root.Build(isCancelled)
	if err != nil {
		if err.Error() == "cancelled" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
