package eval

import (
	"github.com/shapescript/shapescript/scene"
	"github.com/shapescript/shapescript/value"
)

// Delegate is the embedding host's interface for import resolution and
// debug logging, consumed only by the evaluator (spec.md §4.7 "Imports",
// §6 "Delegate interface").
type Delegate interface {
	// ResolveURL resolves a relative import path to an absolute URL (or
	// equivalent opaque resource identifier) the host understands.
	ResolveURL(path string) (string, error)
	// ImportGeometry fetches a pre-built geometry node for url, or
	// (nil, nil) if the host has no pre-built geometry and the caller
	// should instead fetch and re-parse shape source text via
	// ImportSource.
	ImportGeometry(url string) (*scene.Geometry, error)
	// ImportSource fetches raw ShapeScript source text for url, to be
	// re-entered at the parser.
	ImportSource(url string) (string, error)
	// DebugLog receives heterogeneous values for printing (`print`,
	// `debug`).
	DebugLog(values []value.Value)
}

// GeometryEngine is the out-of-core mesh/CSG math library (spec.md §1
// "Out of scope ... referenced only by interface"): it materializes
// primitives, applies builders, and performs CSG set operations on
// polygon meshes. The evaluator never manipulates polygons directly; it
// only calls through this interface and caches the result.
type GeometryEngine interface {
	// BuildPrimitive materializes a shape/path primitive (cube, sphere,
	// path, text, ...) from its evaluated, transform-free parameters and
	// the scope's current detail/smoothing, returning the produced mesh
	// (or path) value and its polygon count.
	BuildPrimitive(kind string, params value.Value, detail, smoothing int) (value.Value, int, error)
	// BuildBuilder applies a builder operation (fill, lathe, extrude,
	// loft, hull, minkowski) to the meshes/paths produced by a block's
	// children.
	BuildBuilder(kind string, children []value.Value, params value.Value) (value.Value, int, error)
	// BuildCSG applies a named set operation to a sequence of child
	// meshes.
	BuildCSG(op string, children []value.Value) (value.Value, int, error)
}
