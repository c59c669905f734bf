package eval

import (
	"fmt"

	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/geomcache"
	"github.com/shapescript/shapescript/scene"
	"github.com/shapescript/shapescript/source"
	"github.com/shapescript/shapescript/stdlib"
	"github.com/shapescript/shapescript/value"
)

var primitiveNames = map[string]bool{
	"cube": true, "sphere": true, "cone": true, "cylinder": true,
	"circle": true, "square": true, "roundrect": true, "polygon": true,
	"path": true, "point": true, "curve": true, "text": true, "mesh": true,
}

var builderNames = map[string]bool{
	"fill": true, "lathe": true, "extrude": true, "loft": true,
	"hull": true, "minkowski": true,
}

var csgNames = map[string]bool{
	"union": true, "difference": true, "intersection": true,
	"xor": true, "stencil": true,
}

var structureNames = map[string]bool{
	"group": true, "object": true, "light": true, "camera": true,
}

var mutatorNames = map[string]bool{
	"color": true, "colour": true, "texture": true, "opacity": true,
	"font": true, "detail": true, "smoothing": true,
	"position": true, "orientation": true, "size": true,
	"translate": true, "rotate": true, "scale": true,
	"background": true, "seed": true,
	"print": true, "debug": true, "assert": true,
}

// evalCommand dispatches one command statement: a user block invocation, a
// scope mutator, or a shape/builder/CSG/structure node, per spec.md §4.5's
// four call conventions. Geometry the command produces is appended to acc.
func evalCommand(c *ast.CommandStmt, sc *Scope, acc *[]*scene.Geometry) error {
	if b, ok := sc.blocks.lookup(c.Name); ok {
		return invokeBlockAsGeometry(b, c.Args, c.Body, sc, c.Range, acc)
	}
	switch {
	case mutatorNames[c.Name]:
		args, err := evalArgs(c.Args, sc)
		if err != nil {
			return err
		}
		return evalMutator(c.Name, args, sc, c.Range)
	case primitiveNames[c.Name]:
		return buildPrimitiveGeometry(c, sc, acc)
	case builderNames[c.Name]:
		return buildBuilderGeometry(c, sc, acc)
	case csgNames[c.Name]:
		return buildCSGGeometry(c, sc, acc)
	case structureNames[c.Name]:
		return buildStructureGeometry(c, sc, acc)
	default:
		if sym, ok := sc.Lookup(c.Name); ok && sym.Kind == stdlib.Function {
			args, err := evalArgs(c.Args, sc)
			if err != nil {
				return err
			}
			_, err = sym.Func(args)
			if err != nil {
				return errs.Newf(errs.TypeMismatch, c.Range, "%v", err)
			}
			return nil
		}
		return errs.Newf(errs.UnknownSymbol, c.Range, "unknown command %q", c.Name)
	}
}

func evalArgs(exprs []ast.Expr, sc *Scope) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, e := range exprs {
		v, err := evalExpr(e, sc)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalMutator applies a command that mutates the current scope's ambient
// state (transform, material, detail/smoothing, seed, background) rather
// than producing geometry (spec.md §4.5's Command convention).
func evalMutator(name string, args []value.Value, sc *Scope, rng source.Range) error {
	switch name {
	case "color", "colour":
		c, err := colorFromArgs(args)
		if err != nil {
			return errs.Newf(errs.TypeMismatch, rng, "%v", err)
		}
		sc.material.Color = c
	case "texture":
		if len(args) > 0 {
			sc.material.Texture = args[0].String()
		} else {
			sc.material.Texture = ""
		}
	case "opacity":
		sc.material.Opacity = args[0].Number()
	case "font":
		sc.material.Font = args[0].String()
	case "detail":
		sc.detail = int(args[0].Number())
	case "smoothing":
		sc.smoothing = int(args[0].Number())
	case "position":
		x, y, z := vec3FromArgs(args)
		sc.transform.Translate = [3]float64{x, y, z}
	case "translate":
		x, y, z := vec3FromArgs(args)
		sc.transform.Translate[0] += x
		sc.transform.Translate[1] += y
		sc.transform.Translate[2] += z
	case "orientation":
		x, y, z := vec3FromArgs(args)
		sc.transform.Rotate = [3]float64{x, y, z}
	case "rotate":
		x, y, z := vec3FromArgs(args)
		sc.transform.Rotate[0] += x
		sc.transform.Rotate[1] += y
		sc.transform.Rotate[2] += z
	case "size":
		x, y, z := vec3FromArgs(args)
		sc.transform.Scale = [3]float64{x, y, z}
	case "scale":
		x, y, z := vec3FromArgs(args)
		sc.transform.Scale[0] *= x
		sc.transform.Scale[1] *= y
		sc.transform.Scale[2] *= z
	case "background":
		c, err := colorFromArgs(args)
		if err != nil {
			return errs.Newf(errs.TypeMismatch, rng, "%v", err)
		}
		sc.background = c
	case "seed":
		if len(args) > 0 {
			sc.reseed(args[0].Number())
		}
	case "print", "debug":
		if sc.shared.delegate != nil {
			sc.shared.delegate.DebugLog(args)
		}
	case "assert":
		if len(args) > 0 && !truthy(args[0]) {
			return errs.New(errs.AssertionFailure, rng, "assertion failed")
		}
	default:
		return fmt.Errorf("eval: unhandled mutator %q", name)
	}
	return nil
}

// vec3FromArgs broadcasts a lone scalar to all three axes (`size 2` meaning
// a uniform 2x2x2), accepts a single vector-like value directly, or reads
// up to three positional numbers, repeating the first for any gap.
func vec3FromArgs(args []value.Value) (x, y, z float64) {
	if len(args) == 1 {
		if vx, vy, vz, ok := args[0].AsVectorLike(); ok {
			return vx, vy, vz
		}
		n := args[0].Number()
		return n, n, n
	}
	if len(args) > 0 {
		x = args[0].Number()
	}
	if len(args) > 1 {
		y = args[1].Number()
	} else {
		y = x
	}
	if len(args) > 2 {
		z = args[2].Number()
	} else {
		z = x
	}
	return x, y, z
}

func colorFromArgs(args []value.Value) (value.Value, error) {
	if len(args) == 1 {
		if c, ok := value.Coerce(args[0], value.KindColor); ok {
			return c, nil
		}
		return value.Value{}, fmt.Errorf("cannot coerce a %s to a color", args[0].Kind())
	}
	switch len(args) {
	case 3:
		return value.Color(args[0].Number(), args[1].Number(), args[2].Number(), 1), nil
	case 4:
		return value.Color(args[0].Number(), args[1].Number(), args[2].Number(), args[3].Number()), nil
	default:
		return value.Value{}, fmt.Errorf("color requires 1, 3, or 4 arguments")
	}
}

// isPathContainer reports whether name's body, if any, builds a point
// sequence (via nested point/curve commands) rather than geometry children.
func isPathContainer(name string) bool { return name == "path" }

// buildPrimitiveGeometry evaluates a shape command (spec.md §4.5's Shapes
// group), deferring actual mesh construction to a lazy MeshProducer that
// consults the geometry cache before calling into the external engine.
func buildPrimitiveGeometry(c *ast.CommandStmt, sc *Scope, acc *[]*scene.Geometry) error {
	args, err := evalArgs(c.Args, sc)
	if err != nil {
		return err
	}

	if (c.Name == "point" || c.Name == "curve") && sc.pointSink != nil {
		return appendPoint(sc, args, c.Name == "curve")
	}

	params := value.Tuple(args...)
	var bodyChildren []*scene.Geometry
	if c.Body != nil {
		child := sc.Child()
		if isPathContainer(c.Name) {
			var points []value.Value
			child.pointSink = &points
			if _, err := evalBlockStatements(c.Body.Statements, child); err != nil {
				return err
			}
			params = value.Tuple(append(append([]value.Value{}, args...), value.Tuple(points...))...)
		} else {
			bc, err := evalBlockStatements(c.Body.Statements, child)
			if err != nil {
				return err
			}
			bodyChildren = bc
		}
	}

	name := c.Name
	material := sc.material
	local := sc.transform
	detail, smoothing := sc.detail, sc.smoothing
	engine := sc.shared.engine
	cache := sc.shared.cache

	g := scene.NewGeometry(name, c.Range, local, material, nil)
	g.SetMeshProducer(func() (value.Value, int, error) {
		kb := new(geomcache.KeyBuilder).WriteString(name).WriteInt(int64(detail)).WriteInt(int64(smoothing))
		writeValueKey(kb, params)
		key := kb.Build()
		if mesh, ok := cache.Get(key); ok {
			g.SetFingerprint(key)
			return mesh, polygonCountOf(mesh), nil
		}
		if engine == nil {
			return value.Value{}, 0, fmt.Errorf("no geometry engine configured")
		}
		mesh, polys, err := engine.BuildPrimitive(name, params, detail, smoothing)
		if err != nil {
			return value.Value{}, 0, err
		}
		cache.Put(key, mesh, polys)
		g.SetFingerprint(key)
		return mesh, polys, nil
	})
	for _, bc := range bodyChildren {
		scene.AttachTo(g, bc)
	}
	*acc = append(*acc, g)
	return nil
}

// appendPoint transforms a raw (x,y[,z]) coordinate by the enclosing path's
// current scope transform and appends it to the active point sink, per
// spec.md §4.5's point/curve pair.
func appendPoint(sc *Scope, args []value.Value, curved bool) error {
	var x, y, z float64
	switch len(args) {
	case 1:
		x = args[0].Number()
	case 2:
		x, y = args[0].Number(), args[1].Number()
	default:
		x, y, z = args[0].Number(), args[1].Number(), args[2].Number()
	}
	m := sc.transform.Matrix4()
	fx := m[0]*x + m[1]*y + m[2]*z + m[3]
	fy := m[4]*x + m[5]*y + m[6]*z + m[7]
	fz := m[8]*x + m[9]*y + m[10]*z + m[11]
	pt := value.Opaque(value.KindPoint, map[string]any{
		"position": value.Vector(fx, fy, fz),
		"isCurved": value.Bool(curved),
	})
	*sc.pointSink = append(*sc.pointSink, pt)
	return nil
}

// buildBuilderGeometry evaluates a builder command (spec.md §4.5's
// Builders group): its body's children (paths/meshes) are built first,
// then fed to the external engine's BuildBuilder.
func buildBuilderGeometry(c *ast.CommandStmt, sc *Scope, acc *[]*scene.Geometry) error {
	args, err := evalArgs(c.Args, sc)
	if err != nil {
		return err
	}
	var bodyChildren []*scene.Geometry
	if c.Body != nil {
		child := sc.Child()
		bc, err := evalBlockStatements(c.Body.Statements, child)
		if err != nil {
			return err
		}
		bodyChildren = bc
	}

	name := c.Name
	material := sc.material
	local := sc.transform
	params := value.Tuple(args...)
	engine := sc.shared.engine
	cache := sc.shared.cache
	isCancelled := sc.shared.isCancelled

	g := scene.NewGeometry(name, c.Range, local, material, nil)
	g.SetMeshProducer(func() (value.Value, int, error) {
		if err := forceBuildAll(bodyChildren, isCancelled); err != nil {
			return value.Value{}, 0, err
		}
		kb := new(geomcache.KeyBuilder).WriteString(name)
		writeValueKey(kb, params)
		meshes := make([]value.Value, len(bodyChildren))
		for i, bc := range bodyChildren {
			meshes[i] = bc.Mesh()
			kb.WriteChild(bc.Fingerprint())
		}
		key := kb.Build()
		if mesh, ok := cache.Get(key); ok {
			g.SetFingerprint(key)
			return mesh, polygonCountOf(mesh), nil
		}
		if engine == nil {
			return value.Value{}, 0, fmt.Errorf("no geometry engine configured")
		}
		mesh, polys, err := engine.BuildBuilder(name, meshes, params)
		if err != nil {
			return value.Value{}, 0, err
		}
		cache.Put(key, mesh, polys)
		g.SetFingerprint(key)
		return mesh, polys, nil
	})
	for _, bc := range bodyChildren {
		scene.AttachTo(g, bc)
	}
	*acc = append(*acc, g)
	return nil
}

// buildCSGGeometry evaluates a CSG command (spec.md §4.5's CSG group).
// Material inherits from the first child, except stencil which inherits
// from its second child (spec.md §4.7's CSG material-inheritance rule).
func buildCSGGeometry(c *ast.CommandStmt, sc *Scope, acc *[]*scene.Geometry) error {
	var bodyChildren []*scene.Geometry
	if c.Body != nil {
		child := sc.Child()
		bc, err := evalBlockStatements(c.Body.Statements, child)
		if err != nil {
			return err
		}
		bodyChildren = bc
	}
	if len(bodyChildren) == 0 {
		return errs.Newf(errs.TypeMismatch, c.Range, "%q requires at least one child geometry", c.Name)
	}

	name := c.Name
	material := bodyChildren[0].Material
	if name == "stencil" && len(bodyChildren) > 1 {
		material = bodyChildren[1].Material
	}
	local := sc.transform
	engine := sc.shared.engine
	cache := sc.shared.cache
	isCancelled := sc.shared.isCancelled

	g := scene.NewGeometry(name, c.Range, local, material, nil)
	g.SetMeshProducer(func() (value.Value, int, error) {
		if err := forceBuildAll(bodyChildren, isCancelled); err != nil {
			return value.Value{}, 0, err
		}
		meshes := make([]value.Value, len(bodyChildren))
		fps := make([]geomcache.Fingerprint, len(bodyChildren))
		for i, bc := range bodyChildren {
			meshes[i] = bc.Mesh()
			fps[i] = bc.Fingerprint()
		}
		kb := new(geomcache.KeyBuilder).WriteString(name)
		if name == "union" || name == "xor" {
			kb.WriteChildrenUnordered(fps)
		} else {
			for _, fp := range fps {
				kb.WriteChild(fp)
			}
		}
		key := kb.Build()
		if mesh, ok := cache.Get(key); ok {
			g.SetFingerprint(key)
			return mesh, polygonCountOf(mesh), nil
		}
		if engine == nil {
			return value.Value{}, 0, fmt.Errorf("no geometry engine configured")
		}
		mesh, polys, err := engine.BuildCSG(name, meshes)
		if err != nil {
			return value.Value{}, 0, err
		}
		cache.Put(key, mesh, polys)
		g.SetFingerprint(key)
		return mesh, polys, nil
	})
	for _, bc := range bodyChildren {
		scene.AttachTo(g, bc)
	}
	*acc = append(*acc, g)
	return nil
}

// buildStructureGeometry evaluates a non-mesh-producing structural node
// (group/object/light/camera): it only wraps its body's children.
func buildStructureGeometry(c *ast.CommandStmt, sc *Scope, acc *[]*scene.Geometry) error {
	var bodyChildren []*scene.Geometry
	if c.Body != nil {
		child := sc.Child()
		bc, err := evalBlockStatements(c.Body.Statements, child)
		if err != nil {
			return err
		}
		bodyChildren = bc
	}
	g := scene.NewGeometry(c.Name, c.Range, sc.transform, sc.material, nil)
	for _, bc := range bodyChildren {
		scene.AttachTo(g, bc)
	}
	*acc = append(*acc, g)
	return nil
}

func forceBuildAll(children []*scene.Geometry, isCancelled func() bool) error {
	for _, c := range children {
		if err := c.Build(isCancelled); err != nil {
			return err
		}
	}
	return nil
}

// polygonCountOf reads a built mesh's "polygons" member for cache costing,
// falling back to 0 (which Cache.Put raises to 1) when the engine didn't
// populate one.
func polygonCountOf(mesh value.Value) int {
	if polys, ok := mesh.Member("polygons"); ok {
		return len(polys.Elems())
	}
	return 0
}

// writeValueKey mixes v's structural content into kb, recursing into
// tuples, for the geometry cache's "transform-free parameters" key
// component (spec.md §4.7). Point values (a path's params) are keyed by
// their position and isCurved members; other opaque path/mesh/polygon
// payloads are keyed by kind only.
func writeValueKey(kb *geomcache.KeyBuilder, v value.Value) {
	kb.WriteString(v.Kind().String())
	switch v.Kind() {
	case value.KindNumber:
		kb.WriteFloat(v.Number())
	case value.KindString:
		kb.WriteString(v.String())
	case value.KindColor, value.KindVector, value.KindSize, value.KindRotation:
		x, y, z, _ := v.AsVectorLike()
		kb.WriteFloat(x).WriteFloat(y).WriteFloat(z)
	case value.KindTuple:
		for _, e := range v.Elems() {
			writeValueKey(kb, e)
		}
	case value.KindPoint:
		if pos, ok := v.Member("position"); ok {
			writeValueKey(kb, pos)
		}
		if curved, ok := v.Member("isCurved"); ok {
			writeValueKey(kb, curved)
		}
	}
}

// invokeBlockAsGeometry calls a user-defined block as a command: positional
// parameters bind in a child of the block's defining scope (closure
// semantics, spec.md §4.7), any option declarations at body's head are
// given their overrides from the call site's trailing body, and the
// produced geometry splices directly into the caller's accumulator (no
// extra wrapper node), per spec.md §8 scenario 4.
func invokeBlockAsGeometry(b *userBlock, callArgs []ast.Expr, overrideBody *ast.Block, sc *Scope, rng source.Range, acc *[]*scene.Geometry) error {
	if err := sc.enterCall(rng); err != nil {
		return err
	}
	defer sc.exitCall()

	callScope := b.defScope.Child()
	posArgs, err := evalArgs(callArgs, sc)
	if err != nil {
		return err
	}
	for i, p := range b.params {
		if i < len(posArgs) {
			callScope.Define(p, posArgs[i])
		}
	}
	if overrideBody != nil {
		if err := applyOptionOverrides(overrideBody.Statements, b.body.Statements, callScope, sc); err != nil {
			return err
		}
	}

	children, err := evalBlockStatements(b.body.Statements, callScope)
	if err != nil {
		return err
	}
	*acc = append(*acc, children...)
	return nil
}

// invokeBlockAsValue calls a user block in expression position (a bare
// reference or a C-style call), returning its sole produced geometry node
// wrapped as a mesh-ish Value, or Unset if it produced zero or more than
// one (spec.md §4.3, documented simplification: the value model has no
// "list of geometry" variant).
func invokeBlockAsValue(b *userBlock, args []value.Value, overrideBody *ast.Block, sc *Scope, rng source.Range) (value.Value, error) {
	if err := sc.enterCall(rng); err != nil {
		return value.Value{}, err
	}
	defer sc.exitCall()

	callScope := b.defScope.Child()
	for i, p := range b.params {
		if i < len(args) {
			callScope.Define(p, args[i])
		}
	}
	if overrideBody != nil {
		if err := applyOptionOverrides(overrideBody.Statements, b.body.Statements, callScope, sc); err != nil {
			return value.Value{}, err
		}
	}

	children, err := evalBlockStatements(b.body.Statements, callScope)
	if err != nil {
		return value.Value{}, err
	}
	if len(children) != 1 {
		return value.Unset, nil
	}
	return geometryAsValue(children[0]), nil
}

// applyOptionOverrides scans overrideStmts (an invocation's trailing body)
// for statements naming one of defStmts' leading option declarations, and
// binds those as the callee's override, evaluating the override's
// arguments in the caller's own scope (spec.md §4.7, §8 scenario 4:
// `star { points 6 }` sets the `points` option rather than nesting a
// `points` command as geometry).
func applyOptionOverrides(overrideStmts, defStmts []ast.Stmt, callScope, callerScope *Scope) error {
	optionNames := map[string]bool{}
	for _, s := range defStmts {
		o, ok := s.(*ast.OptionStmt)
		if !ok {
			break // options must lead the block body
		}
		optionNames[o.Name] = true
	}
	for _, s := range overrideStmts {
		c, ok := s.(*ast.CommandStmt)
		if !ok || !optionNames[c.Name] {
			continue
		}
		args, err := evalArgs(c.Args, callerScope)
		if err != nil {
			return err
		}
		var v value.Value
		if len(args) == 1 {
			v = args[0]
		} else {
			v = value.Tuple(args...)
		}
		callScope.Define(c.Name, v)
	}
	return nil
}

// geometryAsValue forces g's mesh into existence and returns it, so
// expression-position geometry references (`sphere.radius`-style member
// access, or passing a shape to a pure function) observe its built mesh
// value rather than the Geometry wrapper.
func geometryAsValue(g *scene.Geometry) value.Value {
	if g.State() != scene.Built {
		if err := g.Build(nil); err != nil {
			return value.Unset
		}
	}
	return g.Mesh()
}
