package nameplate

import (
	"github.com/soypat/nameplate/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Difference returns a with the volume of b removed.
//
// The connected components of b must not intersect each other, as is the
// case for extruded text. An empty b leaves a unchanged.
func Difference(a, b *Solid) (s *Solid, err error) {
	const stage = "difference"
	if err := checkOperands(stage, a, b); err != nil {
		return nil, err
	}
	if b.IsEmpty() || !overlaps(a.Bounds(), b.Bounds()) {
		return a, nil
	}
	if a.IsEmpty() {
		return EmptySolid(), nil
	}
	defer recoverGeometry(stage, &err)
	aPolys := polygons(a.m)
	inverted := newBSP(flipAll(aPolys))
	kept := flipAll(aPolys)
	var added []polygon
	for _, comp := range components(b.m) {
		if !overlaps(comp.bb, a.Bounds()) {
			continue
		}
		kept = clipNear(newBSP(comp.polys), kept, comp.bb)
		inside := inverted.clip(comp.polys)
		added = append(added, inverted.clip(flipAll(inside))...)
	}
	return solidFromPolygons(stage, append(flipAll(kept), added...))
}

// Union returns the solid occupying the volume of a or b.
//
// The connected components of b must not intersect each other. An empty
// operand yields the other one.
func Union(a, b *Solid) (s *Solid, err error) {
	const stage = "union"
	if err := checkOperands(stage, a, b); err != nil {
		return nil, err
	}
	if b.IsEmpty() {
		return a, nil
	}
	if a.IsEmpty() {
		return b, nil
	}
	defer recoverGeometry(stage, &err)
	aPolys := polygons(a.m)
	tree := newBSP(aPolys)
	kept := aPolys
	var added []polygon
	for _, comp := range components(b.m) {
		if !overlaps(comp.bb, a.Bounds()) {
			added = append(added, comp.polys...)
			continue
		}
		kept = clipNear(newBSP(comp.polys), kept, comp.bb)
		outside := tree.clip(comp.polys)
		added = append(added, flipAll(tree.clip(flipAll(outside)))...)
	}
	return solidFromPolygons(stage, append(kept, added...))
}

func checkOperands(stage string, a, b *Solid) error {
	if a == nil || b == nil || a.m == nil || b.m == nil {
		return &DegenerateGeometryError{Stage: stage, Reason: "nil operand"}
	}
	return nil
}

// clipNear clips the polygons of polys that may touch bb against tree.
// The rest pass through untouched.
func clipNear(tree *bspNode, polys []polygon, bb r3.Box) []polygon {
	var near, far []polygon
	for _, p := range polys {
		if overlaps(p.bounds(), bb) {
			near = append(near, p)
		} else {
			far = append(far, p)
		}
	}
	return append(far, tree.clip(near)...)
}

// overlaps reports whether a and b intersect once grown by csgEpsilon.
func overlaps(a, b r3.Box) bool {
	grow := d3.Elem(2 * csgEpsilon)
	return d3.Box(a).Enlarge(grow).Intersects(d3.Box(b))
}

type component struct {
	polys []polygon
	bb    r3.Box
}

// components splits the faces of m into connected components.
func components(m *Mesh) []component {
	groups := m.Components()
	comps := make([]component, 0, len(groups))
	for _, faces := range groups {
		var c component
		bb := d3.Empty()
		for _, fi := range faces {
			verts := make([]r3.Vec, len(m.faces[fi]))
			for i, idx := range m.faces[fi] {
				verts[i] = m.vertices[idx]
				bb = bb.Include(verts[i])
			}
			if p, ok := newPolygon(verts); ok {
				c.polys = append(c.polys, p)
			}
		}
		c.bb = r3.Box(bb)
		comps = append(comps, c)
	}
	return comps
}

func polygons(m *Mesh) []polygon {
	polys := make([]polygon, 0, len(m.faces))
	for _, f := range m.faces {
		verts := make([]r3.Vec, len(f))
		for i, idx := range f {
			verts[i] = m.vertices[idx]
		}
		if p, ok := newPolygon(verts); ok {
			polys = append(polys, p)
		}
	}
	return polys
}

// solidFromPolygons welds a polygon soup produced by boolean operations
// into an indexed solid. Clipping leaves vertices in the middle of
// neighbouring face edges; those edges are split so the result is closed.
func solidFromPolygons(stage string, polys []polygon) (*Solid, error) {
	m := &Mesh{}
	for _, p := range polys {
		f := make([]int, len(p.verts))
		for i, v := range p.verts {
			f[i] = m.AddVertex(v)
		}
		m.faces = append(m.faces, f)
	}
	w := splitJunctions(weldMesh(m, weldTolerance), junctionTolerance)
	if err := checkClosed(stage, w); err != nil {
		return nil, err
	}
	return newSolid(w), nil
}
