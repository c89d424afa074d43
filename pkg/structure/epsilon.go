package structure

import (
	"errors"
	"fmt"

	"github.com/chazu/fdctl/pkg/fdtd"
	"github.com/chazu/fdctl/pkg/geom"
)

// Compile-time interface check.
var _ fdtd.MaterialFunction = (*GeomEpsilon)(nil)

// maxFunctionEvaluations bounds the chain of material functions resolved
// for one point: a function may return one more function, no further.
const maxFunctionEvaluations = 2

// ErrClosed is returned when a closed GeomEpsilon is queried.
var ErrClosed = errors.New("geom epsilon is closed")

// Options configures a GeomEpsilon.
type Options struct {
	// Default is substituted for points in no object and for
	// self-referencing materials. It must be a Dielectric or PerfectMetal;
	// nil means air.
	Default geom.Material

	// Verbose prints the bounding-box tree and its statistics.
	Verbose bool

	// Printer receives diagnostics. Nil disables them.
	Printer *fdtd.Printer
}

// GeomEpsilon resolves the permittivity at a point from a list of
// geometric objects. It owns a fixed copy of the list, a permanent
// bounding-box tree over the construction volume, and at most one
// restricted tree built by SetVolume.
//
// GeomEpsilon is not safe for concurrent use.
type GeomEpsilon struct {
	objects    []geom.Object
	def        geom.Material
	tree       *geom.BoxTree
	restricted *geom.BoxTree // nil when queries go to tree
}

// NewGeomEpsilon builds the permanent tree over gv.
func NewGeomEpsilon(objects []geom.Object, gv fdtd.GeometricVolume, opts Options) (*GeomEpsilon, error) {
	def := opts.Default
	if def == nil {
		def = geom.Air
	}
	if _, err := epsilonOf(def); err != nil {
		return nil, fmt.Errorf("default material %v: %w", def, err)
	}

	out := opts.Printer
	if out.AmMaster() {
		w := out.Writer()
		for _, obj := range objects {
			geom.DisplayObject(w, 5, obj)
			if d, ok := obj.Material.(geom.Dielectric); ok {
				fmt.Fprintf(w, "%*sdielectric constant epsilon = %g\n", 5+5, "", d.Epsilon)
			}
		}
	}

	fixed, err := geom.FixObjects(objects)
	if err != nil {
		return nil, fmt.Errorf("geom epsilon: %w", err)
	}

	tree := geom.NewBoxTree(fixed, VolumeToBox(gv))
	if opts.Verbose && out.AmMaster() {
		out.MasterPrintf("Geometric-object bounding-box tree:\n")
		tree.Display(out.Writer(), 5)
		depth, nodes := tree.Stats()
		out.MasterPrintf("Geometric object tree has depth %d and %d object nodes (vs. %d actual objects)\n",
			depth, nodes, len(fixed))
	}

	return &GeomEpsilon{objects: fixed, def: def, tree: tree}, nil
}

// SetVolume replaces any restricted tree with a new one over gv.
func (g *GeomEpsilon) SetVolume(gv fdtd.GeometricVolume) {
	g.UnsetVolume()
	if g.tree == nil {
		return
	}
	g.restricted = geom.NewBoxTree(g.objects, VolumeToBox(gv))
}

// UnsetVolume returns queries to the permanent tree, destroying the
// restricted one. It is safe to call at any time.
func (g *GeomEpsilon) UnsetVolume() {
	if g.restricted != nil {
		g.restricted.Destroy()
		g.restricted = nil
	}
}

// Close destroys both trees. Further queries fail with ErrClosed.
func (g *GeomEpsilon) Close() {
	g.UnsetVolume()
	if g.tree != nil {
		g.tree.Destroy()
		g.tree = nil
	}
}

func (g *GeomEpsilon) activeTree() *geom.BoxTree {
	if g.restricted != nil {
		return g.restricted
	}
	return g.tree
}

// Eps returns the permittivity at r. It panics with a *FatalError when r
// cannot be resolved; see Resolve for the checked form.
func (g *GeomEpsilon) Eps(r fdtd.Vec) float64 {
	eps, err := g.Resolve(r)
	if err != nil {
		panic(&FatalError{Err: err})
	}
	return eps
}

// Resolve returns the permittivity at r.
//
// The innermost object's material is used, or the default when r is in no
// object. A self-reference becomes the default. A material function is
// evaluated at r; see resolveFunction for the redirect bound.
func (g *GeomEpsilon) Resolve(r fdtd.Vec) (float64, error) {
	tree := g.activeTree()
	if tree == nil {
		return 0, ErrClosed
	}

	p := VecToVector3(r)
	m, ok := tree.MaterialAt(p)
	if !ok {
		m = g.def
	}

	switch mm := m.(type) {
	case geom.MaterialSelf:
		m = g.def
	case geom.MaterialFunc:
		resolved, err := g.resolveFunction(mm, p)
		if err != nil {
			return 0, fmt.Errorf("at %s: %w", r, err)
		}
		m = resolved
	}

	eps, err := epsilonOf(m)
	if err != nil {
		return 0, fmt.Errorf("at %s: %w", r, err)
	}
	return eps, nil
}

// resolveFunction evaluates f at p. If the result is itself a material
// function it is evaluated once more; a third function-valued result is
// ErrMaterialLoop. Self-references resolve to the default.
func (g *GeomEpsilon) resolveFunction(f geom.MaterialFunc, p geom.Vector3) (geom.Material, error) {
	for n := 0; n < maxFunctionEvaluations; n++ {
		if f.Func == nil {
			return nil, fmt.Errorf("%v has no function: %w", f, ErrUnknownMaterial)
		}
		m, err := f.Func.Material(p)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", f, err)
		}
		switch mm := m.(type) {
		case geom.MaterialSelf:
			return g.def, nil
		case geom.MaterialFunc:
			f = mm
		default:
			return m, nil
		}
	}
	return nil, ErrMaterialLoop
}

// epsilonOf reads the permittivity of a resolved material.
func epsilonOf(m geom.Material) (float64, error) {
	switch mm := m.(type) {
	case geom.Dielectric:
		return mm.Epsilon, nil
	case geom.PerfectMetal:
		return -fdtd.Infinity, nil
	default:
		return 0, fmt.Errorf("%T: %w", m, ErrUnknownMaterial)
	}
}
