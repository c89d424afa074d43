package structure

import (
	"errors"
	"fmt"

	"github.com/chazu/fdctl/pkg/fdtd"
	"github.com/chazu/fdctl/pkg/geom"
)

// Cylindrical is the Dimensions value selecting an (r, z) simulation.
const Cylindrical = -2

// Params describes the structure to build.
type Params struct {
	Dimensions      int          // 0 or 1, 2, 3, or Cylindrical
	Size            geom.Vector3 // lattice size; (r, z, -) for Cylindrical
	Resolution      float64      // grid cells per unit length
	Geometry        []geom.Object
	DefaultMaterial geom.Material // nil means air
	NumChunks       int
	Symmetry        fdtd.Symmetry
	Infinity        float64 // "no size" sentinel; 0 means fdtd.Infinity
	Verbose         bool
	Printer         *fdtd.Printer
}

// Build is the result of MakeStructure.
type Build struct {
	Structure  *fdtd.Structure
	Lattice    geom.Lattice
	Dimensions int                    // effective grid dimensions (2 for Cylindrical)
	Warnings   []geom.ValidationError // objects outside the cell
}

// MakeStructure validates the geometry, samples it onto a grid of the
// requested dimensionality, and returns the engine Structure. See
// GridVolume for the grid.
func MakeStructure(p Params) (*Build, error) {
	out := p.Printer
	out.MasterPrintf("-----------\nInitializing structure...\n")

	var errs []error
	for _, e := range geom.Validate(p.Geometry) {
		errs = append(errs, e)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid geometry: %w", errors.Join(errs...))
	}

	lattice := geom.CartesianLattice(p.Size)

	dims := p.Dimensions
	if dims == Cylindrical {
		dims = 2
	}
	out.MasterPrintf("Working in %d dimensions.\n", dims)

	v, err := GridVolume(p)
	if err != nil {
		return nil, err
	}

	warnings := geom.ValidateInRegion(p.Geometry, VolumeToBox(v.Surroundings()))
	for _, w := range warnings {
		out.MasterPrintf("%s\n", w.Error())
	}

	geps, err := NewGeomEpsilon(p.Geometry, v.Pad().Surroundings(), Options{
		Default: p.DefaultMaterial,
		Verbose: p.Verbose,
		Printer: out,
	})
	if err != nil {
		return nil, err
	}
	defer geps.Close()

	s, err := fdtd.NewStructure(v, geps, fdtd.NoPML(), p.Symmetry, p.NumChunks)
	if err != nil {
		return nil, err
	}

	out.MasterPrintf("-----------\n")

	return &Build{Structure: s, Lattice: lattice, Dimensions: dims, Warnings: warnings}, nil
}

// GridVolume returns the grid volume for p's dimensions, lattice size and
// resolution. Axes whose size is at most 2/Infinity are collapsed to zero.
func GridVolume(p Params) (fdtd.Volume, error) {
	infinity := p.Infinity
	if infinity == 0 {
		infinity = fdtd.Infinity
	}
	noSize := 2.0 / infinity
	size := p.Size
	if size.X <= noSize {
		size.X = 0
	}
	if size.Y <= noSize {
		size.Y = 0
	}
	if size.Z <= noSize {
		size.Z = 0
	}

	switch p.Dimensions {
	case 0, 1:
		return fdtd.Vol1D(size.X, p.Resolution), nil
	case 2:
		return fdtd.Vol2D(size.X, size.Y, p.Resolution), nil
	case 3:
		return fdtd.Vol3D(size.X, size.Y, size.Z, p.Resolution), nil
	case Cylindrical:
		return fdtd.VolCyl(size.X, size.Y, p.Resolution), nil
	}
	return fdtd.Volume{}, fmt.Errorf("%w: %d", ErrUnsupportedDimensionality, p.Dimensions)
}
