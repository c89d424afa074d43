// Package fdtd holds the pieces of the simulation engine that fdctl's
// structure builder talks to: dimension-tagged vectors, grid volumes,
// and the Structure that samples permittivity onto the grid.
//
// Time stepping, PML and symmetry folding are not implemented here.
package fdtd

import "fmt"

// Dim is the dimensionality of a simulation.
type Dim int

const (
	D1   Dim = iota // x only
	D2              // x, y
	D3              // x, y, z
	Dcyl            // r, z
)

func (d Dim) String() string {
	switch d {
	case D1:
		return "1d"
	case D2:
		return "2d"
	case D3:
		return "3d"
	case Dcyl:
		return "cylindrical"
	default:
		return fmt.Sprintf("Dim(%d)", int(d))
	}
}

// Infinity is the engine's "very large" sentinel. A perfect conductor has
// permittivity -Infinity.
const Infinity = 1e20

// Vec is an engine-native vector whose meaning depends on its Dim. Unused
// components are zero.
type Vec struct {
	dim Dim
	c   [3]float64
}

// Vec1 returns a 1D vector.
func Vec1(x float64) Vec { return Vec{dim: D1, c: [3]float64{x}} }

// Vec2 returns a 2D vector.
func Vec2(x, y float64) Vec { return Vec{dim: D2, c: [3]float64{x, y}} }

// Vec3 returns a 3D vector.
func Vec3(x, y, z float64) Vec { return Vec{dim: D3, c: [3]float64{x, y, z}} }

// VecCyl returns a cylindrical (r, z) vector.
func VecCyl(r, z float64) Vec { return Vec{dim: Dcyl, c: [3]float64{r, z}} }

// Dim returns the dimensionality tag.
func (v Vec) Dim() Dim { return v.dim }

// X returns the x component (D1, D2, D3).
func (v Vec) X() float64 { return v.c[0] }

// Y returns the y component (D2, D3).
func (v Vec) Y() float64 { return v.c[1] }

// Z returns the z component. For Dcyl this is the axial coordinate.
func (v Vec) Z() float64 {
	if v.dim == Dcyl {
		return v.c[1]
	}
	return v.c[2]
}

// R returns the radial component (Dcyl).
func (v Vec) R() float64 { return v.c[0] }

// axis returns the i-th stored component, in the order the Dim defines
// its axes.
func (v Vec) axis(i int) float64 { return v.c[i] }

func (v Vec) withAxis(i int, x float64) Vec {
	v.c[i] = x
	return v
}

func (v Vec) String() string {
	switch v.dim {
	case D1:
		return fmt.Sprintf("(%g)", v.c[0])
	case D2:
		return fmt.Sprintf("(%g,%g)", v.c[0], v.c[1])
	case Dcyl:
		return fmt.Sprintf("(r=%g,z=%g)", v.c[0], v.c[1])
	default:
		return fmt.Sprintf("(%g,%g,%g)", v.c[0], v.c[1], v.c[2])
	}
}

// GeometricVolume is a continuous box in engine coordinates.
type GeometricVolume struct {
	min, max Vec
}

// NewGeometricVolume returns the volume spanning min to max.
func NewGeometricVolume(min, max Vec) GeometricVolume {
	return GeometricVolume{min: min, max: max}
}

// Dim returns the dimensionality of the corners.
func (gv GeometricVolume) Dim() Dim { return gv.min.dim }

// MinCorner returns the low corner.
func (gv GeometricVolume) MinCorner() Vec { return gv.min }

// MaxCorner returns the high corner.
func (gv GeometricVolume) MaxCorner() Vec { return gv.max }

func (gv GeometricVolume) String() string {
	return fmt.Sprintf("%s-%s", gv.min, gv.max)
}
