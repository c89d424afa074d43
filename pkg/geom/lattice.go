package geom

import "math"

// Lattice describes the computational cell. fdctl only builds cartesian
// lattices centered at the origin; Basis is kept so object coordinates
// stay meaningful if other lattices are added.
type Lattice struct {
	Basis  Matrix3x3 `json:"basis"`
	Size   Vector3   `json:"size"`
	Center Vector3   `json:"center"`
}

// CartesianLattice returns the unit-basis lattice of the given size
// centered at the origin.
func CartesianLattice(size Vector3) Lattice {
	return Lattice{Basis: Identity3(), Size: size}
}

// Bounds returns the cell as a box. Axes of zero size are unbounded,
// since the structure is invariant along them.
func (l Lattice) Bounds() Box {
	half := func(s float64) float64 {
		if s == 0 {
			return math.Inf(1)
		}
		return s / 2
	}
	h := Vector3{half(l.Size.X), half(l.Size.Y), half(l.Size.Z)}
	return Box{Low: l.Center.Sub(h), High: l.Center.Add(h)}
}
