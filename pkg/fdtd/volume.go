package fdtd

import (
	"fmt"
	"math"
)

// Volume is a rectangular grid of cells at resolution a (cells per unit
// length). Cartesian volumes are centered at the origin; cylindrical
// volumes start at r = 0 and are centered in z. An axis with zero cells
// is invariant: the grid has a single layer there, at coordinate 0.
type Volume struct {
	dim    Dim
	a      float64
	num    [3]int
	origin Vec
}

func axisCells(size, a float64) int {
	if size <= 0 {
		return 0
	}
	return int(math.Floor(size*a + 0.5))
}

// centered returns the low coordinate of an axis of n cells centered on 0.
func centered(n int, a float64) float64 {
	if n == 0 {
		return 0
	}
	return -float64(n) / a / 2
}

// Vol1D returns a 1D volume of length xsize.
func Vol1D(xsize, a float64) Volume {
	nx := axisCells(xsize, a)
	return Volume{dim: D1, a: a, num: [3]int{nx}, origin: Vec1(centered(nx, a))}
}

// Vol2D returns a 2D volume of xsize by ysize.
func Vol2D(xsize, ysize, a float64) Volume {
	nx, ny := axisCells(xsize, a), axisCells(ysize, a)
	return Volume{dim: D2, a: a, num: [3]int{nx, ny},
		origin: Vec2(centered(nx, a), centered(ny, a))}
}

// Vol3D returns a 3D volume of xsize by ysize by zsize.
func Vol3D(xsize, ysize, zsize, a float64) Volume {
	nx, ny, nz := axisCells(xsize, a), axisCells(ysize, a), axisCells(zsize, a)
	return Volume{dim: D3, a: a, num: [3]int{nx, ny, nz},
		origin: Vec3(centered(nx, a), centered(ny, a), centered(nz, a))}
}

// VolCyl returns a cylindrical volume of radius rsize and length zsize.
func VolCyl(rsize, zsize, a float64) Volume {
	nr, nz := axisCells(rsize, a), axisCells(zsize, a)
	return Volume{dim: Dcyl, a: a, num: [3]int{nr, nz},
		origin: VecCyl(0, centered(nz, a))}
}

// axes returns the number of grid axes for d.
func axes(d Dim) int {
	switch d {
	case D1:
		return 1
	case D3:
		return 3
	default:
		return 2
	}
}

// Dim returns the dimensionality.
func (v Volume) Dim() Dim { return v.dim }

// A returns the resolution.
func (v Volume) A() float64 { return v.a }

// Num returns the number of cells along axis i; zero means invariant.
func (v Volume) Num(i int) int { return v.num[i] }

// layers is the number of grid layers along axis i.
func (v Volume) layers(i int) int {
	if i >= axes(v.dim) || v.num[i] == 0 {
		return 1
	}
	return v.num[i]
}

// NumCells returns the number of grid points.
func (v Volume) NumCells() int {
	return v.layers(0) * v.layers(1) * v.layers(2)
}

// Loc returns the center of cell (i, j, k). Unused indices are ignored.
func (v Volume) Loc(i, j, k int) Vec {
	p := v.origin
	for n, idx := range [3]int{i, j, k} {
		if n >= axes(v.dim) || v.num[n] == 0 {
			continue
		}
		p = p.withAxis(n, v.origin.axis(n)+(float64(idx)+0.5)/v.a)
	}
	return p
}

// index maps a point to the cell containing it.
func (v Volume) index(p Vec) (int, int, int, bool) {
	var idx [3]int
	for n := 0; n < axes(v.dim); n++ {
		if v.num[n] == 0 {
			continue
		}
		c := int(math.Floor((p.axis(n) - v.origin.axis(n)) * v.a))
		if c < 0 || c >= v.num[n] {
			return 0, 0, 0, false
		}
		idx[n] = c
	}
	return idx[0], idx[1], idx[2], true
}

// Pad returns v grown by one cell on each side of every non-invariant
// axis. The radial axis of a cylindrical volume never extends below 0.
func (v Volume) Pad() Volume {
	p := v
	for n := 0; n < axes(v.dim); n++ {
		if v.num[n] == 0 {
			continue
		}
		lo := v.origin.axis(n) - 1/v.a
		if v.dim == Dcyl && n == 0 && lo < 0 {
			p.num[n]++
			continue
		}
		p.num[n] += 2
		p.origin = p.origin.withAxis(n, lo)
	}
	return p
}

// Surroundings returns the continuous box covered by the cells.
func (v Volume) Surroundings() GeometricVolume {
	max := v.origin
	for n := 0; n < axes(v.dim); n++ {
		max = max.withAxis(n, v.origin.axis(n)+float64(v.num[n])/v.a)
	}
	return GeometricVolume{min: v.origin, max: max}
}

// Split divides v into at most n slabs along its longest axis.
func (v Volume) Split(n int) []Volume {
	axis := -1
	for i := 0; i < axes(v.dim); i++ {
		if v.num[i] > 0 && (axis < 0 || v.num[i] > v.num[axis]) {
			axis = i
		}
	}
	if n <= 1 || axis < 0 {
		return []Volume{v}
	}
	if n > v.num[axis] {
		n = v.num[axis]
	}

	chunks := make([]Volume, 0, n)
	base, extra := v.num[axis]/n, v.num[axis]%n
	start := 0
	for c := 0; c < n; c++ {
		cells := base
		if c < extra {
			cells++
		}
		chunk := v
		chunk.num[axis] = cells
		chunk.origin = v.origin.withAxis(axis, v.origin.axis(axis)+float64(start)/v.a)
		chunks = append(chunks, chunk)
		start += cells
	}
	return chunks
}

func (v Volume) String() string {
	return fmt.Sprintf("%s volume %v cells at resolution %g, origin %s",
		v.dim, v.num[:axes(v.dim)], v.a, v.origin)
}
