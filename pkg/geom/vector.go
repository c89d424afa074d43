package geom

import (
	"fmt"
	"math"
)

// Vector3 is a point or direction in lattice coordinates.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vector3) Unit() Vector3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// IsZero reports whether all components are zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Component returns the i-th component (0=X, 1=Y, 2=Z).
func (v Vector3) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

// Matrix3x3 is a 3x3 matrix stored by columns.
type Matrix3x3 struct {
	C0, C1, C2 Vector3
}

// Identity3 returns the identity matrix.
func Identity3() Matrix3x3 {
	return Matrix3x3{
		C0: Vector3{1, 0, 0},
		C1: Vector3{0, 1, 0},
		C2: Vector3{0, 0, 1},
	}
}

// MulVector returns m * v.
func (m Matrix3x3) MulVector(v Vector3) Vector3 {
	return m.C0.Scale(v.X).Add(m.C1.Scale(v.Y)).Add(m.C2.Scale(v.Z))
}

// Determinant returns det(m).
func (m Matrix3x3) Determinant() float64 {
	return m.C0.Dot(m.C1.Cross(m.C2))
}

// Inverse returns m^-1. The second result is false when m is singular.
func (m Matrix3x3) Inverse() (Matrix3x3, bool) {
	det := m.Determinant()
	if det == 0 {
		return Matrix3x3{}, false
	}
	// Rows of the inverse are the cross products of column pairs / det.
	r0 := m.C1.Cross(m.C2).Scale(1 / det)
	r1 := m.C2.Cross(m.C0).Scale(1 / det)
	r2 := m.C0.Cross(m.C1).Scale(1 / det)
	return Matrix3x3{
		C0: Vector3{r0.X, r1.X, r2.X},
		C1: Vector3{r0.Y, r1.Y, r2.Y},
		C2: Vector3{r0.Z, r1.Z, r2.Z},
	}, true
}
