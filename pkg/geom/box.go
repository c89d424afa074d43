package geom

import (
	"fmt"
	"math"
)

// Box is a closed axis-aligned box.
type Box struct {
	Low  Vector3 `json:"low"`
	High Vector3 `json:"high"`
}

// NewBox returns the box spanning a and b in any corner order.
func NewBox(a, b Vector3) Box {
	return Box{
		Low:  Vector3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		High: Vector3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)},
	}
}

// Contains reports whether p lies inside or on the boundary of b.
func (b Box) Contains(p Vector3) bool {
	return p.X >= b.Low.X && p.X <= b.High.X &&
		p.Y >= b.Low.Y && p.Y <= b.High.Y &&
		p.Z >= b.Low.Z && p.Z <= b.High.Z
}

// Intersects reports whether the closed boxes share at least one point.
func (b Box) Intersects(o Box) bool {
	return b.Low.X <= o.High.X && o.Low.X <= b.High.X &&
		b.Low.Y <= o.High.Y && o.Low.Y <= b.High.Y &&
		b.Low.Z <= o.High.Z && o.Low.Z <= b.High.Z
}

// Intersect returns the overlap of b and o. The result IsEmpty when the
// boxes do not intersect.
func (b Box) Intersect(o Box) Box {
	return Box{
		Low:  Vector3{math.Max(b.Low.X, o.Low.X), math.Max(b.Low.Y, o.Low.Y), math.Max(b.Low.Z, o.Low.Z)},
		High: Vector3{math.Min(b.High.X, o.High.X), math.Min(b.High.Y, o.High.Y), math.Min(b.High.Z, o.High.Z)},
	}
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Low:  Vector3{math.Min(b.Low.X, o.Low.X), math.Min(b.Low.Y, o.Low.Y), math.Min(b.Low.Z, o.Low.Z)},
		High: Vector3{math.Max(b.High.X, o.High.X), math.Max(b.High.Y, o.High.Y), math.Max(b.High.Z, o.High.Z)},
	}
}

// Shift returns b translated by d.
func (b Box) Shift(d Vector3) Box {
	return Box{Low: b.Low.Add(d), High: b.High.Add(d)}
}

// IsEmpty reports whether Low exceeds High on any axis.
func (b Box) IsEmpty() bool {
	return b.Low.X > b.High.X || b.Low.Y > b.High.Y || b.Low.Z > b.High.Z
}

// Size returns the edge lengths.
func (b Box) Size() Vector3 {
	return b.High.Sub(b.Low)
}

func (b Box) String() string {
	return fmt.Sprintf("%s-%s", b.Low, b.High)
}
