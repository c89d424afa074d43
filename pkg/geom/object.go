package geom

import (
	"errors"
	"fmt"
	"math"
)

// Object is a shape placed at Center and filled with Material.
type Object struct {
	Material Material `json:"-"`
	Center   Vector3  `json:"center"`
	Shape    Shape    `json:"shape"`
}

// Shape is the geometric part of an Object, expressed relative to the
// object center.
type Shape interface {
	// Kind names the shape ("sphere", "block", ...).
	Kind() string

	contains(r Vector3) bool
	bounds() Box
	fix() (Shape, error)
}

// Contains reports whether p lies inside obj or on its surface.
func (obj Object) Contains(p Vector3) bool {
	if obj.Shape == nil {
		return false
	}
	return obj.Shape.contains(p.Sub(obj.Center))
}

// BoundingBox returns the axis-aligned box enclosing obj.
func (obj Object) BoundingBox() Box {
	if obj.Shape == nil {
		return Box{Low: obj.Center, High: obj.Center}
	}
	return obj.Shape.bounds().Shift(obj.Center)
}

// ErrSingularBasis is returned by FixObjects for a block whose axes do
// not span 3D space.
var ErrSingularBasis = errors.New("block axes are linearly dependent")

// FixObjects returns a copy of objs with unit axes and precomputed block
// projections. The input slice is not modified.
func FixObjects(objs []Object) ([]Object, error) {
	fixed := make([]Object, len(objs))
	for i, obj := range objs {
		fixed[i] = obj
		if obj.Shape == nil {
			return nil, fmt.Errorf("object %d: missing shape", i)
		}
		s, err := obj.Shape.fix()
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, obj.Shape.Kind(), err)
		}
		fixed[i].Shape = s
	}
	return fixed, nil
}

// ---------------------------------------------------------------------------
// Sphere
// ---------------------------------------------------------------------------

// Sphere is a ball of the given radius.
type Sphere struct {
	Radius float64 `json:"radius"`
}

func (Sphere) Kind() string { return "sphere" }

func (s Sphere) contains(r Vector3) bool {
	return r.Dot(r) <= s.Radius*s.Radius
}

func (s Sphere) bounds() Box {
	d := Vector3{s.Radius, s.Radius, s.Radius}
	return Box{Low: d.Scale(-1), High: d}
}

func (s Sphere) fix() (Shape, error) { return s, nil }

// ---------------------------------------------------------------------------
// Cylinder and cone
// ---------------------------------------------------------------------------

// defaultAxis is used when a cylinder or cone has a zero axis.
var defaultAxis = Vector3{0, 0, 1}

// Cylinder is a right circular cylinder centered on its axis midpoint.
type Cylinder struct {
	Axis   Vector3 `json:"axis"`
	Radius float64 `json:"radius"`
	Height float64 `json:"height"`
}

func (Cylinder) Kind() string { return "cylinder" }

func (c Cylinder) contains(r Vector3) bool {
	return inCone(r, c.Axis.Unit(), c.Radius, c.Radius, c.Height)
}

func (c Cylinder) bounds() Box {
	return coneBounds(c.Axis.Unit(), c.Radius, c.Radius, c.Height)
}

func (c Cylinder) fix() (Shape, error) {
	if c.Axis.IsZero() {
		c.Axis = defaultAxis
	}
	c.Axis = c.Axis.Unit()
	return c, nil
}

// Cone is a truncated cone: Radius at the bottom end (-Height/2 along
// Axis) and Radius2 at the top end.
type Cone struct {
	Axis    Vector3 `json:"axis"`
	Radius  float64 `json:"radius"`
	Radius2 float64 `json:"radius2"`
	Height  float64 `json:"height"`
}

func (Cone) Kind() string { return "cone" }

func (c Cone) contains(r Vector3) bool {
	return inCone(r, c.Axis.Unit(), c.Radius, c.Radius2, c.Height)
}

func (c Cone) bounds() Box {
	return coneBounds(c.Axis.Unit(), c.Radius, c.Radius2, c.Height)
}

func (c Cone) fix() (Shape, error) {
	if c.Axis.IsZero() {
		c.Axis = defaultAxis
	}
	c.Axis = c.Axis.Unit()
	return c, nil
}

// inCone tests r against a cone along unit axis a. A cylinder is the
// r0 == r1 case.
func inCone(r, a Vector3, r0, r1, h float64) bool {
	if a.IsZero() {
		a = defaultAxis
	}
	proj := a.Dot(r)
	if math.Abs(proj) > h/2 {
		return false
	}
	radius := r0
	if h > 0 && r0 != r1 {
		radius = r0 + (proj/h+0.5)*(r1-r0)
	}
	d := r.Sub(a.Scale(proj))
	return d.Dot(d) <= radius*radius
}

// coneBounds encloses the two end discs of a cone.
func coneBounds(a Vector3, r0, r1, h float64) Box {
	if a.IsZero() {
		a = defaultAxis
	}
	disc := func(c Vector3, radius float64) Box {
		ext := Vector3{
			radius * math.Sqrt(math.Max(0, 1-a.X*a.X)),
			radius * math.Sqrt(math.Max(0, 1-a.Y*a.Y)),
			radius * math.Sqrt(math.Max(0, 1-a.Z*a.Z)),
		}
		return Box{Low: c.Sub(ext), High: c.Add(ext)}
	}
	bottom := disc(a.Scale(-h/2), r0)
	top := disc(a.Scale(h/2), r1)
	return bottom.Union(top)
}

// ---------------------------------------------------------------------------
// Block and ellipsoid
// ---------------------------------------------------------------------------

// Block is a parallelepiped with edges Size along the axes E1, E2, E3.
// Zero axes default to the cartesian basis.
type Block struct {
	E1   Vector3 `json:"e1"`
	E2   Vector3 `json:"e2"`
	E3   Vector3 `json:"e3"`
	Size Vector3 `json:"size"`

	projection *Matrix3x3
}

func (Block) Kind() string { return "block" }

func (b Block) contains(r Vector3) bool {
	p, ok := b.project(r)
	if !ok {
		return false
	}
	return math.Abs(p.X) <= b.Size.X/2 &&
		math.Abs(p.Y) <= b.Size.Y/2 &&
		math.Abs(p.Z) <= b.Size.Z/2
}

func (b Block) bounds() Box {
	e1, e2, e3 := b.axes()
	h1 := e1.Scale(b.Size.X / 2)
	h2 := e2.Scale(b.Size.Y / 2)
	h3 := e3.Scale(b.Size.Z / 2)
	var box Box
	first := true
	for _, s1 := range []float64{-1, 1} {
		for _, s2 := range []float64{-1, 1} {
			for _, s3 := range []float64{-1, 1} {
				c := h1.Scale(s1).Add(h2.Scale(s2)).Add(h3.Scale(s3))
				corner := Box{Low: c, High: c}
				if first {
					box = corner
					first = false
					continue
				}
				box = box.Union(corner)
			}
		}
	}
	return box
}

func (b Block) fix() (Shape, error) {
	e1, e2, e3 := b.axes()
	b.E1, b.E2, b.E3 = e1.Unit(), e2.Unit(), e3.Unit()
	inv, ok := Matrix3x3{C0: b.E1, C1: b.E2, C2: b.E3}.Inverse()
	if !ok {
		return nil, ErrSingularBasis
	}
	b.projection = &inv
	return b, nil
}

// axes returns the block axes with each unset axis replaced by the
// matching cartesian unit vector.
func (b Block) axes() (Vector3, Vector3, Vector3) {
	id := Identity3()
	pick := func(e, def Vector3) Vector3 {
		if e.IsZero() {
			return def
		}
		return e
	}
	return pick(b.E1, id.C0), pick(b.E2, id.C1), pick(b.E3, id.C2)
}

// project expresses r in block coordinates.
func (b Block) project(r Vector3) (Vector3, bool) {
	if b.projection != nil {
		return b.projection.MulVector(r), true
	}
	e1, e2, e3 := b.axes()
	inv, ok := Matrix3x3{C0: e1.Unit(), C1: e2.Unit(), C2: e3.Unit()}.Inverse()
	if !ok {
		return Vector3{}, false
	}
	return inv.MulVector(r), true
}

// Ellipsoid is the ellipsoid inscribed in the Block with the same axes
// and size.
type Ellipsoid struct {
	Block
}

func (Ellipsoid) Kind() string { return "ellipsoid" }

func (e Ellipsoid) contains(r Vector3) bool {
	p, ok := e.project(r)
	if !ok {
		return false
	}
	sum := 0.0
	for i := 0; i < 3; i++ {
		semi := e.Size.Component(i) / 2
		c := p.Component(i)
		if semi == 0 {
			if c != 0 {
				return false
			}
			continue
		}
		sum += (c / semi) * (c / semi)
	}
	return sum <= 1
}

func (e Ellipsoid) fix() (Shape, error) {
	s, err := e.Block.fix()
	if err != nil {
		return nil, err
	}
	return Ellipsoid{Block: s.(Block)}, nil
}
