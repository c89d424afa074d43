// Package tessellate produces triangle meshes for the geometric objects
// of a scene using a geometry kernel. One mesh is produced per object,
// clipped to the computational cell.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/fdctl/pkg/geom"
	"github.com/chazu/fdctl/pkg/kernel"
)

// slab is the thickness given to collapsed (zero-size) region axes so
// that lower-dimensional cells still produce visible solids.
const slab = 1.0

// PartName names the mesh of object i.
func PartName(i int, obj geom.Object) string {
	return fmt.Sprintf("%d-%s", i, obj.Shape.Kind())
}

// Objects meshes each object of objs that meets region, which must be
// finite. The objects are read-only; degenerate objects (zero radius or
// size) produce no mesh.
func Objects(objs []geom.Object, region geom.Box, k kernel.Kernel) ([]*kernel.Mesh, error) {
	for i := 0; i < 3; i++ {
		if math.IsInf(region.Low.Component(i), 0) || math.IsInf(region.High.Component(i), 0) {
			return nil, fmt.Errorf("tessellate: region %s is not finite", region)
		}
	}

	fixed, err := geom.FixObjects(objs)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	region = thicken(region)
	size := region.Size()
	rc := region.Low.Add(size.Scale(0.5))
	cell := k.Translate(k.Box(size.X, size.Y, size.Z), rc.X, rc.Y, rc.Z)

	var meshes []*kernel.Mesh
	for i, obj := range fixed {
		if !obj.BoundingBox().Intersects(region) {
			continue
		}
		// Extents beyond limit reach past the cell on every side.
		limit := size.Norm() + 2*obj.Center.Sub(rc).Norm()
		solid, ok := shapeSolid(k, obj.Shape, limit)
		if !ok {
			continue
		}
		if c := obj.Center; !c.IsZero() {
			solid = k.Translate(solid, c.X, c.Y, c.Z)
		}
		solid = k.Intersection(cell, solid)

		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for object %d: %w", i, err)
		}
		if mesh.IsEmpty() {
			continue
		}
		mesh.PartName = PartName(i, obj)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// thicken widens collapsed axes of b to a slab centered on them.
func thicken(b geom.Box) geom.Box {
	for i := 0; i < 3; i++ {
		lo, hi := b.Low.Component(i), b.High.Component(i)
		if hi-lo > 0 {
			continue
		}
		mid := (lo + hi) / 2
		b.Low = setComponent(b.Low, i, mid-slab/2)
		b.High = setComponent(b.High, i, mid+slab/2)
	}
	return b
}

func setComponent(v geom.Vector3, i int, x float64) geom.Vector3 {
	switch i {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
	return v
}

// shapeSolid builds s centered at the origin with extents clamped to
// limit. The second result is false for degenerate shapes.
func shapeSolid(k kernel.Kernel, s geom.Shape, limit float64) (kernel.Solid, bool) {
	clamp := func(x float64) float64 { return math.Min(x, limit) }

	switch sh := s.(type) {
	case geom.Sphere:
		if sh.Radius <= 0 {
			return nil, false
		}
		return k.Sphere(clamp(sh.Radius)), true

	case geom.Cylinder:
		if sh.Radius <= 0 || sh.Height <= 0 {
			return nil, false
		}
		return alignZ(k, k.Cylinder(clamp(sh.Height), clamp(sh.Radius)), sh.Axis), true

	case geom.Cone:
		if sh.Height <= 0 || (sh.Radius <= 0 && sh.Radius2 <= 0) {
			return nil, false
		}
		return alignZ(k, k.Cone(clamp(sh.Height), sh.Radius, sh.Radius2), sh.Axis), true

	case geom.Block:
		sz := sh.Size
		if sz.X <= 0 || sz.Y <= 0 || sz.Z <= 0 {
			return nil, false
		}
		return orient(k, k.Box(clamp(sz.X), clamp(sz.Y), clamp(sz.Z)), sh), true

	case geom.Ellipsoid:
		sz := sh.Size
		if sz.X <= 0 || sz.Y <= 0 || sz.Z <= 0 {
			return nil, false
		}
		ball := k.Scale(k.Sphere(1), clamp(sz.X)/2, clamp(sz.Y)/2, clamp(sz.Z)/2)
		return orient(k, ball, sh.Block), true
	}
	return nil, false
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// alignZ rotates a solid built along z so that z points along axis.
func alignZ(k kernel.Kernel, s kernel.Solid, axis geom.Vector3) kernel.Solid {
	a := axis.Unit()
	theta := math.Acos(math.Max(-1, math.Min(1, a.Z)))
	if theta == 0 {
		return s
	}
	phi := math.Atan2(a.Y, a.X)
	return k.Rotate(s, 0, degrees(theta), degrees(phi))
}

// orient rotates a solid built on the cartesian axes onto the block's
// axes. Skewed axes are orthogonalized from e1 and e2, so the preview of
// a non-rectangular block is approximate.
func orient(k kernel.Kernel, s kernel.Solid, b geom.Block) kernel.Solid {
	u1 := b.E1.Unit()
	u2 := b.E2.Sub(u1.Scale(b.E2.Dot(u1))).Unit()
	u3 := u1.Cross(u2)

	// Z-Y-X Euler angles of the rotation whose columns are u1, u2, u3.
	x := math.Atan2(u2.Z, u3.Z)
	y := -math.Asin(math.Max(-1, math.Min(1, u1.Z)))
	z := math.Atan2(u1.Y, u1.X)
	if x == 0 && y == 0 && z == 0 {
		return s
	}
	return k.Rotate(s, degrees(x), degrees(y), degrees(z))
}
