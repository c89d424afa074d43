// Package sdfx builds preview solids as signed distance fields with
// github.com/deadsy/sdfx and meshes them by marching cubes.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/fdctl/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

type field struct {
	sdf sdf.SDF3
}

func (f *field) BoundingBox() (min, max [3]float64) {
	bb := f.sdf.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

// SdfxKernel is a kernel.Kernel over sdfx distance fields.
type SdfxKernel struct {
	cells int
}

// New returns a kernel meshing with DefaultMeshCells.
func New() *SdfxKernel {
	return NewWithCells(DefaultMeshCells)
}

// NewWithCells returns a kernel whose marching cubes grid has cells cells
// along the longest bounding-box axis.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*field).sdf
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &field{sdf: s}
}

func vec(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }

func transform(s kernel.Solid, m sdf.M44) kernel.Solid {
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// must panics on an sdfx constructor error; callers pass validated sizes.
func must(name string, s sdf.SDF3, err error) kernel.Solid {
	if err != nil {
		panic(fmt.Sprintf("sdfx.%s: %v", name, err))
	}
	return wrap(s)
}

// Box creates a box with the given dimensions, centered at the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(vec(x, y, z), 0)
	return must("Box3D", s, err)
}

// Sphere creates a sphere centered at the origin.
func (k *SdfxKernel) Sphere(radius float64) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	return must("Sphere3D", s, err)
}

// Cylinder creates a cylinder along z, centered at the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	return must("Cylinder3D", s, err)
}

// Cone creates a truncated cone along z, centered at the origin.
func (k *SdfxKernel) Cone(height, r0, r1 float64) kernel.Solid {
	s, err := sdf.Cone3D(height, r0, r1, 0)
	return must("Cone3D", s, err)
}

func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference removes b from a.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return transform(s, sdf.Translate3d(vec(x, y, z)))
}

// Rotate applies X, then Y, then Z rotations given in degrees.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	return transform(s, sdf.RotateZ(rad(z)).Mul(sdf.RotateY(rad(y))).Mul(sdf.RotateX(rad(x))))
}

// Scale stretches a solid along each axis. The result is not an exact
// distance field, which is fine for meshing.
func (k *SdfxKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	return transform(s, sdf.Scale3d(vec(x, y, z)))
}

// ToMesh runs marching cubes over the solid's bounding box. Vertices
// are not shared between triangles; each carries its face normal.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	tris := render.ToTriangles(unwrap(s), render.NewMarchingCubesUniform(k.cells))

	n := 3 * len(tris)
	mesh := &kernel.Mesh{
		Vertices: make([]float32, 0, 3*n),
		Normals:  make([]float32, 0, 3*n),
		Indices:  make([]uint32, 0, n),
	}
	for _, t := range tris {
		nv := t.Normal()
		for _, p := range t {
			mesh.Indices = append(mesh.Indices, uint32(len(mesh.Indices)))
			mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			mesh.Normals = append(mesh.Normals, float32(nv.X), float32(nv.Y), float32(nv.Z))
		}
	}
	return mesh, nil
}
