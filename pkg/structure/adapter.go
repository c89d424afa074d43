// Package structure binds scene descriptions to the simulation engine.
// It converts engine vectors to lattice coordinates, resolves the
// permittivity at a point from the scene's objects, and builds the
// engine's Structure.
package structure

import (
	"github.com/chazu/fdctl/pkg/fdtd"
	"github.com/chazu/fdctl/pkg/geom"
)

// VecToVector3 maps an engine vector to lattice coordinates. Components
// unused by the vector's dimensionality are zero; cylindrical (r, z)
// becomes (r, z, 0).
func VecToVector3(v fdtd.Vec) geom.Vector3 {
	switch v.Dim() {
	case fdtd.D1:
		return geom.Vector3{X: v.X()}
	case fdtd.D2:
		return geom.Vector3{X: v.X(), Y: v.Y()}
	case fdtd.Dcyl:
		return geom.Vector3{X: v.R(), Y: v.Z()}
	default:
		return geom.Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
	}
}

// VolumeToBox maps an engine volume to a lattice box.
func VolumeToBox(gv fdtd.GeometricVolume) geom.Box {
	return geom.Box{
		Low:  VecToVector3(gv.MinCorner()),
		High: VecToVector3(gv.MaxCorner()),
	}
}
