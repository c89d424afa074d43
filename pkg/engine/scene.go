package engine

import (
	"github.com/chazu/fdctl/pkg/fdtd"
	"github.com/chazu/fdctl/pkg/geom"
	"github.com/chazu/fdctl/pkg/structure"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Scene is the structure description produced by a control script.
//
// Material functions defined in the script call back into the interpreter
// that evaluated it, so a Scene keeps that interpreter alive until Close.
// A Scene is not safe for concurrent use.
type Scene struct {
	Dimensions      int
	Size            geom.Vector3
	Resolution      float64
	Geometry        []geom.Object
	DefaultMaterial geom.Material
	NumChunks       int
	Verbose         bool

	env *zygo.Zlisp
}

func newScene(env *zygo.Zlisp) *Scene {
	return &Scene{
		Dimensions:      3,
		Size:            geom.Vector3{X: 1, Y: 1, Z: 1},
		Resolution:      10,
		DefaultMaterial: geom.Air,
		NumChunks:       1,
		env:             env,
	}
}

// Params returns the structure parameters for this scene.
func (s *Scene) Params() structure.Params {
	return structure.Params{
		Dimensions:      s.Dimensions,
		Size:            s.Size,
		Resolution:      s.Resolution,
		Geometry:        s.Geometry,
		DefaultMaterial: s.DefaultMaterial,
		NumChunks:       s.NumChunks,
		Symmetry:        fdtd.Identity(),
		Infinity:        fdtd.Infinity,
		Verbose:         s.Verbose,
	}
}

// Close stops the interpreter. Material functions from the scene fail
// afterwards. Close is nil-safe and idempotent.
func (s *Scene) Close() {
	if s == nil || s.env == nil {
		return
	}
	s.env.Stop()
	s.env = nil
}
