package main

import (
	"fmt"
	"io"
	"log"

	"github.com/chazu/fdctl/pkg/engine"
	"github.com/chazu/fdctl/pkg/fdtd"
	"github.com/chazu/fdctl/pkg/geom"
	"github.com/chazu/fdctl/pkg/kernel"
	"github.com/chazu/fdctl/pkg/kernel/sdfx"
	"github.com/chazu/fdctl/pkg/structure"
	"github.com/chazu/fdctl/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to objects.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Overrides replace scene settings from the command line. Zero values
// leave the scene's own setting.
type Overrides struct {
	Resolution float64
	NumChunks  int
	Verbose    bool
}

// App runs control scripts through the engine, the structure builder and
// the mesh kernel.
type App struct {
	engine    *engine.Engine
	kernel    kernel.Kernel
	printer   *fdtd.Printer
	overrides Overrides
}

// MeshData is the JSON-serializable mesh format written by the mesh command.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable evaluation error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// StructureSummary describes a built structure.
type StructureSummary struct {
	Dimensions int     `json:"dimensions"`
	Grid       string  `json:"grid"`
	Cells      int     `json:"cells"`
	Chunks     int     `json:"chunks"`
	Objects    int     `json:"objects"`
	EpsMin     float64 `json:"epsMin"`
	EpsMax     float64 `json:"epsMax"`
}

// PointEps is the permittivity resolved at one point.
type PointEps struct {
	Point   geom.Vector3 `json:"point"`
	Epsilon float64      `json:"epsilon"`
	Error   string       `json:"error,omitempty"`
}

// EvalResult is the full result of one command.
type EvalResult struct {
	Summary  *StructureSummary `json:"summary,omitempty"`
	Points   []PointEps        `json:"points,omitempty"`
	Meshes   []MeshData        `json:"meshes"`
	Errors   []EvalErrorData   `json:"errors"`
	Warnings []EvalErrorData   `json:"warnings"`
}

func newResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

func (r *EvalResult) fail(err error) {
	r.Errors = append(r.Errors, EvalErrorData{Message: err.Error()})
}

// NewApp creates an App writing structure diagnostics to out as process
// rank (only rank 0 prints). A nil kernel selects sdfx.
func NewApp(out io.Writer, rank int, k kernel.Kernel) *App {
	if k == nil {
		k = sdfx.New()
	}
	return &App{
		engine:  engine.NewEngine(),
		kernel:  k,
		printer: fdtd.NewPrinter(out, rank),
	}
}

// evaluate runs source and applies the overrides. On failure the errors
// are recorded in res and the scene is nil.
func (a *App) evaluate(source string, res *EvalResult) *engine.Scene {
	scene, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		res.fail(err)
		return nil
	}
	for _, e := range evalErrs {
		res.Errors = append(res.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	if scene == nil {
		return nil
	}

	if a.overrides.Resolution > 0 {
		scene.Resolution = a.overrides.Resolution
	}
	if a.overrides.NumChunks > 0 {
		scene.NumChunks = a.overrides.NumChunks
	}
	if a.overrides.Verbose {
		scene.Verbose = true
	}
	return scene
}

func (a *App) params(scene *engine.Scene) structure.Params {
	p := scene.Params()
	p.Printer = a.printer
	return p
}

// Run evaluates source and builds its structure.
func (a *App) Run(source string) EvalResult {
	res := newResult()
	scene := a.evaluate(source, &res)
	if scene == nil {
		return res
	}
	defer scene.Close()

	b, err := structure.MakeStructure(a.params(scene))
	if err != nil {
		log.Printf("MakeStructure error: %v", err)
		res.fail(err)
		return res
	}
	for _, w := range b.Warnings {
		res.Warnings = append(res.Warnings, EvalErrorData{Message: w.Error()})
	}

	v := b.Structure.Volume()
	lo, hi := b.Structure.EpsRange()
	res.Summary = &StructureSummary{
		Dimensions: b.Dimensions,
		Grid:       v.String(),
		Cells:      v.NumCells(),
		Chunks:     len(b.Structure.Chunks()),
		Objects:    len(scene.Geometry),
		EpsMin:     lo,
		EpsMax:     hi,
	}
	return res
}

// EpsAt evaluates source and resolves the permittivity at each point.
// Points use the scene's coordinates: (x), (x, y), (r, z) or (x, y, z).
// Coordinates along collapsed axes are ignored; points outside the
// padded cell are reported in PointEps.Error.
func (a *App) EpsAt(source string, points []geom.Vector3) EvalResult {
	res := newResult()
	scene := a.evaluate(source, &res)
	if scene == nil {
		return res
	}
	defer scene.Close()

	p := scene.Params()
	v, err := structure.GridVolume(p)
	if err != nil {
		res.fail(err)
		return res
	}
	gv := v.Pad().Surroundings()
	geps, err := structure.NewGeomEpsilon(p.Geometry, gv, structure.Options{
		Default: p.DefaultMaterial,
	})
	if err != nil {
		res.fail(err)
		return res
	}
	defer geps.Close()

	cell := structure.VolumeToBox(gv)
	for _, pt := range points {
		pe := PointEps{Point: pt}
		q, ok := intoCell(cell, pt)
		if !ok {
			pe.Error = fmt.Sprintf("point %s lies outside the cell %s", pt, cell)
			res.Points = append(res.Points, pe)
			continue
		}
		eps, err := geps.Resolve(toVec(v.Dim(), q))
		if err != nil {
			pe.Error = err.Error()
		} else {
			pe.Epsilon = eps
		}
		res.Points = append(res.Points, pe)
	}
	return res
}

// intoCell moves p onto the collapsed axes of cell and reports whether
// it then lies within cell.
func intoCell(cell geom.Box, p geom.Vector3) (geom.Vector3, bool) {
	c := [3]float64{p.X, p.Y, p.Z}
	for i := range c {
		lo, hi := cell.Low.Component(i), cell.High.Component(i)
		if lo == hi {
			c[i] = lo
			continue
		}
		if c[i] < lo || c[i] > hi {
			return p, false
		}
	}
	return geom.Vector3{X: c[0], Y: c[1], Z: c[2]}, true
}

// toVec reads p in the coordinates of a grid of dimension d.
func toVec(d fdtd.Dim, p geom.Vector3) fdtd.Vec {
	switch d {
	case fdtd.D1:
		return fdtd.Vec1(p.X)
	case fdtd.D2:
		return fdtd.Vec2(p.X, p.Y)
	case fdtd.Dcyl:
		return fdtd.VecCyl(p.X, p.Y)
	}
	return fdtd.Vec3(p.X, p.Y, p.Z)
}

// Mesh evaluates source and meshes its objects, clipped to the cell.
func (a *App) Mesh(source string) EvalResult {
	res := newResult()
	scene := a.evaluate(source, &res)
	if scene == nil {
		return res
	}
	defer scene.Close()

	v, err := structure.GridVolume(scene.Params())
	if err != nil {
		res.fail(err)
		return res
	}
	meshes, err := tessellate.Objects(scene.Geometry, structure.VolumeToBox(v.Surroundings()), a.kernel)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		res.fail(fmt.Errorf("tessellation failed: %w", err))
		return res
	}

	for i, m := range meshes {
		res.Meshes = append(res.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return res
}
