package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/fdctl/pkg/fdtd"
	"github.com/chazu/fdctl/pkg/geom"
	"github.com/chazu/fdctl/pkg/structure"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(dielectric :epsilon 12)`,
			expect: `(dielectric "__kw_epsilon" 12)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :radius 1 :height 2)`,
			expect: `(cylinder "__kw_radius" 1 "__kw_height" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(set-default-material air)`,
			expect: `(set_default_material air)`,
		},
		{
			name:   "digit before hyphen",
			input:  `(vector3-x p)`,
			expect: `(vector3_x p)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vector3 -1 0 0)`,
			expect: `(vector3 -1 0 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "comment ends at newline",
			input:  "; note\n(perfect-metal)",
			expect: "// note\n(perfect_metal)",
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :kw a-b`",
			expect: "`raw :kw a-b`",
		},
		{
			name:   "digit in keyword",
			input:  `:radius2`,
			expect: `"__kw_radius2"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evalScene evaluates source and fails the test on any error.
func evalScene(t *testing.T, source string) *Scene {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	t.Cleanup(s.Close)
	return s
}

// evalFails evaluates source and returns the joined eval error messages.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if s != nil {
		s.Close()
		t.Fatal("expected evaluation to fail")
	}
	var msgs []string
	for _, e := range evalErrs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// ---------------------------------------------------------------------------
// Scene configuration
// ---------------------------------------------------------------------------

func TestSetters(t *testing.T) {
	s := evalScene(t, `
(set-dimensions 2)
(set-lattice-size (vector3 4 3 infinity))
(set-resolution 20)
(set-num-chunks 4)
(set-verbose true)
(set-default-material (dielectric :index 2))
`)
	if s.Dimensions != 2 {
		t.Errorf("Dimensions = %d, want 2", s.Dimensions)
	}
	if s.Size != (geom.Vector3{X: 4, Y: 3, Z: fdtd.Infinity}) {
		t.Errorf("Size = %v", s.Size)
	}
	if s.Resolution != 20 || s.NumChunks != 4 || !s.Verbose {
		t.Errorf("Resolution/NumChunks/Verbose = %g/%d/%v", s.Resolution, s.NumChunks, s.Verbose)
	}
	if s.DefaultMaterial != (geom.Dielectric{Epsilon: 4}) {
		t.Errorf("DefaultMaterial = %v, want epsilon 4", s.DefaultMaterial)
	}
}

func TestCylindricalGlobal(t *testing.T) {
	s := evalScene(t, `(set-dimensions cylindrical)`)
	if s.Dimensions != structure.Cylindrical {
		t.Errorf("Dimensions = %d, want %d", s.Dimensions, structure.Cylindrical)
	}
}

func TestZeroDimensionsIsOneD(t *testing.T) {
	s := evalScene(t, `
(set-dimensions 0)
(set-lattice-size (vector3 2 0 0))
(set-geometry (list (sphere :radius 0.5 :material (dielectric :epsilon 3))))
`)
	if s.Dimensions != 0 {
		t.Fatalf("Dimensions = %d, want 0", s.Dimensions)
	}
	b, err := structure.MakeStructure(s.Params())
	if err != nil {
		t.Fatalf("MakeStructure: %v", err)
	}
	if b.Dimensions != 1 {
		t.Errorf("effective dimensions = %d, want 1", b.Dimensions)
	}
	if eps, _ := b.Structure.EpsAt(fdtd.Vec1(0)); eps != 3 {
		t.Errorf("eps at 0 = %g, want 3", eps)
	}
}

func TestSetterErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"bad dimensions", `(set-dimensions 5)`, "unsupported"},
		{"negative resolution", `(set-resolution -1)`, "positive"},
		{"zero chunks", `(set-num-chunks 0)`, "at least 1"},
		{"function default", `(set-default-material (material-function (fn [p] air)))`, "unknown material"},
		{"self default", `(set-default-material (material-type))`, "unknown material"},
		{"geometry entry", `(set-geometry (list 1 2))`, "expected geometric object"},
		{"lattice not vector", `(set-lattice-size 3)`, "expected vector3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.source)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("errors %q do not mention %q", msg, tt.wantMsg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

func TestShapes(t *testing.T) {
	s := evalScene(t, `
(def glass (dielectric :epsilon 2.25))
(set-geometry
  (list (sphere :center (vector3 1 2 3) :radius 0.5 :material glass)
        (cylinder :radius 1 :height 2 :axis (vector3 1 0 0) :material metal)
        (cone :radius 1 :radius2 0.25 :height 3)
        (block :size (vector3 1 2 3) :e1 (vector3 1 1 0) :e2 (vector3 -1 1 0) :e3 (vector3 0 0 1))
        (ellipsoid :size (vector3 2 2 1) :material air)))
`)
	if len(s.Geometry) != 5 {
		t.Fatalf("got %d objects, want 5", len(s.Geometry))
	}

	sp := s.Geometry[0]
	if sp.Center != (geom.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("sphere center = %v", sp.Center)
	}
	if sh, ok := sp.Shape.(geom.Sphere); !ok || sh.Radius != 0.5 {
		t.Errorf("sphere shape = %#v", sp.Shape)
	}
	if sp.Material != (geom.Dielectric{Epsilon: 2.25}) {
		t.Errorf("sphere material = %v", sp.Material)
	}

	cyl, ok := s.Geometry[1].Shape.(geom.Cylinder)
	if !ok || cyl.Radius != 1 || cyl.Height != 2 || cyl.Axis != (geom.Vector3{X: 1}) {
		t.Errorf("cylinder shape = %#v", s.Geometry[1].Shape)
	}
	if _, ok := s.Geometry[1].Material.(geom.PerfectMetal); !ok {
		t.Errorf("cylinder material = %v", s.Geometry[1].Material)
	}

	cone, ok := s.Geometry[2].Shape.(geom.Cone)
	if !ok || cone.Radius2 != 0.25 || cone.Height != 3 {
		t.Errorf("cone shape = %#v", s.Geometry[2].Shape)
	}
	if _, ok := s.Geometry[2].Material.(geom.MaterialSelf); !ok {
		t.Errorf("object without :material = %v, want material-type", s.Geometry[2].Material)
	}

	blk, ok := s.Geometry[3].Shape.(geom.Block)
	if !ok || blk.Size != (geom.Vector3{X: 1, Y: 2, Z: 3}) || blk.E2 != (geom.Vector3{X: -1, Y: 1}) {
		t.Errorf("block shape = %#v", s.Geometry[3].Shape)
	}

	if _, ok := s.Geometry[4].Shape.(geom.Ellipsoid); !ok {
		t.Errorf("ellipsoid shape = %#v", s.Geometry[4].Shape)
	}
}

func TestSetGeometryVariadic(t *testing.T) {
	s := evalScene(t, `(set-geometry (sphere :radius 1) (sphere :radius 2))`)
	if len(s.Geometry) != 2 {
		t.Fatalf("got %d objects, want 2", len(s.Geometry))
	}
}

func TestBlockPartialAxes(t *testing.T) {
	s := evalScene(t, `
(set-dimensions 2)
(set-lattice-size (vector3 4 4 0))
(set-geometry
  (list (block :size (vector3 1 1 infinity)
               :e1 (vector3 1 1 0) :e2 (vector3 -1 1 0)
               :material (dielectric :epsilon 6))))
`)
	blk, ok := s.Geometry[0].Shape.(geom.Block)
	if !ok || !blk.E3.IsZero() {
		t.Fatalf("block shape = %#v, want unset e3", s.Geometry[0].Shape)
	}

	b, err := structure.MakeStructure(s.Params())
	if err != nil {
		t.Fatalf("MakeStructure: %v", err)
	}
	tests := []struct {
		p    fdtd.Vec
		want float64
	}{
		{fdtd.Vec2(0.25, 0.25), 6},
		{fdtd.Vec2(0.55, 0.05), 6},
		{fdtd.Vec2(0.55, 0.55), 1},
		{fdtd.Vec2(1.5, 1.5), 1},
	}
	for _, tt := range tests {
		if eps, _ := b.Structure.EpsAt(tt.p); eps != tt.want {
			t.Errorf("eps at %s = %g, want %g", tt.p, eps, tt.want)
		}
	}
}

func TestShapeValidation(t *testing.T) {
	msg := evalFails(t, `(sphere :radius -1)`)
	if !strings.Contains(msg, "sphere radius") {
		t.Errorf("errors %q do not mention sphere radius", msg)
	}

	msg = evalFails(t, `(block :size (vector3 1 1 1) :e1 (vector3 1 0 0) :e2 (vector3 2 0 0) :e3 (vector3 0 0 1))`)
	if !strings.Contains(msg, "axes") {
		t.Errorf("errors %q do not mention block axes", msg)
	}
}

func TestVectorBuiltins(t *testing.T) {
	s := evalScene(t, `
(def a (vector3 1 2))
(def b (vector3-scale 2 (vector3-add a (vector3 0 0 1))))
(set-lattice-size (vector3 (vector3-x b) (vector3-y b) (vector3-z b)))
`)
	if s.Size != (geom.Vector3{X: 2, Y: 4, Z: 2}) {
		t.Errorf("Size = %v, want (2,4,2)", s.Size)
	}
}

// ---------------------------------------------------------------------------
// Material functions
// ---------------------------------------------------------------------------

func TestMaterialFunction(t *testing.T) {
	s := evalScene(t, `
(def stripes
  (material-function
    (fn [p] (if (< (vector3-x p) 0) (dielectric :epsilon 4) metal))
    :name "stripes"))
(set-geometry (list (block :size (vector3 2 2 2) :material stripes)))
`)
	mf, ok := s.Geometry[0].Material.(geom.MaterialFunc)
	if !ok {
		t.Fatalf("material = %T, want geom.MaterialFunc", s.Geometry[0].Material)
	}
	if mf.Name != "stripes" {
		t.Errorf("Name = %q", mf.Name)
	}

	m, err := mf.Func.Material(geom.Vector3{X: -0.5})
	if err != nil {
		t.Fatalf("Material: %v", err)
	}
	if m != (geom.Dielectric{Epsilon: 4}) {
		t.Errorf("Material(-0.5,0,0) = %v", m)
	}
	m, err = mf.Func.Material(geom.Vector3{X: 0.5})
	if err != nil {
		t.Fatalf("Material: %v", err)
	}
	if _, ok := m.(geom.PerfectMetal); !ok {
		t.Errorf("Material(0.5,0,0) = %v", m)
	}

	s.Close()
	if _, err := mf.Func.Material(geom.Vector3{}); !errors.Is(err, errSceneClosed) {
		t.Errorf("after Close: expected errSceneClosed, got %v", err)
	}
}

func TestMaterialFunctionBadResult(t *testing.T) {
	s := evalScene(t, `(set-geometry (list (sphere :radius 1 :material (material-function (fn [p] 42)))))`)
	mf := s.Geometry[0].Material.(geom.MaterialFunc)
	if _, err := mf.Func.Material(geom.Vector3{}); err == nil || !strings.Contains(err.Error(), "expected material") {
		t.Errorf("expected material type error, got %v", err)
	}
}

func TestMaterialFunctionRequiresFunction(t *testing.T) {
	msg := evalFails(t, `(material-function 3)`)
	if !strings.Contains(msg, "expected function") {
		t.Errorf("errors %q do not mention expected function", msg)
	}
}

// ---------------------------------------------------------------------------
// End to end through the structure builder
// ---------------------------------------------------------------------------

func TestSceneBuildsStructure(t *testing.T) {
	s := evalScene(t, `
(set-dimensions 2)
(set-lattice-size (vector3 2 2 0))
(set-resolution 10)
(set-default-material (dielectric :epsilon 2))
(set-geometry
  (list (sphere :radius 0.5 :material (dielectric :epsilon 12))
        (sphere :center (vector3 0.8 0.8) :radius 0.1 :material (material-type))))
`)
	b, err := structure.MakeStructure(s.Params())
	if err != nil {
		t.Fatalf("MakeStructure: %v", err)
	}
	if eps, _ := b.Structure.EpsAt(fdtd.Vec2(0, 0)); eps != 12 {
		t.Errorf("center eps = %g, want 12", eps)
	}
	if eps, _ := b.Structure.EpsAt(fdtd.Vec2(-0.9, 0.9)); eps != 2 {
		t.Errorf("corner eps = %g, want default 2", eps)
	}
	if eps, _ := b.Structure.EpsAt(fdtd.Vec2(0.8, 0.8)); eps != 2 {
		t.Errorf("material-type eps = %g, want default 2", eps)
	}
}

func TestSceneMaterialLoop(t *testing.T) {
	s := evalScene(t, `
(set-dimensions 1)
(set-lattice-size (vector3 1 0 0))
(def spin (material-function (fn [p] spin)))
(set-geometry (list (sphere :radius 1 :material spin)))
`)
	_, err := structure.MakeStructure(s.Params())
	if !errors.Is(err, structure.ErrMaterialLoop) {
		t.Errorf("expected ErrMaterialLoop, got %v", err)
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	s := evalScene(t, `
(def r (* 0.5 3))
(set-geometry (list (sphere :radius r)))
`)
	if sh := s.Geometry[0].Shape.(geom.Sphere); sh.Radius != 1.5 {
		t.Errorf("radius = %g, want 1.5", sh.Radius)
	}
}
