package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/chazu/fdctl/pkg/fdtd"
	"github.com/chazu/fdctl/pkg/geom"
	"github.com/chazu/fdctl/pkg/structure"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVector3 wraps a geom.Vector3.
type sexpVector3 struct {
	v geom.Vector3
}

func (s *sexpVector3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vector3 %g %g %g)", s.v.X, s.v.Y, s.v.Z)
}
func (s *sexpVector3) Type() *zygo.RegisteredType { return nil }

// sexpMaterial wraps a geom.Material.
type sexpMaterial struct {
	m geom.Material
}

func (s *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material %s)", s.m)
}
func (s *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpObject wraps a geom.Object returned by a shape builtin.
type sexpObject struct {
	obj geom.Object
}

func (s *sexpObject) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s :center %s)", s.obj.Shape.Kind(), s.obj.Center)
}
func (s *sexpObject) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// float reads keyword name into *dst if present.
func (a kwArgs) float(name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

// vector reads keyword name into *dst if present.
func (a kwArgs) vector(name string, dst *geom.Vector3) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	vec, err := toVector3(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = vec
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a Sexp; floats must be integral.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVector3 extracts a Vector3 from a sexpVector3.
func toVector3(s zygo.Sexp) (geom.Vector3, error) {
	if v, ok := s.(*sexpVector3); ok {
		return v.v, nil
	}
	return geom.Vector3{}, fmt.Errorf("expected vector3, got %T (%s)", s, s.SexpString(nil))
}

// toMaterial extracts a Material from a sexpMaterial.
func toMaterial(s zygo.Sexp) (geom.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.m, nil
	}
	return nil, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// toObject extracts an Object from a sexpObject.
func toObject(s zygo.Sexp) (geom.Object, error) {
	if o, ok := s.(*sexpObject); ok {
		return o.obj, nil
	}
	return geom.Object{}, fmt.Errorf("expected geometric object, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Material functions
// ---------------------------------------------------------------------------

// errSceneClosed is returned by a script material function whose Scene
// has been closed.
var errSceneClosed = errors.New("scene is closed")

// scriptMaterial adapts a script function of one vector3 argument to a
// geom.MaterialFunction by calling back into the scene's interpreter.
func scriptMaterial(s *Scene, fn *zygo.SexpFunction) geom.MaterialFunction {
	return geom.MaterialFunctionFunc(func(p geom.Vector3) (geom.Material, error) {
		if s.env == nil {
			return nil, errSceneClosed
		}
		res, err := s.env.Apply(fn, []zygo.Sexp{&sexpVector3{v: p}})
		if err != nil {
			return nil, err
		}
		return toMaterial(res)
	})
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// userFunc is the zygomys builtin signature.
type userFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the control-script builtins into a zygomys
// environment. Builtins that configure the structure write into s.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens and kebab-case names are recognizable.
func registerBuiltins(env *zygo.Zlisp, s *Scene) {
	registerVectorBuiltins(env)
	registerMaterialBuiltins(env, s)
	registerShapeBuiltins(env)
	registerSetters(env, s)

	env.AddGlobal("air", &sexpMaterial{m: geom.Air})
	env.AddGlobal("vacuum", &sexpMaterial{m: geom.Air})
	env.AddGlobal("metal", &sexpMaterial{m: geom.PerfectMetal{}})
	env.AddGlobal("infinity", &zygo.SexpFloat{Val: fdtd.Infinity})
	env.AddGlobal("cylindrical", &zygo.SexpInt{Val: structure.Cylindrical})
}

func registerVectorBuiltins(env *zygo.Zlisp) {
	// (vector3 x y z); missing components are zero.
	env.AddFunction("vector3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) > 3 {
			return zygo.SexpNull, fmt.Errorf("vector3 takes at most 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vector3: component %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVector3{v: geom.Vector3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	component := func(label string, i int) userFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", label, len(args))
			}
			v, err := toVector3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
			}
			return &zygo.SexpFloat{Val: v.Component(i)}, nil
		}
	}
	env.AddFunction("vector3_x", component("vector3-x", 0))
	env.AddFunction("vector3_y", component("vector3-y", 1))
	env.AddFunction("vector3_z", component("vector3-z", 2))

	// (vector3-add a b ...)
	env.AddFunction("vector3_add", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var sum geom.Vector3
		for i, a := range args {
			v, err := toVector3(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vector3-add: argument %d: %w", i, err)
			}
			sum = sum.Add(v)
		}
		return &sexpVector3{v: sum}, nil
	})

	// (vector3-scale s v)
	env.AddFunction("vector3_scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vector3-scale requires a scalar and a vector3")
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vector3-scale: scalar: %w", err)
		}
		v, err := toVector3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vector3-scale: %w", err)
		}
		return &sexpVector3{v: v.Scale(f)}, nil
	})
}

func registerMaterialBuiltins(env *zygo.Zlisp, s *Scene) {
	// (dielectric :epsilon 12) or (dielectric :index 3.5) or (dielectric 12)
	env.AddFunction("dielectric", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		eps := 1.0
		if len(pa.positional) > 0 {
			f, err := toFloat64(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("dielectric: epsilon: %w", err)
			}
			eps = f
		}
		if err := pa.float("epsilon", &eps); err != nil {
			return zygo.SexpNull, fmt.Errorf("dielectric: %w", err)
		}
		if v, ok := pa.kw["index"]; ok {
			n, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("dielectric: index: %w", err)
			}
			eps = n * n
		}
		return &sexpMaterial{m: geom.Dielectric{Epsilon: eps}}, nil
	})

	env.AddFunction("perfect_metal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpMaterial{m: geom.PerfectMetal{}}, nil
	})

	// (material-type) refers to the default material.
	env.AddFunction("material_type", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpMaterial{m: geom.MaterialSelf{}}, nil
	})

	// (material-function (fn [p] ...) :name "grating")
	env.AddFunction("material_function", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("material-function requires exactly one function argument")
		}
		fn, ok := pa.positional[0].(*zygo.SexpFunction)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("material-function: expected function, got %T", pa.positional[0])
		}
		mf := geom.MaterialFunc{Func: scriptMaterial(s, fn)}
		if v, ok := pa.kw["name"]; ok {
			n, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material-function: name: %w", err)
			}
			mf.Name = n
		}
		return &sexpMaterial{m: mf}, nil
	})
}

// objectArgs parses the keywords shared by every shape: :center and
// :material. An object without :material takes the default material.
func objectArgs(label string, pa kwArgs) (geom.Object, error) {
	obj := geom.Object{Material: geom.MaterialSelf{}}
	if err := pa.vector("center", &obj.Center); err != nil {
		return obj, fmt.Errorf("%s: %w", label, err)
	}
	if v, ok := pa.kw["material"]; ok {
		m, err := toMaterial(v)
		if err != nil {
			return obj, fmt.Errorf("%s: material: %w", label, err)
		}
		obj.Material = m
	}
	return obj, nil
}

// shapeBuiltin wraps a shape parser into a builtin returning a sexpObject.
func shapeBuiltin(label string, parse func(pa kwArgs) (geom.Shape, error)) userFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		obj, err := objectArgs(label, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		shape, err := parse(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
		}
		obj.Shape = shape
		if errs := geom.Validate([]geom.Object{obj}); len(errs) > 0 {
			return zygo.SexpNull, fmt.Errorf("%s: %s", label, errs[0].Message)
		}
		return &sexpObject{obj: obj}, nil
	}
}

func parseBlock(pa kwArgs) (geom.Block, error) {
	var b geom.Block
	for _, f := range []struct {
		name string
		dst  *geom.Vector3
	}{{"size", &b.Size}, {"e1", &b.E1}, {"e2", &b.E2}, {"e3", &b.E3}} {
		if err := pa.vector(f.name, f.dst); err != nil {
			return b, err
		}
	}
	return b, nil
}

func registerShapeBuiltins(env *zygo.Zlisp) {
	// (sphere :center (vector3 0 0 0) :radius 1 :material m)
	env.AddFunction("sphere", shapeBuiltin("sphere", func(pa kwArgs) (geom.Shape, error) {
		var s geom.Sphere
		err := pa.float("radius", &s.Radius)
		return s, err
	}))

	// (cylinder :radius 1 :height 2 :axis (vector3 0 0 1))
	env.AddFunction("cylinder", shapeBuiltin("cylinder", func(pa kwArgs) (geom.Shape, error) {
		var c geom.Cylinder
		if err := pa.float("radius", &c.Radius); err != nil {
			return nil, err
		}
		if err := pa.float("height", &c.Height); err != nil {
			return nil, err
		}
		err := pa.vector("axis", &c.Axis)
		return c, err
	}))

	// (cone :radius 1 :radius2 0 :height 2 :axis (vector3 0 0 1))
	env.AddFunction("cone", shapeBuiltin("cone", func(pa kwArgs) (geom.Shape, error) {
		var c geom.Cone
		for _, f := range []struct {
			name string
			dst  *float64
		}{{"radius", &c.Radius}, {"radius2", &c.Radius2}, {"height", &c.Height}} {
			if err := pa.float(f.name, f.dst); err != nil {
				return nil, err
			}
		}
		err := pa.vector("axis", &c.Axis)
		return c, err
	}))

	// (block :size (vector3 1 2 infinity) :e1 ... :e2 ... :e3 ...)
	env.AddFunction("block", shapeBuiltin("block", func(pa kwArgs) (geom.Shape, error) {
		return parseBlock(pa)
	}))

	env.AddFunction("ellipsoid", shapeBuiltin("ellipsoid", func(pa kwArgs) (geom.Shape, error) {
		b, err := parseBlock(pa)
		return geom.Ellipsoid{Block: b}, err
	}))
}

func registerSetters(env *zygo.Zlisp, s *Scene) {
	one := func(label string, set func(v zygo.Sexp) error) userFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", label, len(args))
			}
			if err := set(args[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
			}
			return zygo.SexpNull, nil
		}
	}

	env.AddFunction("set_dimensions", one("set-dimensions", func(v zygo.Sexp) error {
		n, err := toInt(v)
		if err != nil {
			return err
		}
		switch n {
		case 0, 1, 2, 3, structure.Cylindrical:
		default:
			return fmt.Errorf("%w: %d", structure.ErrUnsupportedDimensionality, n)
		}
		s.Dimensions = n
		return nil
	}))

	env.AddFunction("set_lattice_size", one("set-lattice-size", func(v zygo.Sexp) error {
		size, err := toVector3(v)
		if err != nil {
			return err
		}
		if size.X < 0 || size.Y < 0 || size.Z < 0 {
			return fmt.Errorf("size %s must be non-negative", size)
		}
		s.Size = size
		return nil
	}))

	env.AddFunction("set_resolution", one("set-resolution", func(v zygo.Sexp) error {
		a, err := toFloat64(v)
		if err != nil {
			return err
		}
		if a <= 0 {
			return fmt.Errorf("resolution must be positive, got %g", a)
		}
		s.Resolution = a
		return nil
	}))

	env.AddFunction("set_default_material", one("set-default-material", func(v zygo.Sexp) error {
		m, err := toMaterial(v)
		if err != nil {
			return err
		}
		switch m.(type) {
		case geom.Dielectric, geom.PerfectMetal:
		default:
			return fmt.Errorf("%s: %w", m, structure.ErrUnknownMaterial)
		}
		s.DefaultMaterial = m
		return nil
	}))

	env.AddFunction("set_num_chunks", one("set-num-chunks", func(v zygo.Sexp) error {
		n, err := toInt(v)
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("chunk count must be at least 1, got %d", n)
		}
		s.NumChunks = n
		return nil
	}))

	env.AddFunction("set_verbose", one("set-verbose", func(v zygo.Sexp) error {
		b, err := toBool(v)
		if err != nil {
			return err
		}
		s.Verbose = b
		return nil
	}))

	// (set-geometry (list obj ...)) or (set-geometry obj ...)
	env.AddFunction("set_geometry", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items := args
		if len(args) == 1 {
			if l, err := sexpListToSlice(args[0]); err == nil {
				items = l
			}
		}
		objs := make([]geom.Object, 0, len(items))
		for i, item := range items {
			obj, err := toObject(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("set-geometry: entry %d: %w", i, err)
			}
			objs = append(objs, obj)
		}
		s.Geometry = objs
		return zygo.SexpNull, nil
	})
}
