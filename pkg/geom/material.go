package geom

import "fmt"

// Material is the material descriptor attached to a geometric object.
// It is one of Dielectric, PerfectMetal, MaterialSelf or MaterialFunc.
type Material interface {
	material() // marker method restricting implementations to this package
	String() string
}

// Dielectric is a material with a fixed relative permittivity.
type Dielectric struct {
	Epsilon float64 `json:"epsilon"`
}

func (Dielectric) material() {}

func (d Dielectric) String() string {
	return fmt.Sprintf("dielectric(epsilon=%g)", d.Epsilon)
}

// PerfectMetal is an ideal conductor, modeled as permittivity -infinity.
type PerfectMetal struct{}

func (PerfectMetal) material() {}

func (PerfectMetal) String() string { return "perfect-metal" }

// MaterialSelf refers to the default material of the run.
type MaterialSelf struct{}

func (MaterialSelf) material() {}

func (MaterialSelf) String() string { return "material-type" }

// MaterialFunction maps a point to a material descriptor. Implementations
// are evaluated once per query point.
type MaterialFunction interface {
	Material(p Vector3) (Material, error)
}

// MaterialFunctionFunc adapts an ordinary function to MaterialFunction.
type MaterialFunctionFunc func(p Vector3) (Material, error)

// Material calls f(p).
func (f MaterialFunctionFunc) Material(p Vector3) (Material, error) {
	return f(p)
}

// MaterialFunc is a function-valued material.
type MaterialFunc struct {
	Func MaterialFunction
	Name string // for display only
}

func (MaterialFunc) material() {}

func (m MaterialFunc) String() string {
	if m.Name != "" {
		return fmt.Sprintf("material-function(%s)", m.Name)
	}
	return "material-function"
}

// Air is the vacuum dielectric.
var Air = Dielectric{Epsilon: 1}
