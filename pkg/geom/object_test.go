package geom

import (
	"errors"
	"math"
	"testing"
)

func TestObjectContains(t *testing.T) {
	diel := Dielectric{Epsilon: 12}

	tests := []struct {
		name string
		obj  Object
		p    Vector3
		want bool
	}{
		{"sphere center", Object{diel, Vector3{1, 1, 1}, Sphere{Radius: 1}}, Vector3{1, 1, 1}, true},
		{"sphere surface", Object{diel, Vector3{}, Sphere{Radius: 1}}, Vector3{1, 0, 0}, true},
		{"sphere outside", Object{diel, Vector3{}, Sphere{Radius: 1}}, Vector3{0.8, 0.8, 0}, false},
		{"cylinder inside", Object{diel, Vector3{}, Cylinder{Axis: Vector3{0, 0, 1}, Radius: 1, Height: 2}}, Vector3{0.5, 0.5, 0.9}, true},
		{"cylinder past end", Object{diel, Vector3{}, Cylinder{Axis: Vector3{0, 0, 1}, Radius: 1, Height: 2}}, Vector3{0, 0, 1.1}, false},
		{"cylinder past radius", Object{diel, Vector3{}, Cylinder{Axis: Vector3{0, 0, 1}, Radius: 1, Height: 2}}, Vector3{1.1, 0, 0}, false},
		{"cylinder unnormalized axis", Object{diel, Vector3{}, Cylinder{Axis: Vector3{5, 0, 0}, Radius: 1, Height: 4}}, Vector3{1.9, 0.5, 0}, true},
		{"cylinder zero axis is z", Object{diel, Vector3{}, Cylinder{Radius: 1, Height: 2}}, Vector3{0, 0, 0.9}, true},
		{"cone wide end", Object{diel, Vector3{}, Cone{Axis: Vector3{0, 0, 1}, Radius: 2, Radius2: 0, Height: 2}}, Vector3{1.9, 0, -1}, true},
		{"cone narrow end", Object{diel, Vector3{}, Cone{Axis: Vector3{0, 0, 1}, Radius: 2, Radius2: 0, Height: 2}}, Vector3{0.5, 0, 0.9}, false},
		{"cone middle", Object{diel, Vector3{}, Cone{Axis: Vector3{0, 0, 1}, Radius: 2, Radius2: 0, Height: 2}}, Vector3{0.9, 0, 0}, true},
		{"block default axes", Object{diel, Vector3{}, Block{Size: Vector3{2, 4, 6}}}, Vector3{0.9, 1.9, 2.9}, true},
		{"block outside", Object{diel, Vector3{}, Block{Size: Vector3{2, 4, 6}}}, Vector3{1.1, 0, 0}, false},
		{"block zero size axis", Object{diel, Vector3{}, Block{Size: Vector3{2, 2, 0}}}, Vector3{0.5, 0.5, 0}, true},
		{"rotated block", Object{diel, Vector3{}, Block{
			E1: Vector3{1, 1, 0}, E2: Vector3{-1, 1, 0}, E3: Vector3{0, 0, 1},
			Size: Vector3{4, 0.2, 1},
		}}, Vector3{1, 1, 0}, true},
		{"rotated block off diagonal", Object{diel, Vector3{}, Block{
			E1: Vector3{1, 1, 0}, E2: Vector3{-1, 1, 0}, E3: Vector3{0, 0, 1},
			Size: Vector3{4, 0.2, 1},
		}}, Vector3{1, 0, 0}, false},
		{"ellipsoid inside", Object{diel, Vector3{}, Ellipsoid{Block{Size: Vector3{4, 2, 2}}}}, Vector3{1.9, 0, 0}, true},
		{"ellipsoid corner outside", Object{diel, Vector3{}, Ellipsoid{Block{Size: Vector3{4, 2, 2}}}}, Vector3{1.5, 0.9, 0}, false},
		{"no shape", Object{Material: diel}, Vector3{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
			fixed, err := FixObjects([]Object{tt.obj})
			if tt.obj.Shape == nil {
				if err == nil {
					t.Error("expected FixObjects error for object without shape")
				}
				return
			}
			if err != nil {
				t.Fatalf("FixObjects: %v", err)
			}
			if got := fixed[0].Contains(tt.p); got != tt.want {
				t.Errorf("fixed Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want Box
	}{
		{
			"sphere",
			Object{Air, Vector3{1, 2, 3}, Sphere{Radius: 2}},
			Box{Low: Vector3{-1, 0, 1}, High: Vector3{3, 4, 5}},
		},
		{
			"z cylinder",
			Object{Air, Vector3{}, Cylinder{Axis: Vector3{0, 0, 1}, Radius: 1, Height: 4}},
			Box{Low: Vector3{-1, -1, -2}, High: Vector3{1, 1, 2}},
		},
		{
			"x cone",
			Object{Air, Vector3{}, Cone{Axis: Vector3{1, 0, 0}, Radius: 2, Radius2: 1, Height: 2}},
			Box{Low: Vector3{-1, -2, -2}, High: Vector3{1, 2, 2}},
		},
		{
			"block",
			Object{Air, Vector3{0, 0, 1}, Block{Size: Vector3{2, 4, 6}}},
			Box{Low: Vector3{-1, -2, -2}, High: Vector3{1, 2, 4}},
		},
		{
			"rotated square block",
			Object{Air, Vector3{}, Block{
				E1: Vector3{1, 1, 0}.Unit(), E2: Vector3{-1, 1, 0}.Unit(), E3: Vector3{0, 0, 1},
				Size: Vector3{math.Sqrt2, math.Sqrt2, 2},
			}},
			Box{Low: Vector3{-1, -1, -1}, High: Vector3{1, 1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.obj.BoundingBox()
			if !approxVec(got.Low, tt.want.Low, 1e-9) || !approxVec(got.High, tt.want.High, 1e-9) {
				t.Errorf("BoundingBox = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixObjectsDoesNotMutateInput(t *testing.T) {
	in := []Object{{Air, Vector3{}, Cylinder{Axis: Vector3{0, 0, 3}, Radius: 1, Height: 1}}}
	out, err := FixObjects(in)
	if err != nil {
		t.Fatalf("FixObjects: %v", err)
	}
	if in[0].Shape.(Cylinder).Axis != (Vector3{0, 0, 3}) {
		t.Errorf("input axis changed to %v", in[0].Shape.(Cylinder).Axis)
	}
	if out[0].Shape.(Cylinder).Axis != (Vector3{0, 0, 1}) {
		t.Errorf("fixed axis = %v, want unit z", out[0].Shape.(Cylinder).Axis)
	}
}

func TestFixObjectsSingularBlock(t *testing.T) {
	objs := []Object{{Air, Vector3{}, Block{
		E1: Vector3{1, 0, 0}, E2: Vector3{2, 0, 0}, E3: Vector3{0, 0, 1},
		Size: Vector3{1, 1, 1},
	}}}
	_, err := FixObjects(objs)
	if !errors.Is(err, ErrSingularBasis) {
		t.Fatalf("expected ErrSingularBasis, got %v", err)
	}
}

func TestFixObjectsPartialBlockAxes(t *testing.T) {
	objs := []Object{{Air, Vector3{}, Block{
		E1: Vector3{1, 1, 0}, E2: Vector3{-1, 1, 0},
		Size: Vector3{1, 1, 1},
	}}}
	out, err := FixObjects(objs)
	if err != nil {
		t.Fatalf("FixObjects: %v", err)
	}
	b := out[0].Shape.(Block)
	r := 1 / math.Sqrt2
	if !approxVec(b.E1, Vector3{r, r, 0}, 1e-12) || !approxVec(b.E2, Vector3{-r, r, 0}, 1e-12) {
		t.Errorf("axes = %v, %v, want the normalized diagonals", b.E1, b.E2)
	}
	if b.E3 != (Vector3{0, 0, 1}) {
		t.Errorf("E3 = %v, want unit z", b.E3)
	}

	tests := []struct {
		p    Vector3
		want bool
	}{
		{Vector3{0.3, 0.3, 0}, true},
		{Vector3{0.6, 0, 0}, true},
		{Vector3{0.4, 0.4, 0}, false},
		{Vector3{0, 0, 0.6}, false},
	}
	for _, tt := range tests {
		if got := out[0].Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestBlockDefaultsEachAxis(t *testing.T) {
	tests := []struct {
		name     string
		b        Block
		singular bool
	}{
		{"none", Block{}, false},
		{"e3 only", Block{E3: Vector3{0, 1, 1}}, false},
		{"e2 and e3", Block{E2: Vector3{0, 0, 1}, E3: Vector3{0, 1, 0}}, false},
		{"e1 along default e2", Block{E1: Vector3{0, 1, 0}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.b.Size = Vector3{1, 1, 1}
			_, err := FixObjects([]Object{{Air, Vector3{}, tt.b}})
			if tt.singular != errors.Is(err, ErrSingularBasis) {
				t.Errorf("FixObjects error = %v, singular %v", err, tt.singular)
			}
			if !tt.singular && err != nil {
				t.Errorf("FixObjects: %v", err)
			}
		})
	}
}

func TestLatticeBounds(t *testing.T) {
	l := CartesianLattice(Vector3{4, 2, 0})
	b := l.Bounds()
	if b.Low.X != -2 || b.High.X != 2 || b.Low.Y != -1 || b.High.Y != 1 {
		t.Errorf("unexpected bounds %v", b)
	}
	if !math.IsInf(b.High.Z, 1) || !math.IsInf(b.Low.Z, -1) {
		t.Errorf("collapsed axis should be unbounded, got %v", b)
	}
}
