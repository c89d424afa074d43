package geom

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		obj     Object
		wantErr string
	}{
		{"valid sphere", Object{Material: Air, Shape: Sphere{Radius: 1}}, ""},
		{"missing material", Object{Shape: Sphere{Radius: 1}}, "missing material"},
		{"missing shape", Object{Material: Air}, "missing shape"},
		{"negative sphere radius", Object{Material: Air, Shape: Sphere{Radius: -1}}, "sphere radius"},
		{"negative cylinder height", Object{Material: Air, Shape: Cylinder{Radius: 1, Height: -2}}, "cylinder height"},
		{"negative cone radius", Object{Material: Air, Shape: Cone{Radius: 1, Radius2: -1, Height: 1}}, "cone radii"},
		{"negative block size", Object{Material: Air, Shape: Block{Size: Vector3{X: -1, Y: 1, Z: 1}}}, "block size"},
		{
			"singular block axes",
			Object{Material: Air, Shape: Block{
				E1: Vector3{X: 1}, E2: Vector3{X: 2}, E3: Vector3{Z: 1},
				Size: Vector3{X: 1, Y: 1, Z: 1},
			}},
			"block axes",
		},
		{
			"singular ellipsoid axes",
			Object{Material: Air, Shape: Ellipsoid{Block{
				E1: Vector3{X: 1}, E2: Vector3{Y: 1}, E3: Vector3{X: 1, Y: 1},
				Size: Vector3{X: 1, Y: 1, Z: 1},
			}}},
			"ellipsoid axes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate([]Object{tt.obj})
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) == 0 {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(errs[0].Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", errs[0].Error(), tt.wantErr)
			}
			if errs[0].Severity != SeverityError {
				t.Errorf("severity = %s, want error", errs[0].Severity)
			}
		})
	}
}

func TestValidationErrorFormat(t *testing.T) {
	e := ValidationError{Index: 3, Message: "bad", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] object 3: bad" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidateInRegion(t *testing.T) {
	region := NewBox(Vector3{X: -1, Y: -1, Z: -1}, Vector3{X: 1, Y: 1, Z: 1})
	objs := []Object{
		{Material: Air, Shape: Sphere{Radius: 0.5}},
		{Material: Air, Center: Vector3{X: 5}, Shape: Sphere{Radius: 1}},
		{Material: Air, Center: Vector3{X: 1.5}, Shape: Sphere{Radius: 1}},
		{Material: Air},
	}
	warnings := ValidateInRegion(objs, region)
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	w := warnings[0]
	if w.Index != 1 || w.Severity != SeverityWarning {
		t.Errorf("warning = %+v", w)
	}
	if !strings.Contains(w.Message, "sphere lies outside") {
		t.Errorf("message = %q", w.Message)
	}
}
