package geom

import "fmt"

// ValidationSeverity indicates whether a finding blocks the run or is
// advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks the run
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single finding about one object.
type ValidationError struct {
	Index    int // position in the object list
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] object %d: %s", e.Severity, e.Index, e.Message)
}

// Validate checks object parameters. It never mutates objs.
func Validate(objs []Object) []ValidationError {
	var errs []ValidationError
	add := func(i int, format string, args ...any) {
		errs = append(errs, ValidationError{
			Index:    i,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for i, obj := range objs {
		if obj.Material == nil {
			add(i, "missing material")
		}
		switch s := obj.Shape.(type) {
		case nil:
			add(i, "missing shape")
		case Sphere:
			if s.Radius < 0 {
				add(i, "sphere radius is %g, must be non-negative", s.Radius)
			}
		case Cylinder:
			if s.Radius < 0 {
				add(i, "cylinder radius is %g, must be non-negative", s.Radius)
			}
			if s.Height < 0 {
				add(i, "cylinder height is %g, must be non-negative", s.Height)
			}
		case Cone:
			if s.Radius < 0 || s.Radius2 < 0 {
				add(i, "cone radii are %g and %g, must be non-negative", s.Radius, s.Radius2)
			}
			if s.Height < 0 {
				add(i, "cone height is %g, must be non-negative", s.Height)
			}
		case Block:
			errs = append(errs, validateBlock(i, "block", s)...)
		case Ellipsoid:
			errs = append(errs, validateBlock(i, "ellipsoid", s.Block)...)
		}
	}
	return errs
}

func validateBlock(i int, kind string, b Block) []ValidationError {
	var errs []ValidationError
	if b.Size.X < 0 || b.Size.Y < 0 || b.Size.Z < 0 {
		errs = append(errs, ValidationError{
			Index:    i,
			Message:  fmt.Sprintf("%s size is %s, must be non-negative", kind, b.Size),
			Severity: SeverityError,
		})
	}
	if _, err := b.fix(); err != nil {
		errs = append(errs, ValidationError{
			Index:    i,
			Message:  fmt.Sprintf("%s axes: %v", kind, err),
			Severity: SeverityError,
		})
	}
	return errs
}

// ValidateInRegion warns about objects that lie entirely outside region;
// such objects never affect the structure.
func ValidateInRegion(objs []Object, region Box) []ValidationError {
	var warnings []ValidationError
	for i, obj := range objs {
		if obj.Shape == nil {
			continue
		}
		if !obj.BoundingBox().Intersects(region) {
			warnings = append(warnings, ValidationError{
				Index:    i,
				Message:  fmt.Sprintf("%s lies outside %s", obj.Shape.Kind(), region),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}
