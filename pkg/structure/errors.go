package structure

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDimensionality is returned for a dimensions value other
	// than 0, 1, 2, 3 or Cylindrical.
	ErrUnsupportedDimensionality = errors.New("unsupported dimensionality")

	// ErrUnknownMaterial is returned when a material descriptor is none of
	// the known kinds.
	ErrUnknownMaterial = errors.New("unknown material type")

	// ErrMaterialLoop is returned when a material function keeps returning
	// material functions.
	ErrMaterialLoop = errors.New("infinite loop in material functions")
)

// FatalError is the panic value raised by GeomEpsilon.Eps when a point
// cannot be resolved. It wraps one of the errors above.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
