package geom

import (
	"fmt"
	"io"
)

// DisplayObject writes a human-readable description of obj, indented by
// indent spaces.
func DisplayObject(w io.Writer, indent int, obj Object) {
	kind := "object"
	if obj.Shape != nil {
		kind = obj.Shape.Kind()
	}
	fmt.Fprintf(w, "%*s%s, center = %s\n", indent, "", kind, obj.Center)

	in := indent + 5
	switch s := obj.Shape.(type) {
	case Sphere:
		fmt.Fprintf(w, "%*sradius %g\n", in, "", s.Radius)
	case Cylinder:
		fmt.Fprintf(w, "%*sradius %g, height %g, axis %s\n", in, "", s.Radius, s.Height, s.Axis)
	case Cone:
		fmt.Fprintf(w, "%*sradius %g, radius2 %g, height %g, axis %s\n", in, "", s.Radius, s.Radius2, s.Height, s.Axis)
	case Block:
		displayBlock(w, in, s)
	case Ellipsoid:
		displayBlock(w, in, s.Block)
	}
}

func displayBlock(w io.Writer, indent int, b Block) {
	e1, e2, e3 := b.axes()
	fmt.Fprintf(w, "%*ssize %s\n", indent, "", b.Size)
	fmt.Fprintf(w, "%*saxes %s, %s, %s\n", indent, "", e1, e2, e3)
}
