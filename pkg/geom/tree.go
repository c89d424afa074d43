package geom

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// R-tree branching factors for the box tree.
const (
	treeMinChildren = 2
	treeMaxChildren = 8
)

// BoxTree is a bounding-box tree over a list of objects, restricted to a
// region. Objects whose bounding box misses the region are not indexed,
// and indexed boxes are clipped to it.
//
// A BoxTree borrows its object slice; the caller must not modify it while
// the tree is in use. Destroy releases the index; later queries panic.
type BoxTree struct {
	rt        *rtreego.Rtree
	objects   []Object
	region    Box
	entries   []*treeEntry
	destroyed bool
}

// treeEntry is one indexed object.
type treeEntry struct {
	index int // position in the object list; later objects take precedence
	box   Box // bounding box clipped to the tree region
	rect  rtreego.Rect
}

func (e *treeEntry) Bounds() rtreego.Rect { return e.rect }

// NewBoxTree builds a tree over the objects of objs that meet region.
func NewBoxTree(objs []Object, region Box) *BoxTree {
	t := &BoxTree{objects: objs, region: region}
	spatials := make([]rtreego.Spatial, 0, len(objs))
	for i, obj := range objs {
		bb := obj.BoundingBox()
		if !bb.Intersects(region) {
			continue
		}
		clipped := bb.Intersect(region)
		e := &treeEntry{index: i, box: clipped, rect: toRect(clipped)}
		t.entries = append(t.entries, e)
		spatials = append(spatials, e)
	}
	t.rt = rtreego.NewTree(3, treeMinChildren, treeMaxChildren, spatials...)
	return t
}

// Region returns the box the tree was restricted to.
func (t *BoxTree) Region() Box {
	return t.region
}

// ObjectAt returns the index of the object containing p. When several
// objects contain p, the one latest in the list wins. The second result
// is false when p is in no indexed object.
func (t *BoxTree) ObjectAt(p Vector3) (int, bool) {
	t.mustBeLive()
	best := -1
	for _, s := range t.rt.SearchIntersect(pointRect(p)) {
		e := s.(*treeEntry)
		if e.index <= best || !e.box.Contains(p) {
			continue
		}
		if t.objects[e.index].Contains(p) {
			best = e.index
		}
	}
	return best, best >= 0
}

// MaterialAt returns the material of the object containing p, or
// (nil, false) when p lies in no object. The material is borrowed from
// the object list.
func (t *BoxTree) MaterialAt(p Vector3) (Material, bool) {
	i, ok := t.ObjectAt(p)
	if !ok {
		return nil, false
	}
	return t.objects[i].Material, true
}

// Stats returns the tree depth and the number of object nodes.
func (t *BoxTree) Stats() (depth, nodes int) {
	t.mustBeLive()
	return t.rt.Depth(), t.rt.Size()
}

// Display writes the tree region and its indexed object boxes, indented
// by indent spaces.
func (t *BoxTree) Display(w io.Writer, indent int) {
	t.mustBeLive()
	fmt.Fprintf(w, "%*sbox %s\n", indent, "", t.region)
	sorted := make([]*treeEntry, len(t.entries))
	copy(sorted, t.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].index < sorted[j].index })
	for _, e := range sorted {
		fmt.Fprintf(w, "%*sobject %d (%s), box %s\n",
			indent+5, "", e.index, t.objects[e.index].Shape.Kind(), e.box)
	}
}

// Destroy releases the index. It is safe to call more than once.
func (t *BoxTree) Destroy() {
	t.rt = nil
	t.entries = nil
	t.objects = nil
	t.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (t *BoxTree) Destroyed() bool {
	return t.destroyed
}

func (t *BoxTree) mustBeLive() {
	if t.destroyed {
		panic("geom: use of destroyed box tree")
	}
}

// pad widens a coordinate slightly so degenerate (zero-width) boxes still
// overlap a query under rtreego's strict intersection test.
func pad(x float64) float64 {
	return 1e-9 * math.Max(1, math.Abs(x))
}

func toRect(b Box) rtreego.Rect {
	lo := rtreego.Point{b.Low.X - pad(b.Low.X), b.Low.Y - pad(b.Low.Y), b.Low.Z - pad(b.Low.Z)}
	hi := rtreego.Point{b.High.X + pad(b.High.X), b.High.Y + pad(b.High.Y), b.High.Z + pad(b.High.Z)}
	r, err := rtreego.NewRectFromPoints(lo, hi)
	if err != nil {
		panic(fmt.Sprintf("geom: box rect: %v", err))
	}
	return r
}

func pointRect(p Vector3) rtreego.Rect {
	tol := pad(math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z)))) / 2
	return rtreego.Point{p.X, p.Y, p.Z}.ToRect(tol)
}
