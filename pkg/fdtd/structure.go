package fdtd

import (
	"fmt"
	"math"
)

// MaterialFunction supplies permittivity to the structure constructor.
// SetVolume announces the region of the next batch of Eps queries;
// UnsetVolume ends it.
type MaterialFunction interface {
	Eps(r Vec) float64
	SetVolume(gv GeometricVolume)
	UnsetVolume()
}

// Symmetry describes the symmetry group of a run. It is carried on the
// Structure but never used to fold fields.
type Symmetry struct {
	name string
}

// Identity is the trivial symmetry.
func Identity() Symmetry { return Symmetry{name: "identity"} }

func (s Symmetry) String() string {
	if s.name == "" {
		return "identity"
	}
	return s.name
}

// BoundaryRegion describes absorbing layers around the volume.
type BoundaryRegion struct {
	thickness float64
}

// NoPML is the boundary region with no absorbing layers.
func NoPML() BoundaryRegion { return BoundaryRegion{} }

// HasPML reports whether any absorbing layer is present.
func (b BoundaryRegion) HasPML() bool { return b.thickness > 0 }

// Chunk is one slab of the grid with its sampled permittivity.
type Chunk struct {
	Volume Volume
	Eps    []float64 // indexed i + ni*(j + nj*k)
}

// At returns the permittivity of cell (i, j, k).
func (c *Chunk) At(i, j, k int) float64 {
	ni, nj := c.Volume.layers(0), c.Volume.layers(1)
	return c.Eps[i+ni*(j+nj*k)]
}

// Structure is the allocated simulation grid with permittivity sampled
// at every cell center.
type Structure struct {
	volume   Volume
	chunks   []*Chunk
	symmetry Symmetry
	boundary BoundaryRegion
}

// NewStructure splits v into numChunks chunks and samples mf over each,
// bracketing every chunk with SetVolume/UnsetVolume. A panic raised by mf
// is returned as an error.
func NewStructure(v Volume, mf MaterialFunction, br BoundaryRegion, s Symmetry, numChunks int) (st *Structure, err error) {
	if v.a <= 0 {
		return nil, fmt.Errorf("structure: resolution must be positive, got %g", v.a)
	}
	st = &Structure{volume: v, symmetry: s, boundary: br}
	for _, cv := range v.Split(numChunks) {
		c, err := sampleChunk(cv, mf)
		if err != nil {
			return nil, err
		}
		st.chunks = append(st.chunks, c)
	}
	return st, nil
}

func sampleChunk(cv Volume, mf MaterialFunction) (c *Chunk, err error) {
	mf.SetVolume(cv.Surroundings())
	defer mf.UnsetVolume()
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("structure: %w", e)
				return
			}
			err = fmt.Errorf("structure: %v", r)
		}
	}()

	ni, nj, nk := cv.layers(0), cv.layers(1), cv.layers(2)
	c = &Chunk{Volume: cv, Eps: make([]float64, 0, ni*nj*nk)}
	for k := 0; k < nk; k++ {
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				c.Eps = append(c.Eps, mf.Eps(cv.Loc(i, j, k)))
			}
		}
	}
	return c, nil
}

// Volume returns the grid volume.
func (s *Structure) Volume() Volume { return s.volume }

// Chunks returns the sampled chunks.
func (s *Structure) Chunks() []*Chunk { return s.chunks }

// Symmetry returns the symmetry descriptor.
func (s *Structure) Symmetry() Symmetry { return s.symmetry }

// Boundary returns the boundary region.
func (s *Structure) Boundary() BoundaryRegion { return s.boundary }

// EpsAt returns the permittivity of the cell containing p.
func (s *Structure) EpsAt(p Vec) (float64, bool) {
	for _, c := range s.chunks {
		if i, j, k, ok := c.Volume.index(p); ok {
			return c.At(i, j, k), true
		}
	}
	return 0, false
}

// EpsRange returns the smallest and largest sampled permittivity.
func (s *Structure) EpsRange() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, c := range s.chunks {
		for _, e := range c.Eps {
			min = math.Min(min, e)
			max = math.Max(max, e)
		}
	}
	return min, max
}
