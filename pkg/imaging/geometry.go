package imaging

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"livewire/internal/models"
)

// Geometry maps pixel indices to world coordinates and back.
//
// A continuous index c maps to world space as
//
//	world = origin + D · diag(spacing) · c
//
// where D is the 3×3 direction (orientation) matrix. Integer indices sit at
// pixel centres. 2D images use an extent of 1 along z.
type Geometry struct {
	origin    models.Point3D
	spacing   [3]float64
	direction *mat.Dense
	extent    [3]int

	indexToWorld *mat.Dense
	worldToIndex *mat.Dense
}

// NewGeometry validates the parameters and precomputes both transforms.
// A nil direction is the identity.
func NewGeometry(origin models.Point3D, spacing [3]float64, direction *mat.Dense, extent [3]int) (*Geometry, error) {
	for i, s := range spacing {
		if !(s > 0) {
			return nil, fmt.Errorf("%w: spacing[%d]=%g", ErrBadSpacing, i, s)
		}
	}
	for i, e := range extent {
		if e <= 0 {
			return nil, fmt.Errorf("%w: extent[%d]=%d", ErrBadExtent, i, e)
		}
	}

	dir := mat.NewDense(3, 3, nil)
	if direction == nil {
		for i := 0; i < 3; i++ {
			dir.Set(i, i, 1)
		}
	} else {
		if r, c := direction.Dims(); r != 3 || c != 3 {
			return nil, fmt.Errorf("%w: direction must be 3x3, got %dx%d", ErrSingularGeometry, r, c)
		}
		dir.Copy(direction)
	}

	scale := mat.NewDiagDense(3, spacing[:])
	m := mat.NewDense(3, 3, nil)
	m.Mul(dir, scale)

	if math.Abs(mat.Det(m)) < 1e-12 {
		return nil, ErrSingularGeometry
	}
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularGeometry, err)
	}

	return &Geometry{
		origin:       origin,
		spacing:      spacing,
		direction:    dir,
		extent:       extent,
		indexToWorld: m,
		worldToIndex: inv,
	}, nil
}

// NewGeometry2D builds an axis-aligned geometry for a width×height slice.
func NewGeometry2D(width, height int, spacingX, spacingY, originX, originY float64) (*Geometry, error) {
	return NewGeometry(
		models.Point3D{X: originX, Y: originY},
		[3]float64{spacingX, spacingY, 1},
		nil,
		[3]int{width, height, 1},
	)
}

// Origin returns the world position of index (0,0,0).
func (g *Geometry) Origin() models.Point3D { return g.origin }

// Spacing returns the pixel spacing along each axis.
func (g *Geometry) Spacing() [3]float64 { return g.spacing }

// Extent returns the number of pixels along each axis.
func (g *Geometry) Extent() [3]int { return g.extent }

// Direction returns a copy of the direction matrix.
func (g *Geometry) Direction() *mat.Dense { return mat.DenseCopyOf(g.direction) }

// Bounds returns the 2D region of valid indices.
func (g *Geometry) Bounds() models.Region {
	return models.NewRegion(models.Index{}, g.extent[0], g.extent[1])
}

// ContinuousIndexToWorld maps a (possibly fractional) index to world space.
func (g *Geometry) ContinuousIndexToWorld(c models.Point3D) models.Point3D {
	var w mat.VecDense
	w.MulVec(g.indexToWorld, mat.NewVecDense(3, []float64{c.X, c.Y, c.Z}))
	return models.Point3D{
		X: g.origin.X + w.AtVec(0),
		Y: g.origin.Y + w.AtVec(1),
		Z: g.origin.Z + w.AtVec(2),
	}
}

// IndexToWorld maps the centre of a pixel to world space (z index 0).
func (g *Geometry) IndexToWorld(idx models.Index) models.Point3D {
	return g.ContinuousIndexToWorld(models.Point3D{X: float64(idx.X), Y: float64(idx.Y)})
}

// WorldToContinuousIndex maps a world point to a fractional index.
func (g *Geometry) WorldToContinuousIndex(p models.Point3D) models.Point3D {
	d := p.Sub(g.origin)
	var c mat.VecDense
	c.MulVec(g.worldToIndex, mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))
	return models.Point3D{X: c.AtVec(0), Y: c.AtVec(1), Z: c.AtVec(2)}
}

// WorldToIndex maps a world point to the nearest pixel of the z = 0 slice,
// rounding halves up. Use IsInside to check the z axis as well.
func (g *Geometry) WorldToIndex(p models.Point3D) models.Index {
	c := g.WorldToContinuousIndex(p)
	return models.Index{X: roundHalfUp(c.X), Y: roundHalfUp(c.Y)}
}

// IsIndexInside reports whether idx addresses a pixel of the image.
func (g *Geometry) IsIndexInside(idx models.Index) bool {
	return idx.X >= 0 && idx.X < g.extent[0] && idx.Y >= 0 && idx.Y < g.extent[1]
}

// IsInside reports whether p falls on a pixel of the image on all three
// axes. A 2D image has one z slab, so points off the slice plane by half a
// z spacing or more are outside.
func (g *Geometry) IsInside(p models.Point3D) bool {
	c := g.WorldToContinuousIndex(p)
	idx := [3]int{roundHalfUp(c.X), roundHalfUp(c.Y), roundHalfUp(c.Z)}
	for i, v := range idx {
		if v < 0 || v >= g.extent[i] {
			return false
		}
	}
	return true
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
