package imaging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"livewire/internal/models"
)

func rotationZ(deg float64) *mat.Dense {
	s, c := math.Sincos(deg * math.Pi / 180)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

func TestGeometry_IndexToWorld(t *testing.T) {
	g, err := NewGeometry2D(8, 6, 2, 3, 1, 1)
	require.NoError(t, err)

	got := g.IndexToWorld(models.Index{X: 2, Y: 1})
	assert.InDelta(t, 5.0, got.X, 1e-12)
	assert.InDelta(t, 4.0, got.Y, 1e-12)
	assert.InDelta(t, 0.0, got.Z, 1e-12)
}

func TestGeometry_RoundTrip(t *testing.T) {
	g, err := NewGeometry(
		models.Point3D{X: 10, Y: -5, Z: 3},
		[3]float64{0.5, 2, 1},
		rotationZ(30),
		[3]int{12, 9, 1},
	)
	require.NoError(t, err)

	for y := 0; y < 9; y++ {
		for x := 0; x < 12; x++ {
			idx := models.Index{X: x, Y: y}
			w := g.IndexToWorld(idx)
			require.Equal(t, idx, g.WorldToIndex(w), "round trip of %v via %+v", idx, w)
		}
	}
}

func TestGeometry_WorldToIndexRounding(t *testing.T) {
	g, err := NewGeometry2D(4, 4, 1, 1, 0, 0)
	require.NoError(t, err)

	cases := []struct {
		x    float64
		want int
	}{
		{1.49, 1},
		{1.5, 2},
		{-0.5, 0},
		{-0.51, -1},
		{3.4, 3},
	}
	for _, c := range cases {
		got := g.WorldToIndex(models.Point3D{X: c.x})
		assert.Equal(t, c.want, got.X, "x=%g", c.x)
	}

	assert.True(t, g.IsIndexInside(models.Index{X: 0, Y: 0}))
	assert.True(t, g.IsIndexInside(models.Index{X: 3, Y: 3}))
	assert.False(t, g.IsIndexInside(models.Index{X: -1, Y: 0}))
	assert.False(t, g.IsIndexInside(models.Index{X: 0, Y: 4}))
}

func TestGeometry_ContinuousIndex(t *testing.T) {
	g, err := NewGeometry(models.Point3D{X: 1, Y: 2}, [3]float64{0.5, 0.25, 1}, rotationZ(90), [3]int{4, 4, 1})
	require.NoError(t, err)

	c := models.Point3D{X: 1.25, Y: 2.5}
	back := g.WorldToContinuousIndex(g.ContinuousIndexToWorld(c))
	assert.InDelta(t, c.X, back.X, 1e-12)
	assert.InDelta(t, c.Y, back.Y, 1e-12)
	assert.InDelta(t, 0.0, back.Z, 1e-12)

	// A 90° rotation sends the index x axis to world +y.
	w := g.IndexToWorld(models.Index{X: 2, Y: 0})
	assert.InDelta(t, 1.0, w.X, 1e-12)
	assert.InDelta(t, 3.0, w.Y, 1e-12)
}

func TestNewGeometry_Invalid(t *testing.T) {
	_, err := NewGeometry(models.Point3D{}, [3]float64{1, 0, 1}, nil, [3]int{2, 2, 1})
	assert.ErrorIs(t, err, ErrBadSpacing)

	_, err = NewGeometry(models.Point3D{}, [3]float64{1, 1, 1}, nil, [3]int{2, 0, 1})
	assert.ErrorIs(t, err, ErrBadExtent)

	_, err = NewGeometry(models.Point3D{}, [3]float64{1, 1, 1}, mat.NewDense(3, 3, nil), [3]int{2, 2, 1})
	assert.ErrorIs(t, err, ErrSingularGeometry)

	_, err = NewGeometry(models.Point3D{}, [3]float64{1, 1, 1}, mat.NewDense(2, 2, []float64{1, 0, 0, 1}), [3]int{2, 2, 1})
	assert.ErrorIs(t, err, ErrSingularGeometry)
}

func TestGeometry_DirectionIsCopied(t *testing.T) {
	dir := rotationZ(45)
	g, err := NewGeometry(models.Point3D{}, [3]float64{1, 1, 1}, dir, [3]int{3, 3, 1})
	require.NoError(t, err)

	before := g.IndexToWorld(models.Index{X: 1, Y: 1})
	dir.Set(0, 0, 100)
	after := g.IndexToWorld(models.Index{X: 1, Y: 1})
	assert.Equal(t, before, after)
	assert.Equal(t, models.NewRegion(models.Index{}, 3, 3), g.Bounds())
}

func TestGeometry_IsInsideChecksSlicePlane(t *testing.T) {
	g, err := NewGeometry2D(10, 10, 1, 1, 0, 0)
	require.NoError(t, err)

	assert.True(t, g.IsInside(models.Point3D{X: 9, Y: 9}))
	assert.True(t, g.IsInside(models.Point3D{X: 2, Y: 3, Z: 0.49}))
	assert.True(t, g.IsInside(models.Point3D{X: 2, Y: 3, Z: -0.5}))
	assert.False(t, g.IsInside(models.Point3D{X: 2, Y: 3, Z: 0.5}))
	assert.False(t, g.IsInside(models.Point3D{X: 2, Y: 3, Z: 500}))
	assert.False(t, g.IsInside(models.Point3D{X: 9.5, Y: 0}))
	assert.False(t, g.IsInside(models.Point3D{X: 0, Y: -0.51}))

	// WorldToIndex drops z, so the in-plane index alone cannot tell.
	assert.True(t, g.IsIndexInside(g.WorldToIndex(models.Point3D{X: 2, Y: 3, Z: 500})))
}
