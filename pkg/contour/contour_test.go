package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livewire/internal/models"
)

func triangle() *Contour {
	c := New()
	c.AddControlVertex(models.Point3D{X: 0, Y: 0})
	c.AddVertex(models.Point3D{X: 3, Y: 0})
	c.AddVertex(models.Point3D{X: 3, Y: 4})
	return c
}

func TestContour_Length(t *testing.T) {
	c := triangle()
	assert.Equal(t, 3, c.NumberOfVertices())
	assert.InDelta(t, 7.0, c.Length(), 1e-12)
	assert.False(t, c.IsClosed())

	c.Close()
	assert.True(t, c.IsClosed())
	assert.InDelta(t, 12.0, c.Length(), 1e-12)

	assert.Zero(t, New().Length())
}

func TestContour_Vertices(t *testing.T) {
	c := triangle()
	assert.True(t, c.VertexAt(0).IsControlPoint)
	assert.False(t, c.VertexAt(1).IsControlPoint)

	c.SetControlPoint(2, true)
	assert.True(t, c.VertexAt(2).IsControlPoint)

	vs := c.Vertices()
	vs[0].Point.X = 100
	assert.Zero(t, c.VertexAt(0).Point.X, "Vertices must return a copy")

	assert.Equal(t, []models.Point3D{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}, c.Points())
	assert.Panics(t, func() { c.VertexAt(3) })
}

func TestContour_Concatenate(t *testing.T) {
	a := New()
	a.AddVertex(models.Point3D{X: 0})
	a.AddVertex(models.Point3D{X: 1})

	b := New()
	b.AddVertex(models.Point3D{X: 1})
	b.AddVertex(models.Point3D{X: 2})

	joined := New()
	joined.Concatenate(a, false)
	joined.Concatenate(b, true)
	assert.Equal(t, []models.Point3D{{X: 0}, {X: 1}, {X: 2}}, joined.Points())

	joined.Concatenate(b, false)
	assert.Equal(t, 5, joined.NumberOfVertices())

	joined.Concatenate(nil, true)
	joined.Concatenate(New(), true)
	assert.Equal(t, 5, joined.NumberOfVertices())
}

func TestContour_VertexNear(t *testing.T) {
	c := New()
	for i := 0; i < 20; i++ {
		c.AddVertex(models.Point3D{X: float64(i * 10), Y: float64(i % 3)})
	}

	i, ok := c.VertexNear(models.Point3D{X: 9, Y: 1}, 2)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = c.VertexNear(models.Point3D{X: 9, Y: 1}, 0.5)
	assert.False(t, ok)

	i, ok = c.VertexNear(models.Point3D{X: 190, Y: 1}, 0)
	require.True(t, ok)
	assert.Equal(t, 19, i)

	_, ok = New().VertexNear(models.Point3D{}, 10)
	assert.False(t, ok)
}

func TestContour_Clear(t *testing.T) {
	c := triangle()
	c.Close()
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.False(t, c.IsClosed())
}
