// Package contour holds the geometric output of the live-wire engine: an
// ordered list of world-space vertices.
package contour

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"livewire/internal/models"
)

// Vertex is a single contour point.
type Vertex struct {
	Point models.Point3D `json:"point"`

	// IsControlPoint marks vertices placed by the user rather than traced.
	IsControlPoint bool `json:"isControlPoint,omitempty"`
}

// Contour is an ordered polyline in world coordinates. The zero value is an
// empty open contour.
type Contour struct {
	vertices []Vertex
	closed   bool
}

// New returns an empty contour.
func New() *Contour {
	return &Contour{}
}

// AddVertex appends a traced vertex.
func (c *Contour) AddVertex(p models.Point3D) {
	c.vertices = append(c.vertices, Vertex{Point: p})
}

// AddControlVertex appends a user-placed vertex.
func (c *Contour) AddControlVertex(p models.Point3D) {
	c.vertices = append(c.vertices, Vertex{Point: p, IsControlPoint: true})
}

// SetControlPoint changes whether the i-th vertex is a control point.
// It panics when i is out of range.
func (c *Contour) SetControlPoint(i int, on bool) {
	c.vertices[i].IsControlPoint = on
}

// NumberOfVertices returns the vertex count.
func (c *Contour) NumberOfVertices() int { return len(c.vertices) }

// IsEmpty reports whether the contour has no vertices.
func (c *Contour) IsEmpty() bool { return len(c.vertices) == 0 }

// VertexAt returns the i-th vertex. It panics when i is out of range.
func (c *Contour) VertexAt(i int) Vertex { return c.vertices[i] }

// Vertices returns a copy of all vertices in order.
func (c *Contour) Vertices() []Vertex {
	out := make([]Vertex, len(c.vertices))
	copy(out, c.vertices)
	return out
}

// Points returns the vertex positions in order.
func (c *Contour) Points() []models.Point3D {
	out := make([]models.Point3D, len(c.vertices))
	for i, v := range c.vertices {
		out[i] = v.Point
	}
	return out
}

// Clear removes all vertices and reopens the contour.
func (c *Contour) Clear() {
	c.vertices = nil
	c.closed = false
}

// Close marks the contour as a closed loop.
func (c *Contour) Close() { c.closed = true }

// IsClosed reports whether Close was called.
func (c *Contour) IsClosed() bool { return c.closed }

// Length returns the polyline length, including the closing segment for
// closed contours.
func (c *Contour) Length() float64 {
	var total float64
	for i := 1; i < len(c.vertices); i++ {
		total += math.Sqrt(c.vertices[i].Point.SquaredDistance(c.vertices[i-1].Point))
	}
	if c.closed && len(c.vertices) > 2 {
		total += math.Sqrt(c.vertices[0].Point.SquaredDistance(c.vertices[len(c.vertices)-1].Point))
	}
	return total
}

// Concatenate appends the vertices of other. With skipFirst the first vertex
// of other is dropped, which joins segments that share an end point.
func (c *Contour) Concatenate(other *Contour, skipFirst bool) {
	if other == nil {
		return
	}
	vs := other.vertices
	if skipFirst && len(vs) > 0 {
		vs = vs[1:]
	}
	c.vertices = append(c.vertices, vs...)
}

// VertexNear returns the index of the vertex closest to p when it lies
// within eps, and false otherwise.
func (c *Contour) VertexNear(p models.Point3D, eps float64) (int, bool) {
	if len(c.vertices) == 0 || eps < 0 {
		return -1, false
	}
	pts := make(indexedPoints, len(c.vertices))
	for i, v := range c.vertices {
		pts[i] = indexedPoint{Point3D: v.Point, index: i}
	}
	tree := kdtree.New(pts, false)
	got, dist := tree.Nearest(indexedPoint{Point3D: p, index: -1})
	if got == nil || dist > eps*eps {
		return -1, false
	}
	return got.(indexedPoint).index, true
}

// indexedPoint is a vertex position that remembers its place in the contour.
type indexedPoint struct {
	models.Point3D
	index int
}

// Compare implements kdtree.Comparable.
func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	default:
		panic("illegal dimension")
	}
}

// Dims implements kdtree.Comparable.
func (p indexedPoint) Dims() int { return 3 }

// Distance implements kdtree.Comparable and returns the squared distance.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	return p.SquaredDistance(c.(indexedPoint).Point3D)
}

type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p indexedPoints) Len() int                              { return len(p) }
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(pointPlane{indexedPoints: p, Dim: d}, kdtree.MedianOfMedians(pointPlane{indexedPoints: p, Dim: d}))
}

// pointPlane sorts points along a single dimension for kdtree partitioning.
type pointPlane struct {
	indexedPoints
	kdtree.Dim
}

func (p pointPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.indexedPoints[i].X < p.indexedPoints[j].X
	case 1:
		return p.indexedPoints[i].Y < p.indexedPoints[j].Y
	case 2:
		return p.indexedPoints[i].Z < p.indexedPoints[j].Z
	default:
		panic("illegal dimension")
	}
}

func (p pointPlane) Slice(start, end int) kdtree.SortSlicer {
	return pointPlane{indexedPoints: p.indexedPoints[start:end], Dim: p.Dim}
}

func (p pointPlane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}
