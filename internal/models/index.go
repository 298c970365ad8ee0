package models

import "fmt"

// Index identifies a single pixel of a 2D image by its integer grid position.
type Index struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// String returns the index formatted as "(x,y)".
func (i Index) String() string {
	return fmt.Sprintf("(%d,%d)", i.X, i.Y)
}

// Add returns the index shifted by the given offsets.
func (i Index) Add(dx, dy int) Index {
	return Index{X: i.X + dx, Y: i.Y + dy}
}

// Point3D is a point in world (physical) space, in mm.
// 2D images place their pixels on the z = 0 plane.
type Point3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// SquaredDistance returns the squared Euclidean distance between p and q.
func (p Point3D) SquaredDistance(q Point3D) float64 {
	d := p.Sub(q)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}
