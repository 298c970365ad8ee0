package models

// Region is an axis-aligned box of pixels: Index is the lowest corner and
// Size the number of pixels along each axis.
type Region struct {
	Index Index
	Size  Size
}

// Size is the extent of a region in pixels.
type Size struct {
	X, Y int
}

// NewRegion creates a region from its lowest corner and its extent.
func NewRegion(origin Index, sizeX, sizeY int) Region {
	return Region{Index: origin, Size: Size{X: sizeX, Y: sizeY}}
}

// RegionFromCorners returns the smallest region that contains both a and b.
func RegionFromCorners(a, b Index) Region {
	lo := Index{X: min(a.X, b.X), Y: min(a.Y, b.Y)}
	return NewRegion(lo, abs(a.X-b.X)+1, abs(a.Y-b.Y)+1)
}

// IsEmpty reports whether the region covers no pixels.
func (r Region) IsEmpty() bool {
	return r.Size.X <= 0 || r.Size.Y <= 0
}

// NumberOfPixels returns Size.X * Size.Y, or 0 for an empty region.
func (r Region) NumberOfPixels() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Size.X * r.Size.Y
}

// Upper returns the highest index still inside the region.
func (r Region) Upper() Index {
	return Index{X: r.Index.X + r.Size.X - 1, Y: r.Index.Y + r.Size.Y - 1}
}

// Contains reports whether idx lies inside the region.
func (r Region) Contains(idx Index) bool {
	return idx.X >= r.Index.X && idx.X < r.Index.X+r.Size.X &&
		idx.Y >= r.Index.Y && idx.Y < r.Index.Y+r.Size.Y
}

// ContainsRegion reports whether other lies completely inside r.
func (r Region) ContainsRegion(other Region) bool {
	if other.IsEmpty() {
		return false
	}
	return r.Contains(other.Index) && r.Contains(other.Upper())
}

// Offset maps idx to its region-local row-major offset.
// The caller must make sure idx is inside the region.
func (r Region) Offset(idx Index) int {
	return (idx.Y-r.Index.Y)*r.Size.X + (idx.X - r.Index.X)
}

// IndexAt is the inverse of Offset.
func (r Region) IndexAt(offset int) Index {
	return Index{X: r.Index.X + offset%r.Size.X, Y: r.Index.Y + offset/r.Size.X}
}

// Clip returns the intersection of r and other. The result is empty when
// they do not overlap.
func (r Region) Clip(other Region) Region {
	lo := Index{X: max(r.Index.X, other.Index.X), Y: max(r.Index.Y, other.Index.Y)}
	hiX := min(r.Index.X+r.Size.X, other.Index.X+other.Size.X)
	hiY := min(r.Index.Y+r.Size.Y, other.Index.Y+other.Size.Y)
	if hiX <= lo.X || hiY <= lo.Y {
		return NewRegion(lo, 0, 0)
	}
	return NewRegion(lo, hiX-lo.X, hiY-lo.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
