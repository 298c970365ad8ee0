// Package imaging provides the image abstraction consumed by the live-wire
// engine: scalar pixel storage, the index/world geometry of an image, the
// float cast required by the cost function and a gradient magnitude filter.
package imaging

import (
	"errors"
	"fmt"

	"livewire/internal/models"
)

// Sentinel errors returned by the imaging package.
var (
	// ErrBadExtent indicates an image extent with no axes, more than three
	// axes, or a non-positive axis length.
	ErrBadExtent = errors.New("imaging: extent must have 1-3 positive axes")

	// ErrPixelCount indicates that a pixel buffer does not match the extent.
	ErrPixelCount = errors.New("imaging: pixel buffer length does not match extent")

	// ErrBadSpacing indicates a spacing component that is not strictly positive.
	ErrBadSpacing = errors.New("imaging: spacing must be positive")

	// ErrSingularGeometry indicates a direction/spacing combination that
	// cannot be inverted, so world points cannot be mapped back to indices.
	ErrSingularGeometry = errors.New("imaging: index-to-world transform is singular")

	// ErrNot2D indicates an operation that only supports 2D images.
	ErrNot2D = errors.New("imaging: image is not 2D")
)

// Pixel lists the scalar sample types an image may hold.
type Pixel interface {
	~uint8 | ~uint16 | ~int16 | ~int32 | ~float32 | ~float64
}

// Image is the read-only view of an N-dimensional scalar image.
type Image interface {
	// Dimension returns the number of axes (2 for a slice).
	Dimension() int

	// Extent returns the number of pixels along each axis.
	Extent() []int

	// Geometry returns the index/world mapping of the image.
	Geometry() *Geometry

	// SampleAt returns the pixel at the given row-major offset as float64.
	SampleAt(offset int) float64
}

// ScalarImage is a row-major image of samples of type T.
type ScalarImage[T Pixel] struct {
	extent   []int
	pix      []T
	geometry *Geometry
}

// FloatImage is the single-channel floating point image the cost function
// and the search engine operate on.
type FloatImage = ScalarImage[float32]

// NewScalarImage allocates a zero-filled image. A nil geometry is replaced
// by a unit-spacing geometry at the origin; any other geometry must have the
// same extent as the pixels.
func NewScalarImage[T Pixel](geometry *Geometry, extent ...int) (*ScalarImage[T], error) {
	n, err := pixelCount(extent)
	if err != nil {
		return nil, err
	}
	return newScalarImage(geometry, extent, make([]T, n))
}

// NewScalarImageFromPix wraps an existing pixel buffer. The buffer is not copied.
func NewScalarImageFromPix[T Pixel](geometry *Geometry, pix []T, extent ...int) (*ScalarImage[T], error) {
	n, err := pixelCount(extent)
	if err != nil {
		return nil, err
	}
	if len(pix) != n {
		return nil, fmt.Errorf("%w: got %d pixels, extent %v needs %d", ErrPixelCount, len(pix), extent, n)
	}
	return newScalarImage(geometry, extent, pix)
}

func newScalarImage[T Pixel](geometry *Geometry, extent []int, pix []T) (*ScalarImage[T], error) {
	size := [3]int{1, 1, 1}
	copy(size[:], extent)
	if geometry == nil {
		g, err := NewGeometry(models.Point3D{}, [3]float64{1, 1, 1}, nil, size)
		if err != nil {
			return nil, err
		}
		geometry = g
	} else if geometry.Extent() != size {
		return nil, fmt.Errorf("%w: geometry %v, pixels %v", ErrBadExtent, geometry.Extent(), extent)
	}
	ext := make([]int, len(extent))
	copy(ext, extent)
	return &ScalarImage[T]{extent: ext, pix: pix, geometry: geometry}, nil
}

func pixelCount(extent []int) (int, error) {
	if len(extent) == 0 || len(extent) > 3 {
		return 0, ErrBadExtent
	}
	n := 1
	for _, e := range extent {
		if e <= 0 {
			return 0, fmt.Errorf("%w: %v", ErrBadExtent, extent)
		}
		n *= e
	}
	return n, nil
}

// Dimension implements Image.
func (im *ScalarImage[T]) Dimension() int { return len(im.extent) }

// Extent implements Image. The returned slice is a copy.
func (im *ScalarImage[T]) Extent() []int {
	ext := make([]int, len(im.extent))
	copy(ext, im.extent)
	return ext
}

// Geometry implements Image.
func (im *ScalarImage[T]) Geometry() *Geometry { return im.geometry }

// SampleAt implements Image.
func (im *ScalarImage[T]) SampleAt(offset int) float64 { return float64(im.pix[offset]) }

// Pix exposes the underlying row-major buffer.
func (im *ScalarImage[T]) Pix() []T { return im.pix }

// Width returns the extent along the first axis.
func (im *ScalarImage[T]) Width() int { return im.extent[0] }

// Height returns the extent along the second axis, 1 for 1D images.
func (im *ScalarImage[T]) Height() int {
	if len(im.extent) < 2 {
		return 1
	}
	return im.extent[1]
}

// Bounds returns the 2D region covered by the image.
func (im *ScalarImage[T]) Bounds() models.Region {
	return models.NewRegion(models.Index{}, im.Width(), im.Height())
}

// At returns the pixel at a 2D index. It panics when idx is outside the image.
func (im *ScalarImage[T]) At(idx models.Index) T {
	return im.pix[im.offset(idx)]
}

// Set stores v at a 2D index. It panics when idx is outside the image.
func (im *ScalarImage[T]) Set(idx models.Index, v T) {
	im.pix[im.offset(idx)] = v
}

func (im *ScalarImage[T]) offset(idx models.Index) int {
	w, h := im.Width(), im.Height()
	if idx.X < 0 || idx.X >= w || idx.Y < 0 || idx.Y >= h {
		panic(fmt.Sprintf("imaging: index %v outside %dx%d image", idx, w, h))
	}
	return idx.Y*w + idx.X
}

// Cast converts every sample of src to type U, keeping extent and geometry.
func Cast[U, T Pixel](src *ScalarImage[T]) *ScalarImage[U] {
	pix := make([]U, len(src.pix))
	for i, v := range src.pix {
		pix[i] = U(v)
	}
	return &ScalarImage[U]{extent: src.Extent(), pix: pix, geometry: src.geometry}
}

// CastFloat produces the float32 view of any Image.
func CastFloat(img Image) (*FloatImage, error) {
	if f, ok := img.(*FloatImage); ok {
		return f, nil
	}
	extent := img.Extent()
	n, err := pixelCount(extent)
	if err != nil {
		return nil, err
	}
	pix := make([]float32, n)
	for i := range pix {
		pix[i] = float32(img.SampleAt(i))
	}
	return &ScalarImage[float32]{extent: extent, pix: pix, geometry: img.Geometry()}, nil
}
