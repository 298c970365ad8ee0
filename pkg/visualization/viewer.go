package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"livewire/internal/models"
	"livewire/pkg/contour"
	"livewire/pkg/imaging"
)

// Viewer renders a 2D slice together with traced contours so that results
// of the live-wire engine can be inspected outside an interactive viewer.
type Viewer struct {
	// slice holds the samples of the displayed image
	slice *imaging.FloatImage

	// dimensions of the slice
	width  int
	height int

	// minimum and maximum sample, used for display windowing
	lo, hi float64
}

// ContourColor is the colour traced contours are drawn in.
var ContourColor = color.RGBA{R: 255, G: 40, B: 40, A: 255}

// ControlPointColor is the colour of user-placed vertices.
var ControlPointColor = color.RGBA{R: 40, G: 220, B: 40, A: 255}

// NewViewer creates a viewer for a 2D image
func NewViewer(img imaging.Image) (*Viewer, error) {
	if img.Dimension() != 2 {
		return nil, imaging.ErrNot2D
	}
	slice, err := imaging.CastFloat(img)
	if err != nil {
		return nil, err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range slice.Pix() {
		lo = math.Min(lo, float64(v))
		hi = math.Max(hi, float64(v))
	}

	return &Viewer{
		slice:  slice,
		width:  slice.Width(),
		height: slice.Height(),
		lo:     lo,
		hi:     hi,
	}, nil
}

// Grayscale returns the slice windowed to its full intensity range.
func (v *Viewer) Grayscale() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, v.width, v.height))
	span := v.hi - v.lo
	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			var value uint16
			if span > 0 {
				s := (float64(v.slice.At(models.Index{X: x, Y: y})) - v.lo) / span
				value = uint16(math.Max(0, math.Min(65535, s*65535)))
			}
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img
}

// RenderOverlay draws the contours on top of the grayscale slice. Contour
// vertices are mapped back to pixels through the slice geometry; vertices
// falling outside the slice are skipped.
func (v *Viewer) RenderOverlay(contours ...*contour.Contour) *image.RGBA {
	gray := v.Grayscale()
	out := image.NewRGBA(gray.Bounds())
	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			out.Set(x, y, gray.At(x, y))
		}
	}

	geom := v.slice.Geometry()
	for _, c := range contours {
		if c == nil {
			continue
		}
		for _, vert := range c.Vertices() {
			idx := geom.WorldToIndex(vert.Point)
			if !geom.IsIndexInside(idx) {
				continue
			}
			col := ContourColor
			if vert.IsControlPoint {
				col = ControlPointColor
			}
			out.SetRGBA(idx.X, idx.Y, col)
		}
	}
	return out
}

// ExtractRegion copies the samples of a 2D region in row-major order
func (v *Viewer) ExtractRegion(region models.Region) ([]float64, error) {
	if region.Index.X < 0 || region.Index.Y < 0 {
		return nil, fmt.Errorf("start coordinates must be non-negative")
	}

	if region.IsEmpty() {
		return nil, fmt.Errorf("size dimensions must be positive")
	}

	if !v.slice.Bounds().ContainsRegion(region) {
		return nil, fmt.Errorf("region extends beyond image boundaries")
	}

	out := make([]float64, region.NumberOfPixels())
	for y := 0; y < region.Size.Y; y++ {
		for x := 0; x < region.Size.X; x++ {
			out[y*region.Size.X+x] = float64(v.slice.At(region.Index.Add(x, y)))
		}
	}

	return out, nil
}

// SaveImage writes img as PNG or JPEG depending on the file extension
func (v *Viewer) SaveImage(img image.Image, filename string) (err error) {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return png.Encode(file, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		return fmt.Errorf("unsupported image format: %s (must be .png or .jpg)", filepath.Ext(filename))
	}
}
