package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"
)

// Load decodes a PNG, JPEG or TIFF slice into a 16-bit grayscale image with
// an axis-aligned geometry built from the given spacing and origin (mm).
func Load(path string, spacing, origin [2]float64) (*ScalarImage[uint16], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	b := img.Bounds()
	geom, err := NewGeometry2D(b.Dx(), b.Dy(), spacing[0], spacing[1], origin[0], origin[1])
	if err != nil {
		return nil, err
	}
	out, err := FromImage(img, geom)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s image: %w", format, err)
	}
	return out, nil
}

// FromImage converts a Go image to a 16-bit grayscale ScalarImage. The
// geometry extent must match the image bounds; nil uses unit spacing.
func FromImage(img image.Image, geom *Geometry) (*ScalarImage[uint16], error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	if geom != nil {
		ext := geom.Extent()
		if ext[0] != width || ext[1] != height {
			return nil, fmt.Errorf("%w: geometry %dx%d, image %dx%d", ErrBadExtent, ext[0], ext[1], width, height)
		}
	}

	out, err := NewScalarImage[uint16](geom, width, height)
	if err != nil {
		return nil, err
	}

	// Gray16 is the common case for medical slices; avoid the color model
	// round trip for it.
	if g16, ok := img.(*image.Gray16); ok {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.pix[y*width+x] = g16.Gray16At(b.Min.X+x, b.Min.Y+y).Y
			}
		}
		return out, nil
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			out.pix[y*width+x] = c.Y
		}
	}
	return out, nil
}
