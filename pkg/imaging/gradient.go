package imaging

import (
	"math"

	"livewire/internal/models"
)

// GradientMagnitudeAt returns |∇I| at idx using central differences scaled
// by the pixel spacing. Samples outside the image repeat the nearest border
// pixel, so the derivative across the border is zero.
func GradientMagnitudeAt(img *FloatImage, idx models.Index) float64 {
	w, h := img.Width(), img.Height()
	spacing := img.Geometry().Spacing()

	sample := func(x, y int) float64 {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return float64(img.pix[y*w+x])
	}

	dx := (sample(idx.X+1, idx.Y) - sample(idx.X-1, idx.Y)) / (2 * spacing[0])
	dy := (sample(idx.X, idx.Y+1) - sample(idx.X, idx.Y-1)) / (2 * spacing[1])
	return math.Sqrt(dx*dx + dy*dy)
}

// GradientMagnitude computes |∇I| for every pixel of a 2D image.
func GradientMagnitude(img *FloatImage) (*FloatImage, error) {
	if img.Dimension() != 2 {
		return nil, ErrNot2D
	}
	out, err := NewScalarImage[float32](img.Geometry(), img.Width(), img.Height())
	if err != nil {
		return nil, err
	}
	GradientMagnitudeRegion(img, img.Bounds(), func(offset int, idx models.Index, g float64) {
		out.pix[idx.Y*out.Width()+idx.X] = float32(g)
	})
	return out, nil
}

// GradientMagnitudeRegion visits every pixel of region (clipped to the
// image) in raster order and reports its region-local offset, index and
// gradient magnitude.
func GradientMagnitudeRegion(img *FloatImage, region models.Region, visit func(offset int, idx models.Index, g float64)) {
	region = region.Clip(img.Bounds())
	for y := 0; y < region.Size.Y; y++ {
		for x := 0; x < region.Size.X; x++ {
			idx := region.Index.Add(x, y)
			visit(y*region.Size.X+x, idx, GradientMagnitudeAt(img, idx))
		}
	}
}
