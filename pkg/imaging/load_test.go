package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livewire/internal/models"
)

func TestLoad_Gray16PNG(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 3, 2))
	src.SetGray16(0, 0, color.Gray16{Y: 100})
	src.SetGray16(2, 1, color.Gray16{Y: 60000})

	path := filepath.Join(t.TempDir(), "slice.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := Load(path, [2]float64{0.5, 0.25}, [2]float64{10, 20})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 2}, img.Extent())
	assert.Equal(t, uint16(100), img.At(models.Index{X: 0, Y: 0}))
	assert.Equal(t, uint16(60000), img.At(models.Index{X: 2, Y: 1}))
	assert.Equal(t, uint16(0), img.At(models.Index{X: 1, Y: 0}))

	w := img.Geometry().IndexToWorld(models.Index{X: 2, Y: 1})
	assert.InDelta(t, 11.0, w.X, 1e-12)
	assert.InDelta(t, 20.25, w.Y, 1e-12)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"), [2]float64{1, 1}, [2]float64{})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, err = Load(path, [2]float64{1, 1}, [2]float64{})
	assert.Error(t, err)
}

func TestFromImage_RGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.White)
	src.Set(6, 5, color.Black)

	img, err := FromImage(src, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xffff), img.At(models.Index{X: 0, Y: 0}))
	assert.Equal(t, uint16(0), img.At(models.Index{X: 1, Y: 0}))

	geom, err := NewGeometry2D(3, 3, 1, 1, 0, 0)
	require.NoError(t, err)
	_, err = FromImage(src, geom)
	assert.ErrorIs(t, err, ErrBadExtent)
}
