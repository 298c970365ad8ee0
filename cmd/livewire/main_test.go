package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livewire/internal/models"
	"livewire/pkg/config"
	"livewire/pkg/contour"
	"livewire/pkg/imaging"
	"livewire/pkg/livewire"
)

func TestMain(m *testing.M) {
	livewire.SetLogger(nil)
	os.Exit(m.Run())
}

func TestParsePoints(t *testing.T) {
	got, err := parsePoints(" 1.5,2 ; 3,-4;")
	require.NoError(t, err)
	assert.Equal(t, []models.Point3D{{X: 1.5, Y: 2}, {X: 3, Y: -4}}, got)

	for _, bad := range []string{"", "1,2", "1,2;3", "1,2;a,4", "1,2;3,4,5"} {
		_, err := parsePoints(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

// diagonalEdge is bright above the main diagonal.
func diagonalEdge(t *testing.T, n int) *imaging.ScalarImage[uint16] {
	t.Helper()
	img, err := imaging.NewScalarImage[uint16](nil, n, n)
	require.NoError(t, err)
	for y := 0; y < n; y++ {
		for x := y + 1; x < n; x++ {
			img.Set(models.Index{X: x, Y: y}, 100)
		}
	}
	return img
}

func TestTrace_JoinsSegments(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LiveWire.UseDynamicCostTransfer = true
	points := []models.Point3D{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 9, Y: 9}}

	result, lastMap, err := trace(diagonalEdge(t, 10), points, cfg)
	require.NoError(t, err)

	require.Equal(t, 10, result.NumberOfVertices())
	for i, v := range result.Vertices() {
		assert.Equal(t, models.Point3D{X: float64(i), Y: float64(i)}, v.Point, "vertex %d", i)
		wantControl := i == 0 || i == 5 || i == 9
		assert.Equal(t, wantControl, v.IsControlPoint, "vertex %d", i)
	}
	assert.NotEmpty(t, lastMap, "the second segment runs with the map learned from the first")
}

func TestTrace_StaticHasNoMap(t *testing.T) {
	points := []models.Point3D{{X: 0, Y: 0}, {X: 9, Y: 9}}
	result, lastMap, err := trace(diagonalEdge(t, 10), points, config.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 10, result.NumberOfVertices())
	assert.Empty(t, lastMap)
}

func TestTrace_PointOutsideImage(t *testing.T) {
	points := []models.Point3D{{X: 0, Y: 0}, {X: 30, Y: 9}}
	_, _, err := trace(diagonalEdge(t, 10), points, config.DefaultConfig())
	assert.ErrorIs(t, err, livewire.ErrOutsideImage)
}

func TestWriteContour(t *testing.T) {
	c := contour.New()
	c.AddControlVertex(models.Point3D{X: 1, Y: 2})
	c.AddVertex(models.Point3D{X: 2, Y: 2})

	path := filepath.Join(t.TempDir(), "out", "contour.json")
	require.NoError(t, writeContour(c, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	doc, err := contour.ReadJSON(file)
	require.NoError(t, err)
	assert.Equal(t, c.Vertices(), doc.Vertices)
	assert.InDelta(t, 1.0, doc.Length, 1e-12)
}

type failingCloser struct{ err error }

func (c failingCloser) Close() error { return c.err }

func TestCloseInto(t *testing.T) {
	diskFull := errors.New("disk full")

	var err error
	closeInto(failingCloser{err: diskFull}, "contour.json", &err)
	assert.ErrorIs(t, err, diskFull)
	assert.ErrorContains(t, err, "contour.json")

	// An earlier error wins over the close error.
	err = errors.New("encode failed")
	closeInto(failingCloser{err: diskFull}, "contour.json", &err)
	assert.EqualError(t, err, "encode failed")

	err = nil
	closeInto(failingCloser{}, "contour.json", &err)
	assert.NoError(t, err)
}
