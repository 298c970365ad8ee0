package livewire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livewire/internal/models"
	"livewire/pkg/imaging"
	"livewire/pkg/livewire"
)

func TestInvertHistogram(t *testing.T) {
	weights, max, ok := livewire.InvertHistogram(map[int]int{5: 10, 7: 2})
	require.True(t, ok)
	assert.Equal(t, 10, max)
	require.Len(t, weights, 2)
	assert.InDelta(t, 0.0, weights[5], 1e-12)
	assert.InDelta(t, 0.8, weights[7], 1e-12)
}

func TestInvertHistogram_Degenerate(t *testing.T) {
	for name, hist := range map[string]map[int]int{
		"nil":        nil,
		"empty":      {},
		"zero count": {3: 0},
	} {
		t.Run(name, func(t *testing.T) {
			weights, max, ok := livewire.InvertHistogram(hist)
			assert.False(t, ok)
			assert.Zero(t, max)
			assert.Nil(t, weights)
		})
	}
}

func TestBuildGradientHistogram(t *testing.T) {
	grad, err := imaging.NewScalarImageFromPix(nil, []float32{
		0.2, 1.0, 1.9,
		2.0, 2.5, 7.99,
	}, 3, 2)
	require.NoError(t, err)

	path := []models.Index{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}}
	got := livewire.BuildGradientHistogram(grad, path)
	assert.Equal(t, map[int]int{0: 1, 1: 2, 2: 2, 7: 1}, got)

	assert.Empty(t, livewire.BuildGradientHistogram(grad, nil))
}

func TestLearnCostMap_EmptyPath(t *testing.T) {
	img := rampImage(t, 4, 4, 1)
	weights, max, ok := livewire.LearnCostMap(img, nil)
	assert.False(t, ok)
	assert.Zero(t, max)
	assert.Nil(t, weights)
}

func TestLearnCostMap_StepEdge(t *testing.T) {
	img, err := imaging.CastFloat(stepEdgeImage(t, 10, 10, 100, 1, [2]float64{}))
	require.NoError(t, err)

	// (0,0) sits on the image corner with gradient 50; the rest of the
	// diagonal carries 100/√2 ≈ 70.7.
	var path []models.Index
	for k := 0; k <= 5; k++ {
		path = append(path, models.Index{X: k, Y: k})
	}

	weights, max, ok := livewire.LearnCostMap(img, path)
	require.True(t, ok)
	assert.Equal(t, 5, max)
	require.Len(t, weights, 2)
	assert.InDelta(t, 0.8, weights[50], 1e-12)
	assert.InDelta(t, 0.0, weights[70], 1e-12)
}
