package livewire

import (
	"gonum.org/v1/gonum/stat"

	"livewire/internal/models"
	"livewire/pkg/imaging"
)

// BuildGradientHistogram counts, for every quantised gradient magnitude, how
// many path pixels carry it.
func BuildGradientHistogram(gradient *imaging.FloatImage, path []models.Index) map[int]int {
	hist := make(map[int]int)
	for _, idx := range path {
		hist[gradientBucket(float64(gradient.At(idx)))]++
	}
	return hist
}

// InvertHistogram turns path frequencies into cost weights: a bucket with
// count c becomes 1 - c/max, so the most frequent gradient along the path
// costs nothing extra and rare ones approach 1. It returns ok=false when the
// histogram has no positive count; the caller must then keep its current
// costs.
func InvertHistogram(hist map[int]int) (weights CostMap, max int, ok bool) {
	for _, c := range hist {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return nil, 0, false
	}
	weights = make(CostMap, len(hist))
	for k, c := range hist {
		weights[k] = 1 - float64(c)/float64(max)
	}
	return weights, max, true
}

// LearnCostMap derives a cost map from the gradient magnitude of input along
// path. ok is false when nothing could be learned (empty path).
func LearnCostMap(input *imaging.FloatImage, path []models.Index) (weights CostMap, max int, ok bool) {
	if len(path) == 0 {
		return nil, 0, false
	}
	gradient, err := imaging.GradientMagnitude(input)
	if err != nil {
		Logf("livewire: gradient magnitude failed: %v", err)
		return nil, 0, false
	}

	samples := make([]float64, len(path))
	for i, idx := range path {
		samples[i] = float64(gradient.At(idx))
	}
	mean, std := stat.MeanStdDev(samples, nil)
	Logf("livewire: learning cost map from %d path pixels (gradient mean %.3f, std %.3f)", len(path), mean, std)

	return InvertHistogram(BuildGradientHistogram(gradient, path))
}
