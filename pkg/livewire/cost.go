package livewire

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"livewire/internal/models"
	"livewire/pkg/imaging"
)

// CostEvaluator returns the price of stepping into a pixel. Values must be
// non-negative. The search engine never queries outside its region.
type CostEvaluator interface {
	Evaluate(idx models.Index) float64
}

// CostFunction assigns a traversal cost to every pixel of a requested region
// from the local gradient magnitude: strong edges are cheap, flat areas are
// expensive. An optional dynamic cost map, learned from a previous path,
// discounts pixels whose gradient resembles the one traced before.
//
// The cost of a pixel with gradient magnitude g is
//
//	StepCost + GradientWeight·(1 - g/gmax)·f(g)
//
// where gmax is the largest gradient inside the region and f(g) is 1
// without a cost map and (1-DynamicWeight) + DynamicWeight·w(⌊g⌋) with one.
// Buckets absent from the map have w = 1. Since f ≤ 1, a learned map never
// makes a pixel more expensive than the static cost.
type CostFunction struct {
	params CostParams

	image      *imaging.FloatImage
	region     models.Region
	start, end models.Index

	// gradient holds |∇I| for region pixels in region-local raster order.
	gradient    []float64
	maxGradient float64
	ready       bool

	costMap    CostMap
	costMapMax int
}

// NewCostFunction creates a cost function with the given weights.
func NewCostFunction(params CostParams) *CostFunction {
	return &CostFunction{params: params}
}

// Params returns the weights in use.
func (c *CostFunction) Params() CostParams { return c.params }

// SetImage supplies the float samples the features are computed from.
func (c *CostFunction) SetImage(img *imaging.FloatImage) {
	c.image = img
	c.ready = false
}

// SetRequestedRegion restricts valid queries to region.
func (c *CostFunction) SetRequestedRegion(region models.Region) {
	c.region = region
	c.ready = false
}

// RequestedRegion returns the region set with SetRequestedRegion.
func (c *CostFunction) RequestedRegion() models.Region { return c.region }

// SetStartIndex records the start of the path for consistency checks.
func (c *CostFunction) SetStartIndex(idx models.Index) {
	c.start = idx
	c.ready = false
}

// SetEndIndex records the end of the path for consistency checks.
func (c *CostFunction) SetEndIndex(idx models.Index) {
	c.end = idx
	c.ready = false
}

// SetDynamicCostMap installs a learned cost map. The map is copied.
func (c *CostFunction) SetDynamicCostMap(m CostMap) {
	c.costMap = m.Clone()
}

// SetCostMapMAX records the histogram maximum the map was derived from.
func (c *CostFunction) SetCostMapMAX(max int) {
	c.costMapMax = max
}

// CostMapMAX returns the value set with SetCostMapMAX.
func (c *CostFunction) CostMapMAX() int { return c.costMapMax }

// DynamicCostMap returns a copy of the installed cost map, nil if none.
func (c *CostFunction) DynamicCostMap() CostMap { return c.costMap.Clone() }

// ClearDynamicCostMap drops the learned map so that only static costs apply.
func (c *CostFunction) ClearDynamicCostMap() {
	c.costMap = nil
	c.costMapMax = 0
}

// UsesDynamicCostMap reports whether Evaluate applies a learned map.
func (c *CostFunction) UsesDynamicCostMap() bool {
	return len(c.costMap) > 0 && c.costMapMax > 0
}

// Initialize validates the configuration and precomputes the gradient
// magnitude over the requested region. It must be called after the setters
// and before Evaluate.
func (c *CostFunction) Initialize() error {
	c.ready = false
	if err := c.params.Validate(); err != nil {
		return err
	}
	if c.image == nil {
		return ErrNoInput
	}
	if c.image.Dimension() != 2 {
		return ErrNot2D
	}
	if c.region.IsEmpty() {
		return ErrEmptyRegion
	}
	if !c.image.Bounds().ContainsRegion(c.region) {
		return fmt.Errorf("%w: %+v", ErrRegionOutsideImage, c.region)
	}
	if !c.region.Contains(c.start) || !c.region.Contains(c.end) {
		return fmt.Errorf("%w: start %v end %v", ErrOutsideRegion, c.start, c.end)
	}

	n := c.region.NumberOfPixels()
	if cap(c.gradient) >= n {
		c.gradient = c.gradient[:n]
	} else {
		c.gradient = make([]float64, n)
	}
	imaging.GradientMagnitudeRegion(c.image, c.region, func(offset int, _ models.Index, g float64) {
		c.gradient[offset] = g
	})
	c.maxGradient = floats.Max(c.gradient)
	c.ready = true
	return nil
}

// MaxGradient returns the largest gradient magnitude inside the region.
func (c *CostFunction) MaxGradient() float64 { return c.maxGradient }

// GradientAt returns the precomputed gradient magnitude at idx.
func (c *CostFunction) GradientAt(idx models.Index) float64 {
	return c.gradient[c.offset(idx)]
}

// Evaluate implements CostEvaluator. Querying outside the requested region,
// or before Initialize, panics.
func (c *CostFunction) Evaluate(idx models.Index) float64 {
	g := c.gradient[c.offset(idx)]

	edge := c.params.GradientWeight
	if c.maxGradient > 0 {
		edge *= 1 - g/c.maxGradient
	}
	if c.UsesDynamicCostMap() {
		w, ok := c.costMap[gradientBucket(g)]
		if !ok {
			w = 1
		}
		w = math.Min(math.Max(w, 0), 1)
		edge *= (1 - c.params.DynamicWeight) + c.params.DynamicWeight*w
	}
	return c.params.StepCost + edge
}

func (c *CostFunction) offset(idx models.Index) int {
	if !c.ready {
		panic("livewire: cost function used before Initialize")
	}
	if !c.region.Contains(idx) {
		panic(fmt.Sprintf("livewire: cost queried at %v outside region %+v", idx, c.region))
	}
	return c.region.Offset(idx)
}

// gradientBucket quantises a gradient magnitude to its cost map key.
func gradientBucket(g float64) int {
	return int(math.Floor(g))
}
