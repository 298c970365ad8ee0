package livewire

import (
	"errors"
	"fmt"
	"log"
)

// Sentinel errors returned by the live-wire engine.
var (
	// ErrNoInput indicates Update was called before an input image was set.
	ErrNoInput = errors.New("livewire: no input available")

	// ErrNot2D indicates an input image whose dimension is not 2.
	ErrNot2D = errors.New("livewire: filter only works on 2D images")

	// ErrNoGeometry indicates an input image without index/world geometry.
	ErrNoGeometry = errors.New("livewire: input has no geometry")

	// ErrGeometryMismatch indicates an input whose geometry extent differs
	// from its pixel extent.
	ErrGeometryMismatch = errors.New("livewire: geometry does not match image extent")

	// ErrOutsideImage indicates a start or end point that maps outside the
	// image, including points off the slice plane.
	ErrOutsideImage = errors.New("livewire: point outside image")

	// ErrNoCostFunction indicates a search started without a cost function.
	ErrNoCostFunction = errors.New("livewire: no cost function set")

	// ErrEmptyRegion indicates a search region with zero pixels.
	ErrEmptyRegion = errors.New("livewire: region is empty")

	// ErrRegionOutsideImage indicates a search or cost region that is not
	// fully covered by the image.
	ErrRegionOutsideImage = errors.New("livewire: region exceeds image bounds")

	// ErrOutsideRegion indicates a start or end index outside the search region.
	ErrOutsideRegion = errors.New("livewire: index outside region")

	// ErrBadCostParams indicates negative or out-of-range cost weights.
	ErrBadCostParams = errors.New("livewire: invalid cost parameters")
)

// Logf receives the engine's diagnostics. It defaults to log.Printf and may
// be replaced with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// CostParams weights the terms of the live-wire cost function.
type CostParams struct {
	// StepCost is the constant price of entering any pixel. It keeps the
	// path short where the image gives no preference.
	StepCost float64

	// GradientWeight scales the edge term 1 - g/gmax.
	GradientWeight float64

	// DynamicWeight in [0,1] controls how strongly a learned cost map can
	// discount the edge term.
	DynamicWeight float64
}

// DefaultCostParams returns the weights used when none are configured.
func DefaultCostParams() CostParams {
	return CostParams{
		StepCost:       0.1,
		GradientWeight: 1.0,
		DynamicWeight:  0.5,
	}
}

// Validate checks that every weight is usable.
func (p CostParams) Validate() error {
	switch {
	case p.StepCost < 0:
		return fmt.Errorf("%w: stepCost must be >= 0", ErrBadCostParams)
	case p.GradientWeight < 0:
		return fmt.Errorf("%w: gradientWeight must be >= 0", ErrBadCostParams)
	case p.DynamicWeight < 0 || p.DynamicWeight > 1:
		return fmt.Errorf("%w: dynamicWeight must be in [0,1]", ErrBadCostParams)
	}
	return nil
}

// Params configures a Filter.
type Params struct {
	// Cost holds the cost function weights.
	Cost CostParams

	// FullNeighbors selects 8-connectivity; false uses 4-connectivity.
	FullNeighbors bool

	// MakeOutputImage asks the search engine for a path label image.
	MakeOutputImage bool

	// CalcAllDistances keeps searching after the end point is reached so
	// that the distance to every pixel of the region is known.
	CalcAllDistances bool
}

// DefaultParams returns the configuration used by the interactive tool.
func DefaultParams() *Params {
	return &Params{
		Cost:          DefaultCostParams(),
		FullNeighbors: true,
	}
}

// CostMap maps a quantised gradient magnitude to a weight in [0,1].
// Lower weights make pixels with that gradient cheaper.
type CostMap map[int]float64

// Clone returns an independent copy of m.
func (m CostMap) Clone() CostMap {
	if m == nil {
		return nil
	}
	out := make(CostMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Neighbour offsets in raster order. The order fixes how ties between
// equal-cost paths are resolved.
var (
	fullNeighborOffsets = [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	faceNeighborOffsets = [][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
)
