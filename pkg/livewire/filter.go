// Package livewire implements interactive contour extraction on 2D images.
//
// Given an image and two world points, the Filter builds a per-pixel cost
// field from the gradient magnitude inside the bounding box of the points,
// finds the cheapest 8-connected pixel path between them and returns it as
// a world-space contour. When dynamic cost transfer is enabled, the gradient
// distribution along the traced path is turned into a cost map that biases
// later updates towards similar edges.
//
// Typical use while the user drags the end point:
//
//	f := livewire.NewFilter(livewire.DefaultParams())
//	f.SetInput(img)
//	f.SetStartPoint(seed)
//	f.SetEndPoint(cursor)
//	if err := f.Update(); err != nil {
//	    // points outside the image, missing or non-2D input
//	}
//	c := f.Output()
package livewire

import (
	"context"
	"errors"
	"fmt"

	"livewire/internal/models"
	"livewire/pkg/contour"
	"livewire/pkg/imaging"
)

// Filter runs the live-wire pipeline: world→index mapping, region of
// interest, cost function, shortest path search, contour building and the
// optional cost map learning. A Filter is not safe for concurrent use.
type Filter struct {
	params *Params

	input      imaging.Image
	startPoint models.Point3D
	endPoint   models.Point3D
	startIndex models.Index
	endIndex   models.Index
	region     models.Region

	useDynamicCostTransfer bool

	costFunction *CostFunction
	search       *ShortestPath
	output       *contour.Contour
}

// NewFilter creates a filter. A nil params uses DefaultParams.
func NewFilter(params *Params) *Filter {
	if params == nil {
		params = DefaultParams()
	}
	f := &Filter{
		params:       params,
		costFunction: NewCostFunction(params.Cost),
		search:       NewShortestPath(),
		output:       contour.New(),
	}
	f.search.SetCostFunction(f.costFunction)
	return f
}

// SetInput sets the image to trace on. The filter keeps a reference for the
// duration of each update only; it never modifies the image.
func (f *Filter) SetInput(img imaging.Image) { f.input = img }

// Input returns the current input image.
func (f *Filter) Input() imaging.Image { return f.input }

// SetStartPoint sets the world position where the contour begins.
func (f *Filter) SetStartPoint(p models.Point3D) { f.startPoint = p }

// StartPoint returns the world start position.
func (f *Filter) StartPoint() models.Point3D { return f.startPoint }

// SetEndPoint sets the world position where the contour ends.
func (f *Filter) SetEndPoint(p models.Point3D) { f.endPoint = p }

// EndPoint returns the world end position.
func (f *Filter) EndPoint() models.Point3D { return f.endPoint }

// StartIndex returns the start point in index space from the last update.
func (f *Filter) StartIndex() models.Index { return f.startIndex }

// EndIndex returns the end point in index space from the last update.
func (f *Filter) EndIndex() models.Index { return f.endIndex }

// Region returns the region of interest used by the last update.
func (f *Filter) Region() models.Region { return f.region }

// SetUseDynamicCostTransferForNextUpdate enables learning a cost map from
// the path of the coming update. The learned map applies from the following
// update on and stays installed until another learn pass replaces it or
// ResetDynamicCost is called.
func (f *Filter) SetUseDynamicCostTransferForNextUpdate(on bool) {
	f.useDynamicCostTransfer = on
}

// UseDynamicCostTransferForNextUpdate reports the learning toggle.
func (f *Filter) UseDynamicCostTransferForNextUpdate() bool { return f.useDynamicCostTransfer }

// ResetDynamicCost discards the learned map so that static costs apply again.
func (f *Filter) ResetDynamicCost() {
	f.costFunction.ClearDynamicCostMap()
}

// CostFunction exposes the cost function, mostly for inspection.
func (f *Filter) CostFunction() *CostFunction { return f.costFunction }

// ShortestPath exposes the search engine, e.g. for its output image.
func (f *Filter) ShortestPath() *ShortestPath { return f.search }

// PathCost returns the summed cost of the last traced path.
func (f *Filter) PathCost() float64 { return f.search.PathCost() }

// Output returns the contour of the last update. It is never nil; a failed
// or unreachable update leaves it empty. Each update allocates a new
// contour, so previously returned contours are not modified.
func (f *Filter) Output() *contour.Contour { return f.output }

// Update runs the pipeline without cancellation.
func (f *Filter) Update() error {
	return f.UpdateContext(context.Background())
}

// UpdateContext runs the pipeline.
//
// Invalid input (none, not 2D, a geometry that does not match the pixels,
// start or end outside the image or off the slice plane) is reported
// immediately as an error and produces an empty contour. Problems inside the
// search degrade to an empty contour without an error; only cancellation of
// ctx is returned.
func (f *Filter) UpdateContext(ctx context.Context) error {
	f.output = contour.New()

	if f.input == nil {
		Logf("livewire: no input available, please set the input")
		return ErrNoInput
	}
	if f.input.Dimension() != 2 {
		Logf("livewire: filter is only working on 2D images, got %dD", f.input.Dimension())
		return fmt.Errorf("%w: got %dD", ErrNot2D, f.input.Dimension())
	}
	geom := f.input.Geometry()
	if geom == nil {
		return ErrNoGeometry
	}
	if ext, gext := f.input.Extent(), geom.Extent(); gext[0] != ext[0] || gext[1] != ext[1] || gext[2] != 1 {
		Logf("livewire: geometry extent %v does not match image extent %v", gext, ext)
		return fmt.Errorf("%w: geometry %v, image %v", ErrGeometryMismatch, gext, ext)
	}

	f.startIndex = geom.WorldToIndex(f.startPoint)
	f.endIndex = geom.WorldToIndex(f.endPoint)
	if !geom.IsInside(f.startPoint) || !geom.IsInside(f.endPoint) {
		return fmt.Errorf("%w: start %+v end %+v", ErrOutsideImage, f.startPoint, f.endPoint)
	}

	f.region = models.RegionFromCorners(f.startIndex, f.endIndex)

	floatImage, err := imaging.CastFloat(f.input)
	if err != nil {
		return fmt.Errorf("livewire: cast to float failed: %w", err)
	}

	f.costFunction.SetImage(floatImage)
	f.costFunction.SetStartIndex(f.startIndex)
	f.costFunction.SetEndIndex(f.endIndex)
	f.costFunction.SetRequestedRegion(f.region)
	if err := f.costFunction.Initialize(); err != nil {
		Logf("livewire: cost function setup failed: %v", err)
		return nil
	}

	f.search.SetInput(floatImage)
	f.search.SetRegion(f.region)
	f.search.SetFullNeighborsMode(f.params.FullNeighbors)
	f.search.SetMakeOutputImage(f.params.MakeOutputImage)
	f.search.SetCalcAllDistances(f.params.CalcAllDistances)
	f.search.SetStartIndex(f.startIndex)
	f.search.SetEndIndex(f.endIndex)
	if err := f.search.UpdateContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		Logf("livewire: shortest path search failed: %v", err)
		return nil
	}

	path := f.search.VectorPath()
	if len(path) == 0 {
		Logf("livewire: no path between %v and %v", f.startIndex, f.endIndex)
	}
	f.output = buildContour(path, geom)

	if f.useDynamicCostTransfer {
		// Installed after the search, so it biases the next update onwards.
		if weights, max, ok := LearnCostMap(floatImage, path); ok {
			f.costFunction.SetDynamicCostMap(weights)
			f.costFunction.SetCostMapMAX(max)
		} else {
			Logf("livewire: empty gradient histogram, keeping static costs")
		}
	}
	return nil
}

// buildContour maps every path index to world space, in path order.
func buildContour(path []models.Index, geom *imaging.Geometry) *contour.Contour {
	c := contour.New()
	for _, idx := range path {
		c.AddVertex(geom.IndexToWorld(idx))
	}
	return c
}
