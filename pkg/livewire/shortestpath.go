package livewire

import (
	"container/heap"
	"context"
	"fmt"
	"math"

	"livewire/internal/models"
	"livewire/pkg/imaging"
)

// cancelCheckInterval is the number of heap pops between context checks.
const cancelCheckInterval = 1024

// ShortestPath finds the minimum-cost path between two pixels of an image.
//
// The graph is implicit: nodes are the pixels of the search region, edges
// join each pixel to its 4 or 8 neighbours, and the weight of an edge is the
// cost of its destination pixel. The search is Dijkstra's algorithm with a
// binary heap and lazy decrease-key; state lives in dense slices indexed by
// region offset.
//
// Equal tentative distances are expanded in insertion order and neighbours
// are enumerated in raster order, so the same input always yields the same
// path.
//
// Complexity: O(N log N) time and O(N) memory for N region pixels.
type ShortestPath struct {
	input            *imaging.FloatImage
	cost             CostEvaluator
	region           models.Region
	regionSet        bool
	start, end       models.Index
	fullNeighbors    bool
	makeOutputImage  bool
	calcAllDistances bool

	path     []models.Index
	pathCost float64
	dist     []float64
	distArea models.Region
	output   *imaging.ScalarImage[uint8]
}

// NewShortestPath returns a search engine in 4-neighbour mode.
func NewShortestPath() *ShortestPath {
	return &ShortestPath{}
}

// SetInput sets the image that defines the pixel grid.
func (s *ShortestPath) SetInput(img *imaging.FloatImage) { s.input = img }

// SetCostFunction sets the edge weights.
func (s *ShortestPath) SetCostFunction(fn CostEvaluator) { s.cost = fn }

// SetRegion restricts the search to region. Without it the whole image is used.
func (s *ShortestPath) SetRegion(region models.Region) {
	s.region = region
	s.regionSet = true
}

// SetStartIndex sets the first pixel of the path.
func (s *ShortestPath) SetStartIndex(idx models.Index) { s.start = idx }

// SetEndIndex sets the last pixel of the path.
func (s *ShortestPath) SetEndIndex(idx models.Index) { s.end = idx }

// SetFullNeighborsMode selects 8-connectivity (true) or 4-connectivity.
func (s *ShortestPath) SetFullNeighborsMode(full bool) { s.fullNeighbors = full }

// FullNeighborsMode reports the connectivity in use.
func (s *ShortestPath) FullNeighborsMode() bool { return s.fullNeighbors }

// SetMakeOutputImage enables the path label image.
func (s *ShortestPath) SetMakeOutputImage(on bool) { s.makeOutputImage = on }

// SetCalcAllDistances keeps the search running until every region pixel
// has its final distance.
func (s *ShortestPath) SetCalcAllDistances(on bool) { s.calcAllDistances = on }

// Update runs the search without cancellation.
func (s *ShortestPath) Update() error {
	return s.UpdateContext(context.Background())
}

// UpdateContext runs the search. On any error the path is empty.
func (s *ShortestPath) UpdateContext(ctx context.Context) error {
	s.path = nil
	s.pathCost = 0
	s.dist = nil
	s.output = nil

	if s.input == nil {
		return ErrNoInput
	}
	if s.cost == nil {
		return ErrNoCostFunction
	}
	region := s.input.Bounds()
	if s.regionSet {
		region = s.region
	}
	if region.IsEmpty() {
		return ErrEmptyRegion
	}
	if !s.input.Bounds().ContainsRegion(region) {
		return fmt.Errorf("%w: %+v", ErrRegionOutsideImage, region)
	}
	if !region.Contains(s.start) || !region.Contains(s.end) {
		return fmt.Errorf("%w: start %v end %v region %+v", ErrOutsideRegion, s.start, s.end, region)
	}

	offsets := faceNeighborOffsets
	if s.fullNeighbors {
		offsets = fullNeighborOffsets
	}
	r := newSearch(region, s.cost, offsets)
	if err := r.run(ctx, s.start, s.end, s.calcAllDistances); err != nil {
		return err
	}

	s.path = r.pathTo(s.end)
	if len(s.path) > 0 {
		s.pathCost = r.dist[region.Offset(s.end)]
	}
	if s.calcAllDistances {
		s.dist = r.dist
		s.distArea = region
	}
	if s.makeOutputImage {
		if err := s.buildOutputImage(); err != nil {
			return err
		}
	}
	return nil
}

// VectorPath returns the path from start to end inclusive, or nil when the
// last update failed or found no path.
func (s *ShortestPath) VectorPath() []models.Index {
	if len(s.path) == 0 {
		return nil
	}
	out := make([]models.Index, len(s.path))
	copy(out, s.path)
	return out
}

// PathCost returns the sum of destination costs along the last path.
func (s *ShortestPath) PathCost() float64 { return s.pathCost }

// DistanceAt returns the final distance from the start to idx. It is only
// available after an update with CalcAllDistances enabled.
func (s *ShortestPath) DistanceAt(idx models.Index) (float64, bool) {
	if s.dist == nil || !s.distArea.Contains(idx) {
		return 0, false
	}
	d := s.dist[s.distArea.Offset(idx)]
	if math.IsInf(d, 1) {
		return 0, false
	}
	return d, true
}

// OutputImage returns the path label image (1 on the path, 0 elsewhere)
// when MakeOutputImage is enabled, nil otherwise.
func (s *ShortestPath) OutputImage() *imaging.ScalarImage[uint8] { return s.output }

func (s *ShortestPath) buildOutputImage() error {
	out, err := imaging.NewScalarImage[uint8](s.input.Geometry(), s.input.Width(), s.input.Height())
	if err != nil {
		return err
	}
	for _, idx := range s.path {
		out.Set(idx, 1)
	}
	s.output = out
	return nil
}

// search holds the mutable state of one Dijkstra run.
type search struct {
	region  models.Region
	cost    CostEvaluator
	offsets [][2]int

	dist    []float64
	prev    []int32
	visited []bool
	pq      pathQueue
	seq     uint64
}

func newSearch(region models.Region, cost CostEvaluator, offsets [][2]int) *search {
	n := region.NumberOfPixels()
	r := &search{
		region:  region,
		cost:    cost,
		offsets: offsets,
		dist:    make([]float64, n),
		prev:    make([]int32, n),
		visited: make([]bool, n),
		pq:      make(pathQueue, 0, 64),
	}
	for i := range r.dist {
		r.dist[i] = math.Inf(1)
		r.prev[i] = -1
	}
	return r
}

func (r *search) push(offset int, dist float64) {
	heap.Push(&r.pq, queueItem{offset: offset, dist: dist, seq: r.seq})
	r.seq++
}

func (r *search) run(ctx context.Context, start, end models.Index, all bool) error {
	src := r.region.Offset(start)
	dst := r.region.Offset(end)
	r.dist[src] = 0
	r.push(src, 0)

	pops := 0
	for r.pq.Len() > 0 {
		pops++
		if pops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		item := heap.Pop(&r.pq).(queueItem)
		u := item.offset
		if r.visited[u] {
			continue
		}
		r.visited[u] = true
		if u == dst && !all {
			return nil
		}
		r.relax(u)
	}
	return nil
}

func (r *search) relax(u int) {
	ui := r.region.IndexAt(u)
	for _, d := range r.offsets {
		vi := ui.Add(d[0], d[1])
		if !r.region.Contains(vi) {
			continue
		}
		v := r.region.Offset(vi)
		if r.visited[v] {
			continue
		}
		nd := r.dist[u] + r.cost.Evaluate(vi)
		if nd >= r.dist[v] {
			continue
		}
		r.dist[v] = nd
		r.prev[v] = int32(u)
		r.push(v, nd)
	}
}

// pathTo walks the predecessor links back from end. It returns nil when end
// was never reached.
func (r *search) pathTo(end models.Index) []models.Index {
	at := r.region.Offset(end)
	if math.IsInf(r.dist[at], 1) {
		return nil
	}
	var path []models.Index
	for ; at >= 0; at = int(r.prev[at]) {
		path = append(path, r.region.IndexAt(at))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// queueItem is a heap entry. seq breaks ties between equal distances in
// insertion order.
type queueItem struct {
	offset int
	dist   float64
	seq    uint64
}

// pathQueue is a min-heap of queueItem ordered by (dist, seq).
type pathQueue []queueItem

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *pathQueue) Push(x interface{}) { *pq = append(*pq, x.(queueItem)) }

func (pq *pathQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
