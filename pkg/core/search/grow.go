package search

import (
	"container/heap"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
)

// Region is a contiguous site grown from a seed.
//
// Cells are kept in the order they were added, so Cells[0] is always the seed.
type Region struct {
	Seed  grid.Cell
	Cells []grid.Cell
	Total int
}

// Size returns the number of cells in the region.
func (r Region) Size() int { return len(r.Cells) }

// Sum recomputes the total score from the member cells.
func (r Region) Sum() int {
	total := 0
	for _, c := range r.Cells {
		total += c.Score
	}
	return total
}

// neighbours are the 4-connected offsets: right, left, down, up.
var neighbours = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Grow expands seed into a 4-connected region of exactly targetSize cells.
//
// The frontier is a max-heap on score; the highest-scoring frontier cell is
// always taken next. Every cell is enqueued at most once. Cells with score
// <= 0 are discarded when popped and never expanded. Growth stops when the
// region is full or the frontier is empty.
//
// The boolean result is false when the region could not reach targetSize (or
// the seed is outside the matrix); such seeds produce no region. A target
// larger than the matrix fails without allocating.
func Grow(m grid.Matrix, seed grid.Cell, targetSize int) (Region, bool) {
	if targetSize <= 0 || grid.Validate(m) != nil || !grid.InBounds(m, seed.Row, seed.Col) {
		return Region{}, false
	}
	rows, cols := m.Dims()
	if targetSize > rows*cols {
		return Region{}, false
	}

	// Buffers never need more than the cells the region and its rim can touch.
	hint := min(targetSize, rows*cols)
	buf := min(4*hint, rows*cols)

	start := seed.Row*cols + seed.Col
	visited := make(map[int]struct{}, buf)
	visited[start] = struct{}{}

	pq := make(frontier, 0, buf)
	var seq int
	heap.Push(&pq, frontierItem{score: m.At(seed.Row, seed.Col), idx: start, seq: seq})

	cells := make([]grid.Cell, 0, hint)
	total := 0
	for len(cells) < targetSize && pq.Len() > 0 {
		item := heap.Pop(&pq).(frontierItem)
		if item.score <= 0 {
			continue
		}

		r, c := item.idx/cols, item.idx%cols
		cells = append(cells, grid.Cell{Score: item.score, Row: r, Col: c})
		total += item.score

		for _, d := range neighbours {
			nr, nc := r+d[0], c+d[1]
			if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
				continue
			}
			ni := nr*cols + nc
			if _, seen := visited[ni]; seen {
				continue
			}
			visited[ni] = struct{}{}
			seq++
			heap.Push(&pq, frontierItem{score: m.At(nr, nc), idx: ni, seq: seq})
		}
	}

	if len(cells) < targetSize {
		return Region{}, false
	}
	return Region{Seed: seed, Cells: cells, Total: total}, true
}

// frontierItem is a cell waiting in the growth heap.
type frontierItem struct {
	score int
	idx   int // row-major index
	seq   int // insertion order, breaks score ties
}

// frontier is a max-heap of frontierItem ordered by score, then by
// insertion order (earlier first).
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].score != f[j].score {
		return f[i].score > f[j].score
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
