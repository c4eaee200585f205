package search

import (
	"slices"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
)

// candidate is a compact positive cell used during selection.
type candidate struct {
	score int
	idx   int // row-major index
}

// better is the strict total order used for selection: higher score first,
// then lower row-major index.
func better(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.idx < b.idx
}

// ExtractSeeds returns up to k cells with the highest strictly-positive
// scores, sorted by score descending. It returns an empty slice when k is not
// positive or the matrix has no positive cell.
//
// Selection runs in O(n) average time over the n matrix cells; only the k
// winners are sorted.
func ExtractSeeds(m grid.Matrix, k int) []grid.Cell {
	seeds, _ := extract(m, k)
	return seeds
}

// extract implements ExtractSeeds and also reports how many cells were
// strictly positive.
func extract(m grid.Matrix, k int) ([]grid.Cell, int) {
	if k <= 0 || grid.Validate(m) != nil {
		return []grid.Cell{}, 0
	}

	rows, cols := m.Dims()
	var cands []candidate
	for r := range rows {
		for c := range cols {
			if v := m.At(r, c); v > 0 {
				cands = append(cands, candidate{score: v, idx: r*cols + c})
			}
		}
	}
	positives := len(cands)
	if positives == 0 {
		return []grid.Cell{}, 0
	}

	if k < len(cands) {
		selectTop(cands, k)
		cands = cands[:k]
	}
	slices.SortFunc(cands, func(a, b candidate) int {
		if better(a, b) {
			return -1
		}
		return 1
	})

	seeds := make([]grid.Cell, len(cands))
	for i, cd := range cands {
		seeds[i] = grid.Cell{Score: cd.score, Row: cd.idx / cols, Col: cd.idx % cols}
	}
	return seeds, positives
}

// selectTop rearranges c so that its first k elements are the k best under
// better, in no particular order. Requires 0 < k < len(c).
func selectTop(c []candidate, k int) {
	lo, hi := 0, len(c)-1
	for lo < hi {
		p := partition(c, lo, hi)
		switch {
		case p == k-1:
			return
		case p < k-1:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

// partition places a median-of-three pivot at its final position within
// c[lo:hi+1] and returns that position. Elements before it are better than the
// pivot, elements after it are worse.
func partition(c []candidate, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if better(c[mid], c[lo]) {
		c[lo], c[mid] = c[mid], c[lo]
	}
	if better(c[hi], c[lo]) {
		c[lo], c[hi] = c[hi], c[lo]
	}
	if better(c[hi], c[mid]) {
		c[mid], c[hi] = c[hi], c[mid]
	}
	c[mid], c[hi] = c[hi], c[mid]
	pivot := c[hi]

	store := lo
	for i := lo; i < hi; i++ {
		if better(c[i], pivot) {
			c[i], c[store] = c[store], c[i]
			store++
		}
	}
	c[store], c[hi] = c[hi], c[store]
	return store
}
