package search

import "github.com/matzehuels/sitefinder/pkg/core/grid"

// MinSeparation is the default seed separation rule: floor(sqrt(targetSize)) + 2.
// Two seeds closer than this (in Chebyshev distance) would grow regions that
// almost certainly collide.
func MinSeparation(targetSize int) int {
	return isqrt(max(targetSize, 0)) + 2
}

// isqrt returns floor(sqrt(n)) for n >= 0 without float rounding surprises.
func isqrt(n int) int {
	if n < 2 {
		return n
	}
	x := n
	y := x/2 + x%2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// Deconflict filters seeds, in the order given, keeping a seed only if its
// Chebyshev distance to every previously kept seed is at least minSeparation.
// It stops once count seeds are kept.
//
// The filter is greedy and never revisits a rejected seed, so it is not an
// optimal packing; callers pass seeds sorted by descending score so stronger
// seeds win conflicts. Seeds with non-positive scores are ignored.
func Deconflict(seeds []grid.Cell, count, minSeparation int) []grid.Cell {
	if count <= 0 {
		return []grid.Cell{}
	}

	kept := make([]grid.Cell, 0, min(count, len(seeds)))
	for _, s := range seeds {
		if s.Score <= 0 || !separated(s, kept, minSeparation) {
			continue
		}
		kept = append(kept, s)
		if len(kept) == count {
			break
		}
	}
	return kept
}

func separated(s grid.Cell, kept []grid.Cell, minSeparation int) bool {
	for _, k := range kept {
		if grid.Chebyshev(s, k) < minSeparation {
			return false
		}
	}
	return true
}
