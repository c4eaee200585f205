package search

import (
	"cmp"
	"slices"
)

// Rank recomputes each region's total, sorts by total descending, and
// returns at most count regions. Regions with equal totals keep their input
// order. The input slice is not modified.
func Rank(regions []Region, count int) []Region {
	if count <= 0 || len(regions) == 0 {
		return []Region{}
	}

	ranked := slices.Clone(regions)
	for i := range ranked {
		ranked[i].Total = ranked[i].Sum()
	}
	slices.SortStableFunc(ranked, func(a, b Region) int {
		return cmp.Compare(b.Total, a.Total)
	})

	if len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked
}
