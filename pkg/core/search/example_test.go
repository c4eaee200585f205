package search_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
	"github.com/matzehuels/sitefinder/pkg/core/search"
)

func ExampleRun() {
	// Two hot spots on an otherwise unsuitable 10x10 map
	m := grid.NewFilled(10, 10, grid.Unusable)
	for _, p := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}} {
		m.Set(p[0], p[1], 9)
	}
	for _, p := range [][2]int{{6, 6}, {6, 7}, {7, 6}, {7, 7}} {
		m.Set(p[0], p[1], 5)
	}

	res, err := search.Run(context.Background(), m, 4, 2)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for i, r := range res.Regions {
		fmt.Printf("site %d: seed (%d,%d) total %d\n", i+1, r.Seed.Row, r.Seed.Col, r.Total)
	}
	// Output:
	// site 1: seed (1,1) total 36
	// site 2: seed (6,6) total 20
}

func ExampleMinSeparation() {
	for _, size := range []int{1, 20, 100} {
		fmt.Println(size, search.MinSeparation(size))
	}
	// Output:
	// 1 3
	// 20 6
	// 100 12
}

func ExampleExtractSeeds() {
	m, _ := grid.FromRows([][]int{
		{0, 4, 1},
		{8, -1, 4},
	})
	for _, c := range search.ExtractSeeds(m, 3) {
		fmt.Printf("%d at (%d,%d)\n", c.Score, c.Row, c.Col)
	}
	// Output:
	// 8 at (1,0)
	// 4 at (0,1)
	// 4 at (1,2)
}
