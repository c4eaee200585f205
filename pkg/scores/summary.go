package scores

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
)

// HistogramBins is the number of equal-width bins in [Summary].Histogram.
const HistogramBins = 10

// Summary describes the score distribution of a matrix. Moments and
// quantiles are computed over strictly positive cells only, since those are
// the only cells a site can use.
type Summary struct {
	Rows     int `json:"rows"`
	Cols     int `json:"cols"`
	Cells    int `json:"cells"`
	Positive int `json:"positive"`
	Unusable int `json:"unusable"`
	Min      int `json:"min"`
	Max      int `json:"max"`

	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`

	// Histogram counts positive cells in HistogramBins equal-width bins
	// spanning [Min positive, Max positive]. BinEdges has one more entry.
	Histogram []float64 `json:"histogram,omitempty"`
	BinEdges  []float64 `json:"bin_edges,omitempty"`
}

// Summarize scans m once and returns its score statistics.
func Summarize(m grid.Matrix) Summary {
	rows, cols := m.Dims()
	s := Summary{Rows: rows, Cols: cols, Cells: rows * cols, Min: math.MaxInt, Max: math.MinInt}

	var pos []float64
	for r := range rows {
		for c := range cols {
			v := m.At(r, c)
			s.Min = min(s.Min, v)
			s.Max = max(s.Max, v)
			switch {
			case v == grid.Unusable:
				s.Unusable++
			case v > 0:
				pos = append(pos, float64(v))
			}
		}
	}
	if s.Cells == 0 {
		s.Min, s.Max = 0, 0
	}
	s.Positive = len(pos)
	if len(pos) == 0 {
		return s
	}

	sort.Float64s(pos)
	if len(pos) == 1 {
		s.Mean = pos[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(pos, nil)
	}
	s.P50 = stat.Quantile(0.50, stat.Empirical, pos, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, pos, nil)
	s.P99 = stat.Quantile(0.99, stat.Empirical, pos, nil)

	lo, hi := pos[0], pos[len(pos)-1]
	s.BinEdges = floats.Span(make([]float64, HistogramBins+1), lo, hi+1)
	s.Histogram = stat.Histogram(nil, s.BinEdges, pos, nil)
	return s
}
