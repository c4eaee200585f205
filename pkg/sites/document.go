package sites

import (
	"fmt"
	"math"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
	"github.com/matzehuels/sitefinder/pkg/core/search"
)

// Document is the result of one search.
type Document struct {
	TargetSize int           `json:"target_size" bson:"target_size"`
	Count      int           `json:"count" bson:"count"`
	Rows       int           `json:"rows" bson:"rows"`
	Cols       int           `json:"cols" bson:"cols"`
	OffsetRow  int           `json:"offset_row" bson:"offset_row"`
	OffsetCol  int           `json:"offset_col" bson:"offset_col"`
	Geo        *GeoTransform `json:"geo,omitempty" bson:"geo,omitempty"`
	Sites      []Site        `json:"sites" bson:"sites"`
}

// Site is one ranked region.
type Site struct {
	ID         int    `json:"id" bson:"id"`
	TotalScore int    `json:"total_score" bson:"total_score"`
	Color      string `json:"color" bson:"color"`
	Seed       Cell   `json:"seed" bson:"seed"`
	Cells      []Cell `json:"cells" bson:"cells"`
}

// Cell is a member cell of a site.
type Cell struct {
	Row       int      `json:"row" bson:"row"`
	Col       int      `json:"col" bson:"col"`
	GlobalRow int      `json:"global_row" bson:"global_row"`
	GlobalCol int      `json:"global_col" bson:"global_col"`
	Score     int      `json:"score" bson:"score"`
	X         *float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y         *float64 `json:"y,omitempty" bson:"y,omitempty"`
}

// Options describe the search that produced a set of regions.
type Options struct {
	TargetSize int
	Count      int
	Rows       int
	Cols       int
	OffsetRow  int
	OffsetCol  int
	Geo        *GeoTransform
}

// FromRegions converts ranked regions into a document. Regions must already
// be ranked; the i-th region becomes site i+1.
func FromRegions(regions []search.Region, opts Options) *Document {
	doc := &Document{
		TargetSize: opts.TargetSize,
		Count:      opts.Count,
		Rows:       opts.Rows,
		Cols:       opts.Cols,
		OffsetRow:  opts.OffsetRow,
		OffsetCol:  opts.OffsetCol,
		Geo:        opts.Geo,
		Sites:      make([]Site, len(regions)),
	}

	for i, r := range regions {
		cells := make([]Cell, len(r.Cells))
		for j, c := range r.Cells {
			cells[j] = doc.cell(c)
		}
		doc.Sites[i] = Site{
			ID:         i + 1,
			TotalScore: r.Total,
			Color:      Color(i, len(regions)),
			Seed:       doc.cell(r.Seed),
			Cells:      cells,
		}
	}
	return doc
}

func (d *Document) cell(c grid.Cell) Cell {
	out := Cell{
		Row:       c.Row,
		Col:       c.Col,
		GlobalRow: c.Row + d.OffsetRow,
		GlobalCol: c.Col + d.OffsetCol,
		Score:     c.Score,
	}
	if d.Geo != nil {
		x, y := d.Geo.Center(out.GlobalRow, out.GlobalCol)
		out.X, out.Y = &x, &y
	}
	return out
}

// Color returns the display color of the site at 0-based rank among n sites:
// "#FF" followed by a green/blue channel that rises from 30 toward 80 as rank
// increases, so better sites are more saturated.
func Color(rank, n int) string {
	step := 50.0 / float64(max(n, 1))
	gb := int(math.Min(255, math.RoundToEven(30+float64(rank)*step)))
	return fmt.Sprintf("#FF%02X%02X", gb, gb)
}

// Size returns the number of cells in the site.
func (s Site) Size() int { return len(s.Cells) }

// Empty reports whether the document has no sites.
func (d *Document) Empty() bool { return len(d.Sites) == 0 }
