package scores

import (
	"github.com/matzehuels/sitefinder/pkg/core/grid"
	"github.com/matzehuels/sitefinder/pkg/errors"
	"github.com/matzehuels/sitefinder/pkg/sites"
)

// Raster is a score matrix together with its placement in a larger map.
type Raster struct {
	Scores *grid.Dense

	// OffsetRow and OffsetCol locate Scores inside the full study area.
	OffsetRow int
	OffsetCol int

	// Geo maps global row/col indices to world coordinates. Nil when the
	// source carried no georeference.
	Geo *sites.GeoTransform
}

// NewRaster wraps m without offsets or georeference.
func NewRaster(m *grid.Dense) *Raster {
	return &Raster{Scores: m}
}

// Dims returns the matrix dimensions.
func (r *Raster) Dims() (rows, cols int) { return r.Scores.Dims() }

// Crop returns a rows×cols window of m starting at (rowOff, colOff). The
// window shares storage with m and reports its offset through
// [grid.Offsetter], accumulated across nested crops.
func Crop(m grid.Matrix, rowOff, colOff, rows, cols int) (*grid.Window, error) {
	w, err := grid.NewWindow(m, rowOff, colOff, rows, cols)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err,
			"crop %dx%d at (%d,%d)", rows, cols, rowOff, colOff)
	}
	return w, nil
}

// Offset returns the offset of m within its root matrix, or zeros when m is
// not a window.
func Offset(m grid.Matrix) (row, col int) {
	if o, ok := m.(grid.Offsetter); ok {
		return o.Offset()
	}
	return 0, 0
}
