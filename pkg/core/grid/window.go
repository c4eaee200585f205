package grid

import "fmt"

// Offsetter is implemented by matrices that are a view into a larger grid.
type Offsetter interface {
	// Offset returns the position of the view's (0, 0) in its parent.
	Offset() (row, col int)
}

// Window is a rectangular, zero-copy view into another matrix.
type Window struct {
	src            Matrix
	rowOff, colOff int
	rows, cols     int
}

// NewWindow returns the rows×cols view of src whose top-left corner is at
// (rowOff, colOff). The window must lie entirely within src.
func NewWindow(src Matrix, rowOff, colOff, rows, cols int) (*Window, error) {
	if err := Validate(src); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyMatrix
	}
	srcRows, srcCols := src.Dims()
	if rowOff < 0 || colOff < 0 || rowOff+rows > srcRows || colOff+cols > srcCols {
		return nil, fmt.Errorf("%w: [%d:%d, %d:%d] in %dx%d",
			ErrOutOfBounds, rowOff, rowOff+rows, colOff, colOff+cols, srcRows, srcCols)
	}

	// Flatten nested windows so lookups stay one hop away from storage.
	if w, ok := src.(*Window); ok {
		return &Window{src: w.src, rowOff: w.rowOff + rowOff, colOff: w.colOff + colOff, rows: rows, cols: cols}, nil
	}
	return &Window{src: src, rowOff: rowOff, colOff: colOff, rows: rows, cols: cols}, nil
}

// Dims returns the window size.
func (w *Window) Dims() (rows, cols int) { return w.rows, w.cols }

// At returns the score at local (row, col).
func (w *Window) At(row, col int) int { return w.src.At(row+w.rowOff, col+w.colOff) }

// Offset returns the window origin in the underlying matrix.
func (w *Window) Offset() (row, col int) { return w.rowOff, w.colOff }

var (
	_ Matrix    = (*Dense)(nil)
	_ Matrix    = (*Window)(nil)
	_ Offsetter = (*Window)(nil)
)
