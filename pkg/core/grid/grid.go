package grid

import (
	"errors"
	"fmt"
	"math"
)

// Unusable is the sentinel score for cells that can never host a site
// (outside the buildable mask, water, urban cover, ...).
const Unusable = -1

var (
	// ErrEmptyMatrix is returned when a matrix has zero rows or zero columns.
	ErrEmptyMatrix = errors.New("matrix has no cells")

	// ErrRaggedRows is returned by [FromRows] when rows differ in length.
	ErrRaggedRows = errors.New("matrix rows have different lengths")

	// ErrDimensionMismatch is returned by [NewDense] when the data length does
	// not equal rows*cols.
	ErrDimensionMismatch = errors.New("data length does not match dimensions")

	// ErrScoreRange is returned when a score does not fit the 32-bit storage.
	ErrScoreRange = errors.New("score out of range")

	// ErrOutOfBounds is returned by [NewWindow] when the window exceeds its parent.
	ErrOutOfBounds = errors.New("window out of bounds")
)

// Matrix is a read-only 2-D grid of integer scores.
//
// Implementations must be safe for concurrent reads.
type Matrix interface {
	// Dims returns the number of rows and columns.
	Dims() (rows, cols int)
	// At returns the score at (row, col). Behavior is undefined for
	// out-of-range coordinates.
	At(row, col int) int
}

// Cell is a single scored grid position. It is a value type and never aliases
// the matrix it was read from.
type Cell struct {
	Score int
	Row   int
	Col   int
}

// Chebyshev returns the chessboard distance between two cells:
// max(|Δrow|, |Δcol|).
func Chebyshev(a, b Cell) int {
	return max(abs(a.Row-b.Row), abs(a.Col-b.Col))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Dense is a row-major score matrix.
type Dense struct {
	rows, cols int
	data       []int32
}

// NewDense creates a rows×cols matrix from row-major data.
func NewDense(rows, cols int, data []int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyMatrix
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: got %d values for %dx%d", ErrDimensionMismatch, len(data), rows, cols)
	}
	d := &Dense{rows: rows, cols: cols, data: make([]int32, len(data))}
	for i, v := range data {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %d at index %d", ErrScoreRange, v, i)
		}
		d.data[i] = int32(v)
	}
	return d, nil
}

// NewFilled creates a rows×cols matrix with every cell set to v.
// It panics if either dimension is not positive.
func NewFilled(rows, cols, v int) *Dense {
	if rows <= 0 || cols <= 0 {
		panic(ErrEmptyMatrix)
	}
	d := &Dense{rows: rows, cols: cols, data: make([]int32, rows*cols)}
	if v != 0 {
		for i := range d.data {
			d.data[i] = int32(v)
		}
	}
	return d
}

// FromRows creates a matrix from a slice of equal-length rows.
func FromRows(rows [][]int) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMatrix
	}
	cols := len(rows[0])
	data := make([]int, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRaggedRows, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return NewDense(len(rows), cols, data)
}

// Dims returns the number of rows and columns.
func (d *Dense) Dims() (rows, cols int) { return d.rows, d.cols }

// At returns the score at (row, col).
func (d *Dense) At(row, col int) int { return int(d.data[row*d.cols+col]) }

// Set overwrites the score at (row, col). Dense is not safe for concurrent
// writes; populate it fully before searching.
func (d *Dense) Set(row, col, v int) { d.data[row*d.cols+col] = int32(v) }

// Rows copies the matrix into a slice of rows.
func (d *Dense) Rows() [][]int { return ToRows(d) }

// ToRows copies any matrix into a slice of rows.
func ToRows(m Matrix) [][]int {
	rows, cols := m.Dims()
	out := make([][]int, rows)
	for r := range rows {
		out[r] = make([]int, cols)
		for c := range cols {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

// Validate reports whether m can be searched: non-nil with at least one cell.
func Validate(m Matrix) error {
	if m == nil {
		return ErrEmptyMatrix
	}
	rows, cols := m.Dims()
	if rows <= 0 || cols <= 0 {
		return ErrEmptyMatrix
	}
	return nil
}

// InBounds reports whether (row, col) lies inside m.
func InBounds(m Matrix, row, col int) bool {
	rows, cols := m.Dims()
	return row >= 0 && row < rows && col >= 0 && col < cols
}

// CellAt reads the cell at (row, col) as a value.
func CellAt(m Matrix, row, col int) Cell {
	return Cell{Score: m.At(row, col), Row: row, Col: col}
}
