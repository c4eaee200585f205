package scores

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
	"github.com/matzehuels/sitefinder/pkg/errors"
	"github.com/matzehuels/sitefinder/pkg/sites"
)

// matrixFile is the object form of the JSON format.
type matrixFile struct {
	Scores    [][]int             `json:"scores"`
	OffsetRow int                 `json:"offset_row,omitempty"`
	OffsetCol int                 `json:"offset_col,omitempty"`
	Geo       *sites.GeoTransform `json:"geo,omitempty"`
}

// ReadMatrixFile reads a score matrix from path. The format is chosen by
// extension (.json, .csv or .asc, case-insensitive).
func ReadMatrixFile(path string) (*Raster, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := errors.ValidateMatrixFormat(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "score matrix %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r *Raster
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		r, err = ReadJSON(f)
	case ".csv":
		r, err = ReadCSV(f)
	case ".asc":
		r, err = ReadASC(f)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r, nil
}

// ReadJSON decodes a score matrix in either JSON form: a bare array of rows,
// or an object with "scores" and optional offsets and georeference.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Raster, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "decode json")
	}

	var mf matrixFile
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &mf.Scores); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "decode json rows")
		}
	} else if err := json.Unmarshal(raw, &mf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "decode json object")
	}

	m, err := grid.FromRows(mf.Scores)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "build matrix")
	}
	return &Raster{Scores: m, OffsetRow: mf.OffsetRow, OffsetCol: mf.OffsetCol, Geo: mf.Geo}, nil
}

// ReadCSV decodes a comma-separated score matrix. Empty fields and "nodata"
// become [grid.Unusable]. Lines starting with '#' are ignored.
func ReadCSV(r io.Reader) (*Raster, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]int
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "decode csv")
		}
		row := make([]int, len(rec))
		for i, field := range rec {
			v, err := parseScore(field, nil)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "csv row %d col %d", len(rows)+1, i+1)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	m, err := grid.FromRows(rows)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "build matrix")
	}
	return NewRaster(m), nil
}

// ascHeader holds the ESRI ASCII grid header.
type ascHeader struct {
	cols, rows int
	x, y       float64
	center     bool
	cellSize   float64
	noData     *float64
}

// ReadASC decodes an ESRI ASCII grid. NODATA cells become [grid.Unusable] and
// the header is converted to a north-up [sites.GeoTransform].
func ReadASC(r io.Reader) (*Raster, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	sc.Split(bufio.ScanWords)

	var (
		h      ascHeader
		values []int
		seen   = map[string]bool{}
	)
	for sc.Scan() {
		tok := sc.Text()
		key := strings.ToLower(tok)
		if len(values) == 0 && isHeaderKey(key) {
			if !sc.Scan() {
				return nil, errors.New(errors.ErrCodeInvalidMatrix, "asc header %s has no value", tok)
			}
			if err := h.set(key, sc.Text()); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "asc header %s", tok)
			}
			seen[strings.TrimSuffix(strings.TrimSuffix(key, "corner"), "center")] = true
			continue
		}
		v, err := parseScore(tok, h.noData)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "asc value %d", len(values)+1)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan asc: %w", err)
	}

	for _, k := range []string{"ncols", "nrows", "xll", "yll", "cellsize"} {
		if !seen[k] {
			return nil, errors.New(errors.ErrCodeInvalidMatrix, "asc header missing %s", k)
		}
	}
	m, err := grid.NewDense(h.rows, h.cols, values)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "build matrix")
	}

	originX, originY := h.x, h.y+float64(h.rows)*h.cellSize
	if h.center {
		originX -= h.cellSize / 2
		originY -= h.cellSize / 2
	}
	geo := sites.NorthUp(originX, originY, h.cellSize)
	return &Raster{Scores: m, Geo: &geo}, nil
}

func isHeaderKey(key string) bool {
	switch key {
	case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "nodata_value":
		return true
	}
	return false
}

func (h *ascHeader) set(key, value string) error {
	switch key {
	case "ncols", "nrows":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if key == "ncols" {
			h.cols = n
		} else {
			h.rows = n
		}
		return nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "xllcorner", "xllcenter":
		h.x = f
		h.center = key == "xllcenter"
	case "yllcorner", "yllcenter":
		h.y = f
	case "cellsize":
		if f <= 0 {
			return fmt.Errorf("cellsize must be positive, got %g", f)
		}
		h.cellSize = f
	case "nodata_value":
		h.noData = &f
	}
	return nil
}

// parseScore converts a text field to a score. Empty fields, "nodata", "nan"
// and values equal to noData map to grid.Unusable.
func parseScore(field string, noData *float64) (int, error) {
	s := strings.TrimSpace(field)
	switch strings.ToLower(s) {
	case "", "nodata", "nan":
		return grid.Unusable, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if noData != nil && float64(n) == *noData {
			return grid.Unusable, nil
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if noData != nil && f == *noData {
		return grid.Unusable, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return grid.Unusable, nil
	}
	return int(math.Round(f)), nil
}
