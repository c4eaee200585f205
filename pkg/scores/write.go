package scores

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
	"github.com/matzehuels/sitefinder/pkg/errors"
)

// WriteJSON encodes r in the object form of the JSON format.
// The output can be read back with [ReadJSON].
func WriteJSON(w io.Writer, r *Raster) error {
	out := matrixFile{
		Scores:    grid.ToRows(r.Scores),
		OffsetRow: r.OffsetRow,
		OffsetCol: r.OffsetCol,
		Geo:       r.Geo,
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCSV encodes m as comma-separated rows. Unusable cells are written as
// empty fields.
func WriteCSV(w io.Writer, m grid.Matrix) error {
	cw := csv.NewWriter(w)
	rows, cols := m.Dims()
	rec := make([]string, cols)
	for r := range rows {
		for c := range cols {
			if v := m.At(r, c); v == grid.Unusable {
				rec[c] = ""
			} else {
				rec[c] = strconv.Itoa(v)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMatrixFile writes r to path as JSON or CSV depending on the
// extension. CSV output drops offsets and georeference.
func WriteMatrixFile(path string, r *Raster) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".csv" {
		return errors.New(errors.ErrCodeUnsupported, "cannot write score matrix as %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if ext == ".csv" {
		return WriteCSV(f, r.Scores)
	}
	return WriteJSON(f, r)
}
