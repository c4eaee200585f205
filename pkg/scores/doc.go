// Package scores loads, describes, and persists suitability score matrices.
//
// # Overview
//
// A score matrix assigns every cell of a study area an integer suitability
// score. Cells that can never host a site carry [grid.Unusable]. This package
// turns files on disk into a [Raster] (a [grid.Dense] plus the window offset
// and optional georeference it came with) that the search can consume.
//
// # File Formats
//
// [ReadMatrixFile] dispatches on the file extension:
//
//   - .json: either a bare 2-D array of integers, or an object
//     {"scores": [[...]], "offset_row": 0, "offset_col": 0, "geo": [6 floats]}
//   - .csv: one matrix row per line; empty fields and "nodata" (any case)
//     become [grid.Unusable]
//   - .asc: ESRI ASCII grid with the usual ncols, nrows, xllcorner (or
//     xllcenter), yllcorner (or yllcenter), cellsize and optional
//     NODATA_value header; the header yields a [sites.GeoTransform]
//
// Fractional values in CSV and ASC files are rounded to the nearest integer.
//
// # Helpers
//
// [Hash] fingerprints matrix content for cache keys, [Summarize] computes
// descriptive statistics of the positive scores, and [Crop] returns a
// zero-copy window that remembers its offset in the parent matrix.
package scores
