// Package grid provides the in-memory score matrix used by the site search.
//
// A score matrix is a dense 2-D grid of integer suitability scores. Positive
// cells are candidates for placing a facility; zero cells are neutral and
// [Unusable] (-1) marks cells outside the buildable mask. The search never
// mutates a matrix, so a single [Dense] can be shared by concurrent searches.
//
// # Core Types
//
//   - [Matrix]: read-only view (dimensions plus cell lookup)
//   - [Dense]: row-major implementation backed by a flat slice
//   - [Window]: zero-copy sub-view that remembers its offset in the parent
//   - [Cell]: a (score, row, col) triple copied out of a matrix
//
// # Coordinates
//
// Rows and columns are 0-based and local to the matrix being searched. A
// [Window] reports its offset so callers can translate local indices back to
// the parent grid:
//
//	w, _ := grid.NewWindow(full, 100, 250, 64, 64)
//	r, c := w.Offset() // 100, 250
package grid
