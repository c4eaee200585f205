// Package search selects fixed-size facility sites from a score matrix.
//
// The search is a four-stage, single-pass pipeline over an in-memory
// [grid.Matrix]:
//
//  1. [ExtractSeeds] picks the K highest strictly-positive cells using a
//     partial selection (quickselect) and sorts only the winners.
//  2. [Deconflict] greedily keeps seeds, in descending score order, whose
//     Chebyshev distance to every kept seed is at least [MinSeparation].
//  3. [Grow] expands each kept seed into a 4-connected region of exactly the
//     target size with a best-first flood fill driven by a max-heap.
//  4. [Rank] orders the grown regions by total score and truncates.
//
// [Run] chains the stages, validates inputs, and reports per-stage [Stats].
//
// # Empty and Partial Results
//
// Finding nothing is not an error. A matrix without positive cells, seeds
// that all collide, or regions that cannot reach the target size all yield a
// shorter (possibly empty) slice of regions. Only malformed input (empty
// matrix, non-positive target size, count, or seed pool) returns an error,
// carrying an INVALID_* code from pkg/errors.
//
// # Overlap
//
// Seeds are separated, but regions grown from different seeds are not
// checked against each other and may share cells. [Stats].OverlappingCells
// counts shared cells among the returned regions so callers that need strict
// disjointness can detect it.
//
// # Determinism
//
// Ties between equal scores are broken by row-major position during
// extraction and by insertion order inside the growth heap, so identical
// inputs always produce identical regions, with or without [WithWorkers].
package search
