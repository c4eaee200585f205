// Package pkg provides the core libraries for sitefinder.
//
// # Overview
//
// Sitefinder picks building sites from a suitability score map. The map is a
// grid of integer scores where -1 marks cells that cannot be built on. A
// search returns up to N compact, non-overlapping regions of a target size,
// ranked by total score. The pkg directory is organized into:
//
//  1. [core] - Domain logic (score grids, the four-stage search)
//  2. [scores] and [sites] - Input matrices and output documents
//  3. [pipeline] - Orchestration (validate → hash → cache → search → store)
//  4. [cache] and [store] - Result caching and run history
//  5. [config], [errors], [observability] - Ambient infrastructure
//
// # Architecture
//
// The data flow of one search:
//
//	Score matrix (.json, .csv, .asc)
//	         ↓
//	    [scores] package (read, window offsets, georeference)
//	         ↓
//	    [core/search] package (extract seeds → deconflict → grow → rank)
//	         ↓
//	    [sites] package (ranked result document)
//	         ↓
//	    JSON file, HTTP response, or saved run
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/sitefinder/pkg/pipeline"
//	    "github.com/matzehuels/sitefinder/pkg/scores"
//	)
//
//	raster, _ := scores.ReadMatrixFile("area.asc")
//	runner := pipeline.NewRunner(nil, nil, nil, nil)
//	res, _ := runner.Execute(context.Background(), raster.Scores, pipeline.Options{
//	    TargetSize: 20,
//	    Count:      4,
//	    Geo:        raster.Geo,
//	})
//	for _, s := range res.Document.Sites {
//	    fmt.Println(s.ID, s.TotalScore, s.Size())
//	}
//
// # Main Packages
//
// [core/grid] - Dense and windowed integer matrices and 4-neighbourhoods.
//
// [core/search] - Seed extraction, seed deconfliction, greedy region growth
// and ranking. Regions can be grown concurrently.
//
// [cache] - File, Redis and null caches for search results and matrix
// summaries, keyed by matrix hash and options.
//
// [store] - Memory, file and MongoDB storage for completed runs.
//
// [observability/prometheus] - Search, cache and HTTP metrics.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/sitefinder/pkg/core
package pkg
