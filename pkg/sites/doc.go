// Package sites defines the result document produced by a site search.
//
// A [Document] is the canonical wire format: it is what the CLI writes to
// disk, what the HTTP API returns, what the cache stores, and what the result
// store persists. Every type carries both json and bson tags.
//
// # Format
//
//	{
//	  "target_size": 20,
//	  "count": 4,
//	  "rows": 400, "cols": 600,
//	  "offset_row": 1200, "offset_col": 800,
//	  "sites": [
//	    {
//	      "id": 1,
//	      "total_score": 1874,
//	      "color": "#FF1E1E",
//	      "seed": {"row": 12, "col": 40, "global_row": 1212, "global_col": 840, "score": 110},
//	      "cells": [ ... ]
//	    }
//	  ]
//	}
//
// Site IDs are 1-based ranks. Colors fade from saturated red (rank 1) toward
// pale red (last rank), see [Color]. Local row/col index the searched
// matrix; global row/col add the window offset. When the document carries a
// [GeoTransform], each cell also has pixel-centre world coordinates x/y.
//
// An empty search produces a document with "sites": [] rather than null.
package sites
