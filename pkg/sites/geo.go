package sites

import "math"

// GeoTransform is a GDAL-style affine transform from pixel indices to world
// coordinates:
//
//	x = g[0] + col*g[1] + row*g[2]
//	y = g[3] + col*g[4] + row*g[5]
//
// For a north-up raster g[2] and g[4] are zero and g[5] is negative.
type GeoTransform [6]float64

// NorthUp builds the transform of a north-up raster whose top-left corner is
// (originX, originY) with square cells of the given size.
func NorthUp(originX, originY, cellSize float64) GeoTransform {
	return GeoTransform{originX, cellSize, 0, originY, 0, -cellSize}
}

// Center returns the world coordinates of the centre of pixel (row, col),
// rounded to six decimal places.
func (g GeoTransform) Center(row, col int) (x, y float64) {
	c, r := float64(col)+0.5, float64(row)+0.5
	x = g[0] + c*g[1] + r*g[2]
	y = g[3] + c*g[4] + r*g[5]
	return round6(x), round6(y)
}

// IsZero reports whether g is the zero transform.
func (g GeoTransform) IsZero() bool { return g == GeoTransform{} }

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
