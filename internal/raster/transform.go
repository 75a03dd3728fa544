package raster

import (
	"fmt"
	"strconv"
	"strings"
)

// GeoTransform maps pixel coordinates to ground coordinates:
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
//
// Pixel (0,0) is the top-left corner of the top-left pixel, matching the
// GDAL geotransform convention. For north-up imagery B and D are zero and
// E is negative (ground y decreases as rows increase).
type GeoTransform struct {
	A float64 `json:"a"` // ground x per column
	B float64 `json:"b"` // ground x per row (rotation/shear)
	C float64 `json:"c"` // ground x of the top-left corner
	D float64 `json:"d"` // ground y per column (rotation/shear)
	E float64 `json:"e"` // ground y per row
	F float64 `json:"f"` // ground y of the top-left corner
}

// Identity returns the identity transform: pixel coordinates pass through
// unchanged. An identity transform on a referenced raster is a strong hint
// the reference was assigned rather than measured.
func Identity() GeoTransform {
	return GeoTransform{A: 1, E: 1}
}

// IsIdentity reports whether the transform is exactly the identity.
func (t GeoTransform) IsIdentity() bool {
	return t == Identity()
}

// Apply maps a pixel coordinate to its ground coordinate.
func (t GeoTransform) Apply(col, row float64) (x, y float64) {
	x = t.A*col + t.B*row + t.C
	y = t.D*col + t.E*row + t.F
	return x, y
}

// String formats the six coefficients in a compact, stable order.
func (t GeoTransform) String() string {
	coeffs := []float64{t.A, t.B, t.C, t.D, t.E, t.F}
	parts := make([]string, len(coeffs))
	for i, c := range coeffs {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
