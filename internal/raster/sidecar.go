package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Georeference metadata travels in sidecar files next to the image, the
// ESRI world-file convention: pure Go codecs cannot embed GeoTIFF tags,
// and world files are understood by GDAL, rasterio, QGIS, and friends.
//
// The world file holds the six transform coefficients, one per line, in
// the order A D B E C' F', where (C', F') is the ground position of the
// CENTER of the top-left pixel. GeoTransform uses the top-left CORNER, so
// reading and writing apply the half-pixel shift.
//
// The CRS travels in a ".prj" sidecar holding the authority identifier
// ("EPSG:4326"). A full WKT definition would need a CRS registry, which
// this tool deliberately does not carry.

// worldExtensions maps an image extension to its world-file extension:
// first and third letters of the image extension plus "w".
var worldExtensions = map[string]string{
	".png":  ".pgw",
	".jpg":  ".jgw",
	".jpeg": ".jgw",
	".gif":  ".gfw",
	".tif":  ".tfw",
	".tiff": ".tfw",
	".bmp":  ".bpw",
}

// WorldFilePath returns the conventional world-file path for an image
// path. Unknown extensions fall back to ".wld".
func WorldFilePath(imagePath string) string {
	ext := strings.ToLower(filepath.Ext(imagePath))
	worldExt, ok := worldExtensions[ext]
	if !ok {
		worldExt = ".wld"
	}
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + worldExt
}

// CRSFilePath returns the ".prj" sidecar path for an image path.
func CRSFilePath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".prj"
}

// writeWorldFile writes the transform as a world file with the half-pixel
// shift applied: the stored translation refers to the top-left pixel's
// center.
func writeWorldFile(path string, t GeoTransform) error {
	centerX, centerY := t.Apply(0.5, 0.5)
	lines := []float64{t.A, t.D, t.B, t.E, centerX, centerY}

	var b strings.Builder
	for _, v := range lines {
		b.WriteString(strconv.FormatFloat(v, 'f', 10, 64))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// readWorldFile parses a world file and returns the corner-anchored
// transform.
func readWorldFile(path string) (GeoTransform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GeoTransform{}, err
	}

	var values []float64
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return GeoTransform{}, fmt.Errorf("world file %s: bad coefficient %q", path, line)
		}
		values = append(values, v)
	}
	if len(values) != 6 {
		return GeoTransform{}, fmt.Errorf("world file %s: expected 6 coefficients, found %d", path, len(values))
	}

	t := GeoTransform{A: values[0], D: values[1], B: values[2], E: values[3]}
	// Shift the stored pixel-center anchor back to the corner.
	t.C = values[4] - 0.5*t.A - 0.5*t.B
	t.F = values[5] - 0.5*t.D - 0.5*t.E
	return t, nil
}

// writeCRSFile writes the CRS identifier sidecar.
func writeCRSFile(path string, crs CRS) error {
	return os.WriteFile(path, []byte(crs.String()+"\n"), 0o644)
}

// readCRSFile parses the CRS identifier sidecar.
func readCRSFile(path string) (CRS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CRS{}, err
	}
	crs, err := ParseCRS(string(data))
	if err != nil {
		return CRS{}, fmt.Errorf("CRS sidecar %s: %w", path, err)
	}
	return crs, nil
}

// readSidecars loads whatever georeference sidecars exist for an image.
// A missing sidecar is not an error; a present but malformed one is.
func readSidecars(imagePath string) (*CRS, *GeoTransform, error) {
	var crs *CRS
	var transform *GeoTransform

	crsPath := CRSFilePath(imagePath)
	if _, err := os.Stat(crsPath); err == nil {
		parsed, err := readCRSFile(crsPath)
		if err != nil {
			return nil, nil, err
		}
		crs = &parsed
	}

	worldPath := WorldFilePath(imagePath)
	if _, err := os.Stat(worldPath); err != nil {
		// Accept the generic .wld extension on read.
		worldPath = strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".wld"
	}
	if _, err := os.Stat(worldPath); err == nil {
		parsed, err := readWorldFile(worldPath)
		if err != nil {
			return nil, nil, err
		}
		transform = &parsed
	}

	return crs, transform, nil
}
