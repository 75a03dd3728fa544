// Package raster reads, writes, and converts raster map images and their
// spatial metadata.
//
// The package is the I/O boundary of the tool: everything above it works
// with Profile values and file paths, never with codec details.
//
// # Supported formats
//
// PNG, JPEG, GIF, TIFF, and BMP. TIFF is the canonical output container;
// it is written Deflate-compressed with a horizontal predictor.
//
// # Spatial metadata
//
// Georeference information rides in sidecar files, the ESRI world-file
// convention:
//
//   - map.tfw (or .pgw/.jgw/.gfw/.bpw, with .wld accepted on read) holds
//     the six affine coefficients, anchored at the center of the top-left
//     pixel. GeoTransform anchors at the top-left corner, so reads and
//     writes apply the half-pixel shift.
//   - map.prj holds the CRS authority identifier, e.g. "EPSG:32633".
//
// Pure Go codecs cannot embed GeoTIFF tags, and world files are portable:
// GDAL, rasterio, and QGIS all honor them.
//
// Missing sidecars are not an error — most map scans start life with no
// georeference at all. A present but malformed sidecar is an error: silent
// fallback would hide a broken reference.
//
// # Coordinate system
//
// Pixel coordinates are 0-based with (0,0) the top-left corner of the
// top-left pixel, X increasing rightward and Y downward. Ground
// coordinates follow whatever CRS the raster carries.
//
// # Error handling
//
// Open failures return *ReadError and write failures *WriteError, both
// carrying the path and the underlying cause. Callers branch on the error
// type with errors.As when they need to know which side failed.
package raster
