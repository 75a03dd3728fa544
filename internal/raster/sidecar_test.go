package raster

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWorldFilePath(t *testing.T) {
	tests := []struct {
		image string
		world string
	}{
		{"map.png", "map.pgw"},
		{"map.jpg", "map.jgw"},
		{"map.jpeg", "map.jgw"},
		{"map.tif", "map.tfw"},
		{"map.TIFF", "map.tfw"},
		{"map.bmp", "map.bpw"},
		{"map.gif", "map.gfw"},
		{"map.xyz", "map.wld"},
	}

	for _, tt := range tests {
		t.Run(tt.image, func(t *testing.T) {
			if got := WorldFilePath(tt.image); got != tt.world {
				t.Errorf("WorldFilePath(%q) = %q, want %q", tt.image, got, tt.world)
			}
		})
	}
}

func TestWorldFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.tfw")

	original := GeoTransform{A: 2, B: 0, C: 100, D: 0, E: -2, F: 500}
	if err := writeWorldFile(path, original); err != nil {
		t.Fatalf("writeWorldFile failed: %v", err)
	}

	got, err := readWorldFile(path)
	if err != nil {
		t.Fatalf("readWorldFile failed: %v", err)
	}

	coeffs := [][2]float64{
		{got.A, original.A}, {got.B, original.B}, {got.C, original.C},
		{got.D, original.D}, {got.E, original.E}, {got.F, original.F},
	}
	for i, pair := range coeffs {
		if math.Abs(pair[0]-pair[1]) > 1e-9 {
			t.Errorf("coefficient %d: got %g, want %g", i, pair[0], pair[1])
		}
	}
}

// The stored translation refers to the center of the top-left pixel, not
// its corner; that half-pixel shift is what GDAL and rasterio expect.
func TestWorldFileHalfPixelAnchor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.tfw")

	tr := GeoTransform{A: 2, B: 0, C: 100, D: 0, E: -2, F: 500}
	if err := writeWorldFile(path, tr); err != nil {
		t.Fatalf("writeWorldFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading world file: %v", err)
	}
	lines := strings.Fields(string(data))
	if len(lines) != 6 {
		t.Fatalf("world file has %d values, want 6", len(lines))
	}
	// Line order is A D B E centerX centerY.
	if !strings.HasPrefix(lines[4], "101.") && lines[4] != "101" {
		t.Errorf("centerX line = %q, want 101 (100 + half of the 2-unit pixel)", lines[4])
	}
	if !strings.HasPrefix(lines[5], "499.") && lines[5] != "499" {
		t.Errorf("centerY line = %q, want 499", lines[5])
	}
}

func TestReadWorldFile_Malformed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"not numeric", "2\n0\n0\n-2\nabc\n499\n"},
		{"too few lines", "2\n0\n0\n"},
		{"too many lines", "1\n2\n3\n4\n5\n6\n7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".tfw")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := readWorldFile(path); err == nil {
				t.Error("readWorldFile should fail")
			}
		})
	}
}

func TestReadSidecars_GenericWldFallback(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestPNG(t, dir, "map.png", 4, 4)

	tr := GeoTransform{A: 1, B: 0, C: 10, D: 0, E: -1, F: 20}
	wldPath := filepath.Join(dir, "map.wld")
	if err := writeWorldFile(wldPath, tr); err != nil {
		t.Fatal(err)
	}

	_, transform, err := readSidecars(imagePath)
	if err != nil {
		t.Fatalf("readSidecars failed: %v", err)
	}
	if transform == nil {
		t.Fatal("transform not found via .wld fallback")
	}
	if math.Abs(transform.C-10) > 1e-9 {
		t.Errorf("transform.C = %g, want 10", transform.C)
	}
}

func TestReadSidecars_MalformedCRSIsError(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestPNG(t, dir, "map.png", 4, 4)

	if err := os.WriteFile(CRSFilePath(imagePath), []byte("not a crs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := readSidecars(imagePath); err == nil {
		t.Error("malformed .prj sidecar should be an error, not silently ignored")
	}
}

func TestCRSFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.prj")

	crs := CRS{Authority: "EPSG", Code: 32633}
	if err := writeCRSFile(path, crs); err != nil {
		t.Fatalf("writeCRSFile failed: %v", err)
	}
	got, err := readCRSFile(path)
	if err != nil {
		t.Fatalf("readCRSFile failed: %v", err)
	}
	if got != crs {
		t.Errorf("got %v, want %v", got, crs)
	}
}
