package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDescribe_SolidImage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "map.png", 10, 10)

	info, err := Describe(path)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	if info.Profile.Width != 10 || info.Profile.Height != 10 {
		t.Errorf("profile dimensions: got %dx%d", info.Profile.Width, info.Profile.Height)
	}
	if len(info.Channels) != 3 {
		t.Fatalf("channel count: got %d, want 3", len(info.Channels))
	}

	// Solid color: each channel's min, max, and mean coincide.
	red := info.Channels[0]
	if red.Channel != "red" {
		t.Errorf("first channel: got %q, want red", red.Channel)
	}
	if red.Min != 200 || red.Max != 200 {
		t.Errorf("red range: got [%d, %d], want [200, 200]", red.Min, red.Max)
	}
	if red.Mean < 199.5 || red.Mean > 200.5 {
		t.Errorf("red mean: got %g, want 200", red.Mean)
	}

	// A solid image trivially has a uniform border.
	if info.NoDataColor == "" {
		t.Error("solid image should report a border color")
	}
}

func TestDescribe_NonUniformBorder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.png")

	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			// Strong gradient: border pixels differ widely.
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 25), G: uint8(y * 25), B: 0, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	info, err := Describe(path)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if info.NoDataColor != "" {
		t.Errorf("gradient border should not report a nodata color, got %q", info.NoDataColor)
	}
}

func TestDescribe_Grayscale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gray.png")

	img := image.NewGray(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.SetGray(x, y, color.Gray{Y: 77})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	info, err := Describe(path)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if info.Profile.Bands != 1 {
		t.Errorf("bands: got %d, want 1", info.Profile.Bands)
	}
	if len(info.Channels) != 1 || info.Channels[0].Channel != "gray" {
		t.Fatalf("grayscale should report a single gray channel, got %+v", info.Channels)
	}
	if info.Channels[0].Min != 77 || info.Channels[0].Max != 77 {
		t.Errorf("gray range: got [%d, %d], want [77, 77]", info.Channels[0].Min, info.Channels[0].Max)
	}
}
