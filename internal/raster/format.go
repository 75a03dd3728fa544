package raster

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a raster container format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatTIFF
	FormatBMP
)

// String returns the lowercase format name ("png", "tiff", ...).
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Ext returns the primary file extension for the format, including the dot.
// TIFF uses ".tif", the extension GIS tooling conventionally produces.
func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatJPEG:
		return ".jpg"
	case FormatGIF:
		return ".gif"
	case FormatTIFF:
		return ".tif"
	case FormatBMP:
		return ".bmp"
	default:
		return ""
	}
}

// ParseFormat parses a format name. Both "tif" and "tiff" are accepted,
// as are "jpg" and "jpeg". The name is case-insensitive and may carry a
// leading dot, so file extensions parse directly.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff", "gtiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	default:
		return FormatUnknown, fmt.Errorf("unsupported raster format %q", name)
	}
}

// FormatFromPath derives the format from a file path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatUnknown, fmt.Errorf("path %q has no extension to derive a format from", path)
	}
	return ParseFormat(ext)
}

// formatFromDecoderName maps the format name reported by image.Decode to a
// Format. Decoder registration names match the lowercase format names.
func formatFromDecoderName(name string) Format {
	f, err := ParseFormat(name)
	if err != nil {
		return FormatUnknown
	}
	return f
}
