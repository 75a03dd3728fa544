package raster

import (
	"fmt"
	"image"
)

// PixelType is the per-channel sample depth of a raster.
type PixelType int

const (
	PixelUint8 PixelType = iota
	PixelUint16
)

// String returns "uint8" or "uint16".
func (p PixelType) String() string {
	if p == PixelUint16 {
		return "uint16"
	}
	return "uint8"
}

// Profile describes a raster's shape and spatial metadata, mirroring the
// dataset profile a GIS raster library reports: dimensions, band layout,
// sample type, container format, and (when georeferenced) the coordinate
// reference system and pixel-to-ground transform.
//
// CRS and Transform are nil for plain imagery. A conversion must carry
// them through unchanged and must never invent them.
type Profile struct {
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Bands     int           `json:"bands"`
	PixelType PixelType     `json:"pixel_type"`
	Format    Format        `json:"format"`
	CRS       *CRS          `json:"crs,omitempty"`
	Transform *GeoTransform `json:"transform,omitempty"`
}

// HasReference reports whether the profile carries a CRS. The transform is
// deliberately not consulted: a raster tagged with a CRS but no transform
// still identifies its reference system.
func (p Profile) HasReference() bool {
	return p.CRS != nil
}

// Validate checks the structural invariants of a profile.
func (p Profile) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid raster dimensions %dx%d", p.Width, p.Height)
	}
	if p.Bands < 1 {
		return fmt.Errorf("invalid band count %d", p.Bands)
	}
	return nil
}

type opaquer interface {
	Opaque() bool
}

// profileFor derives a profile from a decoded image. Band count follows
// the color model; images whose alpha channel is fully opaque count as
// three-band, since the alpha carries no information worth a band.
func profileFor(img image.Image, format Format) Profile {
	bounds := img.Bounds()
	profile := Profile{
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Bands:     3,
		PixelType: PixelUint8,
		Format:    format,
	}

	hasAlpha := false
	switch img.(type) {
	case *image.Gray:
		profile.Bands = 1
	case *image.Gray16:
		profile.Bands = 1
		profile.PixelType = PixelUint16
	case *image.YCbCr:
		profile.Bands = 3
	case *image.CMYK:
		profile.Bands = 4
	case *image.RGBA64, *image.NRGBA64:
		profile.Bands = 4
		profile.PixelType = PixelUint16
		hasAlpha = true
	default:
		// RGBA, NRGBA, Paletted, and anything exotic.
		profile.Bands = 4
		hasAlpha = true
	}

	if hasAlpha {
		if o, ok := img.(opaquer); ok && o.Opaque() {
			profile.Bands = 3
		}
	}

	return profile
}
