package georef

import (
	"github.com/mapforge/mapproc/internal/raster"
)

// Inspection is the result of probing a raster's spatial reference.
//
// HasReference mirrors the narrow "has a CRS" check: a raster whose CRS is
// present counts as referenced even if it carries no transform. The
// transform is reported so callers can notice that case, but its absence
// is not judged here.
type Inspection struct {
	Path         string               `json:"path"`
	HasReference bool                 `json:"has_reference"`
	CRS          *raster.CRS          `json:"crs,omitempty"`
	Transform    *raster.GeoTransform `json:"transform,omitempty"`
	Profile      raster.Profile       `json:"profile"`
}

// Inspect opens the raster at path and reports whether it carries a
// usable coordinate reference system. An unreadable or undecodable file
// surfaces as the raster layer's *raster.ReadError rather than a false
// result — "not referenced" and "not readable" are different answers.
func Inspect(path string) (*Inspection, error) {
	r, err := raster.Open(path)
	if err != nil {
		return nil, err
	}

	return &Inspection{
		Path:         path,
		HasReference: r.Profile.HasReference(),
		CRS:          r.Profile.CRS,
		Transform:    r.Profile.Transform,
		Profile:      r.Profile,
	}, nil
}
