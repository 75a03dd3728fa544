package raster

import (
	"fmt"
	"strconv"
	"strings"
)

// CRS identifies a coordinate reference system by authority code, for
// example EPSG:4326. The code is carried opaquely: no registry lookup is
// performed, and validity means only that the identifier is well formed.
type CRS struct {
	Authority string `json:"authority"`
	Code      int    `json:"code"`
}

// ParseCRS parses a CRS identifier of the form "EPSG:4326". A bare numeric
// code is accepted and assumed to be an EPSG code, matching how control
// point files usually spell it.
func ParseCRS(s string) (CRS, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CRS{}, fmt.Errorf("empty CRS identifier")
	}

	authority := "EPSG"
	codeText := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		authority = strings.ToUpper(strings.TrimSpace(s[:i]))
		codeText = strings.TrimSpace(s[i+1:])
		if authority == "" {
			return CRS{}, fmt.Errorf("invalid CRS identifier %q: empty authority", s)
		}
	}

	code, err := strconv.Atoi(codeText)
	if err != nil || code <= 0 {
		return CRS{}, fmt.Errorf("invalid CRS identifier %q: code must be a positive integer", s)
	}

	return CRS{Authority: authority, Code: code}, nil
}

// Valid reports whether the descriptor carries a usable identifier.
func (c CRS) Valid() bool {
	return c.Authority != "" && c.Code > 0
}

// String returns the "AUTHORITY:CODE" form.
func (c CRS) String() string {
	return fmt.Sprintf("%s:%d", c.Authority, c.Code)
}
