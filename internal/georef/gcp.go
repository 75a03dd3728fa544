package georef

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/mapforge/mapproc/internal/raster"
)

// degenerateEigenvalueRatio bounds how flat the pixel point cloud may be
// before a fit is refused. The smaller eigenvalue of the coordinate
// covariance is compared against this fraction of the larger one; exactly
// collinear points give zero.
const degenerateEigenvalueRatio = 1e-9

var (
	// ErrInsufficientPoints is returned when fewer than three control
	// points are supplied. Three non-collinear points exactly determine an
	// affine transform; fewer leave it underdetermined.
	ErrInsufficientPoints = errors.New("at least 3 control points are required")

	// ErrDegenerateGeometry is returned when the pixel coordinates of a
	// control point set are collinear, which makes the affine fit
	// singular.
	ErrDegenerateGeometry = errors.New("control point pixel coordinates are collinear")
)

// RecordError reports a malformed control point record by its position in
// the file (0-based, comments and blank lines not counted).
type RecordError struct {
	Record int
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("control point record %d: %v", e.Record, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ControlPoint ties one pixel location to one ground location.
type ControlPoint struct {
	Col float64 `json:"col"`
	Row float64 `json:"row"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// ControlPointSet is a validated, ordered set of control points, with the
// ground CRS when the source file declared one.
type ControlPointSet struct {
	Points []ControlPoint
	CRS    *raster.CRS
}

// ParseControlPoints reads control points from a delimited record stream.
// Each record is "col,row,x,y" with an optional fifth field naming the
// ground CRS (an EPSG code or "EPSG:nnnn"), applied uniformly to the whole
// set. Lines starting with '#' and blank lines are ignored.
//
// Parsing is pure: it validates and returns, with no side effects. The set
// is rejected with ErrInsufficientPoints or ErrDegenerateGeometry when it
// cannot support an affine fit.
func ParseControlPoints(r io.Reader) (*ControlPointSet, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	set := &ControlPointSet{}
	for index := 0; ; index++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RecordError{Record: index, Err: err}
		}

		point, crs, err := parseRecord(record)
		if err != nil {
			return nil, &RecordError{Record: index, Err: err}
		}

		if crs != nil {
			if set.CRS != nil && *set.CRS != *crs {
				return nil, &RecordError{
					Record: index,
					Err:    fmt.Errorf("CRS %s conflicts with %s declared earlier; one CRS applies to the whole set", crs, set.CRS),
				}
			}
			set.CRS = crs
		}
		set.Points = append(set.Points, point)
	}

	if err := set.validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// LoadControlPoints reads and parses a control point file.
func LoadControlPoints(path string) (*ControlPointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("control points file: %w", err)
	}
	defer f.Close()

	set, err := ParseControlPoints(f)
	if err != nil {
		return nil, fmt.Errorf("control points file %s: %w", path, err)
	}
	return set, nil
}

func parseRecord(record []string) (ControlPoint, *raster.CRS, error) {
	if len(record) < 4 {
		return ControlPoint{}, nil, fmt.Errorf("expected 4 numeric fields (col,row,x,y), found %d", len(record))
	}
	if len(record) > 5 {
		return ControlPoint{}, nil, fmt.Errorf("too many fields: %d", len(record))
	}

	values := make([]float64, 4)
	names := []string{"col", "row", "x", "y"}
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return ControlPoint{}, nil, fmt.Errorf("field %s: %q is not numeric", names[i], record[i])
		}
		values[i] = v
	}
	point := ControlPoint{Col: values[0], Row: values[1], X: values[2], Y: values[3]}

	if len(record) == 5 && strings.TrimSpace(record[4]) != "" {
		crs, err := raster.ParseCRS(record[4])
		if err != nil {
			return ControlPoint{}, nil, err
		}
		return point, &crs, nil
	}
	return point, nil, nil
}

// validate enforces the minimum count and rejects collinear pixel
// geometry via the eigenvalues of the pixel coordinate covariance: rank
// below 2 means every point sits on one line and the fit matrix would be
// singular.
func (s *ControlPointSet) validate() error {
	if len(s.Points) < 3 {
		return ErrInsufficientPoints
	}

	var meanCol, meanRow float64
	for _, p := range s.Points {
		meanCol += p.Col
		meanRow += p.Row
	}
	n := float64(len(s.Points))
	meanCol /= n
	meanRow /= n

	var cc, cr, rr float64
	for _, p := range s.Points {
		dc, dr := p.Col-meanCol, p.Row-meanRow
		cc += dc * dc
		cr += dc * dr
		rr += dr * dr
	}

	cov := mat.NewSymDense(2, []float64{cc, cr, cr, rr})
	var eig mat.EigenSym
	if !eig.Factorize(cov, false) {
		return ErrDegenerateGeometry
	}
	values := eig.Values(nil) // ascending
	if values[1] <= 0 || values[0] <= degenerateEigenvalueRatio*values[1] {
		return ErrDegenerateGeometry
	}
	return nil
}
