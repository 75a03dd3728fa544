package georef

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mapforge/mapproc/internal/raster"
)

// ErrSingularFit is returned when the least-squares system is not
// solvable: control points that slipped past the set-level collinearity
// check but are numerically degenerate.
var ErrSingularFit = errors.New("control points produce a singular system")

// Fit is a fitted pixel-to-ground transform together with its quality
// evidence. Residuals[i] is the Euclidean ground-unit distance between
// control point i's asserted ground position and the position the
// transform predicts for its pixel.
//
// High residuals are reported, never rejected: what counts as an
// acceptable georeference is the caller's policy, not the estimator's.
type Fit struct {
	Transform raster.GeoTransform
	Residuals []float64
	RMSE      float64
}

// FitAffine fits the six-coefficient affine transform mapping the set's
// pixel coordinates to its ground coordinates.
//
// Each control point contributes one equation to the x system and one to
// the y system, stacked as a 2n by 6 block-diagonal matrix. With exactly
// three points the system is square and solved directly; with more it is
// solved by QR least squares.
func FitAffine(set *ControlPointSet) (*Fit, error) {
	if set == nil || len(set.Points) < 3 {
		return nil, ErrInsufficientPoints
	}
	n := len(set.Points)

	a := mat.NewDense(2*n, 6, nil)
	b := mat.NewVecDense(2*n, nil)
	for i, p := range set.Points {
		// x = A*col + B*row + C
		a.Set(2*i, 0, p.Col)
		a.Set(2*i, 1, p.Row)
		a.Set(2*i, 2, 1)
		b.SetVec(2*i, p.X)

		// y = D*col + E*row + F
		a.Set(2*i+1, 3, p.Col)
		a.Set(2*i+1, 4, p.Row)
		a.Set(2*i+1, 5, 1)
		b.SetVec(2*i+1, p.Y)
	}

	var params mat.VecDense
	if n == 3 {
		if err := params.SolveVec(a, b); err != nil {
			return nil, errors.Join(ErrSingularFit, err)
		}
	} else {
		var qr mat.QR
		qr.Factorize(a)
		if err := qr.SolveVecTo(&params, false, b); err != nil {
			return nil, errors.Join(ErrSingularFit, err)
		}
	}

	transform := raster.GeoTransform{
		A: params.AtVec(0),
		B: params.AtVec(1),
		C: params.AtVec(2),
		D: params.AtVec(3),
		E: params.AtVec(4),
		F: params.AtVec(5),
	}

	fit := &Fit{Transform: transform, Residuals: make([]float64, n)}
	var sumSquares float64
	for i, p := range set.Points {
		x, y := transform.Apply(p.Col, p.Row)
		residual := math.Hypot(x-p.X, y-p.Y)
		fit.Residuals[i] = residual
		sumSquares += residual * residual
	}
	fit.RMSE = math.Sqrt(sumSquares / float64(n))

	if !transformFinite(transform) {
		return nil, ErrSingularFit
	}
	return fit, nil
}

func transformFinite(t raster.GeoTransform) bool {
	for _, c := range []float64{t.A, t.B, t.C, t.D, t.E, t.F} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
