// Package georef establishes and inspects the mapping between a map
// image's pixels and real-world ground coordinates.
//
// It covers three concerns:
//
//   - Inspect probes a raster for a coordinate reference system.
//   - ParseControlPoints / LoadControlPoints read and validate ground
//     control point files ("col,row,x,y[,epsg]" records).
//   - FitAffine fits the six-coefficient affine transform from a control
//     point set by least squares and reports per-point residuals.
//
// The estimator never thresholds residuals itself: it surfaces them and
// leaves the accept/reject decision to the caller. Anything beyond an
// affine model (higher-order polynomials, rubber sheeting) is out of
// scope.
package georef
