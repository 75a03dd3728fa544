package pipeline

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned when an operation name does not match
// any supported operation. It is a configuration-time error: unknown
// names are rejected before any step runs, never skipped mid-pipeline.
var ErrUnknownOperation = errors.New("unknown operation")

// Op is a pipeline operation kind. The set is closed: dispatch over ops is
// exhaustive, so adding one is a compile-visible change rather than a
// string-comparison fallthrough.
type Op int

const (
	// OpConvert re-encodes the current raster into the target container
	// format, carrying spatial metadata through unchanged.
	OpConvert Op = iota

	// OpGeoreference fits an affine transform from ground control points
	// and writes the current raster with the fitted reference attached.
	OpGeoreference

	// OpCheckReference probes the current raster for a CRS. It is
	// read-only and never advances the pipeline's current input.
	OpCheckReference
)

// String returns the operation's name as spelled on the command line and
// in output filenames.
func (op Op) String() string {
	switch op {
	case OpConvert:
		return "convert"
	case OpGeoreference:
		return "georeference"
	case OpCheckReference:
		return "check_georef"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// valid reports whether op is one of the declared operation kinds.
// Guards against Op values constructed outside ParseOp.
func (op Op) valid() bool {
	return op >= OpConvert && op <= OpCheckReference
}

// writesOutput reports whether the operation produces an artifact (and
// therefore needs an output directory).
func (op Op) writesOutput() bool {
	return op == OpConvert || op == OpGeoreference
}

// ParseOp parses an operation name.
func ParseOp(name string) (Op, error) {
	switch name {
	case "convert":
		return OpConvert, nil
	case "georeference":
		return OpGeoreference, nil
	case "check_georef":
		return OpCheckReference, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected convert, georeference, or check_georef)", ErrUnknownOperation, name)
	}
}

// ParseOps parses a list of operation names, preserving order.
func ParseOps(names []string) ([]Op, error) {
	ops := make([]Op, 0, len(names))
	for _, name := range names {
		op, err := ParseOp(name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
