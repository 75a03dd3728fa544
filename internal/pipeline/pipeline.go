package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mapforge/mapproc/internal/georef"
	"github.com/mapforge/mapproc/internal/raster"
)

var (
	// ErrNoOperations is returned when a pipeline is configured with an
	// empty operation list.
	ErrNoOperations = errors.New("no operations configured")

	// ErrMissingOutputDir is returned when an artifact-producing
	// operation is configured without an output directory.
	ErrMissingOutputDir = errors.New("an output directory is required for convert and georeference operations")
)

// Config describes a pipeline run.
type Config struct {
	// InputPath is the original input raster. Required; must exist.
	InputPath string

	// OutputDir receives every artifact. Required when any operation
	// writes one.
	OutputDir string

	// Operations run in order against the advancing current input.
	Operations []Op

	// GCPPath is the control points file for georeference operations.
	// When empty, georeference steps are skipped with a reported reason.
	GCPPath string

	// TargetFormat is the container format convert operations produce.
	// Zero value means TIFF.
	TargetFormat raster.Format

	// Logger receives structured step logs. Nil means slog.Default().
	Logger *slog.Logger

	// Progress receives the human-readable per-step progress lines.
	// Nil means os.Stdout.
	Progress io.Writer
}

// Pipeline sequences operations over a working raster. Each successful
// artifact-producing step advances the single current-input path, so the
// next step consumes the newest artifact; failed and skipped steps leave
// it untouched and later steps consume the last good one.
type Pipeline struct {
	cfg      Config
	logger   *slog.Logger
	progress io.Writer

	// currentInput is owned exclusively by Run and updated only on a
	// step's success transition.
	currentInput string

	// produced tracks artifact filenames handed out during this run so a
	// repeated operation kind that did not advance the input still gets a
	// distinct name.
	produced map[string]bool
}

// New validates the configuration and returns a pipeline ready to run.
// Configuration problems are fatal here, before any step executes:
// a missing input file, an empty operation list, or an artifact-producing
// operation without an output directory.
func New(cfg Config) (*Pipeline, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("input path is required")
	}
	if _, err := os.Stat(cfg.InputPath); err != nil {
		return nil, fmt.Errorf("input file: %w", err)
	}
	if len(cfg.Operations) == 0 {
		return nil, ErrNoOperations
	}
	for _, op := range cfg.Operations {
		if !op.valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
		}
		if op.writesOutput() && cfg.OutputDir == "" {
			return nil, ErrMissingOutputDir
		}
	}
	if cfg.TargetFormat == raster.FormatUnknown {
		cfg.TargetFormat = raster.FormatTIFF
	}

	p := &Pipeline{
		cfg:      cfg,
		logger:   cfg.Logger,
		progress: cfg.Progress,
		produced: make(map[string]bool),
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.progress == nil {
		p.progress = os.Stdout
	}
	return p, nil
}

// Run executes every configured operation in order. A step's failure or
// skip never aborts the run: operations are independent artifacts, not a
// transactional unit, and each one is attempted against the last good
// input. The returned error is non-nil only for context cancellation;
// per-step outcomes live in the summary.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	p.currentInput = p.cfg.InputPath
	summary := &Summary{Input: p.cfg.InputPath}

	if p.cfg.OutputDir != "" {
		if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
			return summary, fmt.Errorf("output directory: %w", err)
		}
	}

	total := len(p.cfg.Operations)
	for i, op := range p.cfg.Operations {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}
		summary.Results = append(summary.Results, p.runStep(i, total, op))
	}

	summary.Duration = time.Since(start)
	// Completion is announced regardless of per-step outcomes; the
	// summary carries the per-step truth.
	fmt.Fprintf(p.progress, "[pipeline] operations complete (%s)\n", formatDuration(summary.Duration))
	p.logger.Info("operations complete",
		"input", p.cfg.InputPath,
		"steps", total,
		"failed", summary.Failed(),
		"duration", summary.Duration)
	return summary, nil
}

// runStep executes one operation and reports its result. The current
// input advances only on success of an artifact-producing step.
func (p *Pipeline) runStep(index, total int, op Op) StepResult {
	start := time.Now()
	result := StepResult{Index: index, Op: op, Status: StatusRunning, Input: p.currentInput}
	p.logger.Debug("step starting", "step", index+1, "of", total, "op", op.String(), "input", p.currentInput)

	var status StepStatus
	switch op {
	case OpConvert:
		status = p.runConvert(index, &result)
	case OpGeoreference:
		status = p.runGeoreference(index, &result)
	case OpCheckReference:
		status = p.runCheck(&result)
	}

	result.finish(status, start)
	p.report(index, total, result)

	if status == StatusSucceeded && result.Output != "" {
		p.currentInput = result.Output
	}
	return result
}

func (p *Pipeline) report(index, total int, r StepResult) {
	switch r.Status {
	case StatusSucceeded:
		fmt.Fprintf(p.progress, "[pipeline] step %d/%d: %s... ok (%s)\n", index+1, total, r.Op, formatDuration(r.Duration))
		p.logger.Info("step succeeded", "op", r.Op.String(), "input", r.Input, "output", r.Output, "duration", r.Duration)
	case StatusSkipped:
		fmt.Fprintf(p.progress, "[pipeline] step %d/%d: %s... skipped (%s)\n", index+1, total, r.Op, r.Reason)
		p.logger.Warn("step skipped", "op", r.Op.String(), "input", r.Input, "reason", r.Reason)
	case StatusFailed:
		fmt.Fprintf(p.progress, "[pipeline] step %d/%d: %s... failed: %v\n", index+1, total, r.Op, r.Err)
		p.logger.Error("step failed", "op", r.Op.String(), "input", r.Input, "error", r.Err)
	}
}

// runConvert re-encodes the current input into the target format.
func (p *Pipeline) runConvert(index int, result *StepResult) StepStatus {
	output := p.deriveOutput(index, OpConvert, p.cfg.TargetFormat)
	profile, err := raster.Convert(p.currentInput, output, p.cfg.TargetFormat)
	if err != nil {
		result.Err = err
		return StatusFailed
	}
	if !profile.HasReference() {
		p.logger.Warn("source has no CRS; converted output is not georeferenced", "output", output)
	}
	result.Output = output
	return StatusSucceeded
}

// runGeoreference fits a transform from the configured control points and
// writes the current input as TIFF with the fitted reference attached.
//
// Missing control points are a precondition, not an error: the step is
// skipped with a reason and the pipeline continues on the same input. A
// control point file that exists but does not parse, validate, or fit is
// a failure. A reference is never fabricated — no control points, no CRS.
func (p *Pipeline) runGeoreference(index int, result *StepResult) StepStatus {
	if p.cfg.GCPPath == "" {
		result.Reason = "missing control points"
		return StatusSkipped
	}
	if _, err := os.Stat(p.cfg.GCPPath); err != nil {
		result.Reason = fmt.Sprintf("control points file not found: %s", p.cfg.GCPPath)
		return StatusSkipped
	}

	set, err := georef.LoadControlPoints(p.cfg.GCPPath)
	if err != nil {
		result.Err = err
		return StatusFailed
	}
	if set.CRS == nil {
		result.Err = fmt.Errorf("control points file %s declares no ground CRS; add an EPSG code to the records", p.cfg.GCPPath)
		return StatusFailed
	}

	fit, err := georef.FitAffine(set)
	if err != nil {
		result.Err = err
		return StatusFailed
	}
	p.logger.Info("fitted affine transform",
		"points", len(set.Points),
		"crs", set.CRS.String(),
		"rmse", fit.RMSE,
		"transform", fit.Transform.String())

	output := p.deriveOutput(index, OpGeoreference, raster.FormatTIFF)
	if _, err := raster.Convert(p.currentInput, output, raster.FormatTIFF,
		raster.WithGeoreference(*set.CRS, fit.Transform)); err != nil {
		result.Err = err
		return StatusFailed
	}

	result.Output = output
	result.RMSE = fit.RMSE
	return StatusSucceeded
}

// runCheck probes the current input. Read-only; the current input never
// advances past a check.
func (p *Pipeline) runCheck(result *StepResult) StepStatus {
	inspection, err := georef.Inspect(p.currentInput)
	if err != nil {
		result.Err = err
		return StatusFailed
	}

	if inspection.HasReference {
		result.Reason = fmt.Sprintf("georeferenced (%s)", inspection.CRS)
		fmt.Fprintf(p.progress, "map %q is georeferenced: %s\n", p.currentInput, inspection.CRS)
	} else {
		result.Reason = "not georeferenced"
		fmt.Fprintf(p.progress, "map %q is not georeferenced (no CRS information found)\n", p.currentInput)
	}

	if info, err := raster.Describe(p.currentInput); err == nil {
		attrs := []any{
			"size", fmt.Sprintf("%dx%d", info.Profile.Width, info.Profile.Height),
			"bands", info.Profile.Bands,
			"pixel_type", info.Profile.PixelType.String(),
		}
		if info.NoDataColor != "" {
			attrs = append(attrs, "border_color", info.NoDataColor)
		}
		p.logger.Info("raster profile", attrs...)
	}
	return StatusSucceeded
}

// deriveOutput builds the artifact path for a step: the current input's
// stem plus the operation name, in the output directory. Because the stem
// comes from the advancing current input, chained operations accumulate
// suffixes (map_convert_georeference.tif). If a name was already handed
// out this run — an operation repeated without the input advancing — the
// step index disambiguates.
func (p *Pipeline) deriveOutput(index int, op Op, format raster.Format) string {
	base := filepath.Base(p.currentInput)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	name := fmt.Sprintf("%s_%s%s", stem, op, format.Ext())
	if p.produced[name] {
		name = fmt.Sprintf("%s_%s_%d%s", stem, op, index, format.Ext())
	}
	p.produced[name] = true
	return filepath.Join(p.cfg.OutputDir, name)
}

// formatDuration renders a duration with millisecond precision; exact
// nanosecond counts are noise in progress lines.
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
