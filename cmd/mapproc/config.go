package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/mapforge/mapproc/internal/pipeline"
	"github.com/mapforge/mapproc/internal/raster"
)

// errNothingToDo is the usage error for an invocation that names neither
// operations nor the check flag.
var errNothingToDo = errors.New("no operation specified: use --operations, --check_georef, or --job")

// options is the raw flag surface before validation.
type options struct {
	inputFile   string
	outputDir   string
	operations  []string
	gcpFile     string
	checkGeoref bool
	format      string
	jobFile     string
	verbose     bool
	showVersion bool
}

// newFlagSet declares the CLI flags on a fresh flag set writing usage to w.
func newFlagSet(w io.Writer) (*pflag.FlagSet, *options) {
	opts := &options{}
	fs := pflag.NewFlagSet("mapproc", pflag.ContinueOnError)
	fs.SetOutput(w)
	fs.SortFlags = false

	fs.StringVarP(&opts.inputFile, "input_file", "i", "", "path to the input map file")
	fs.StringVarP(&opts.outputDir, "output_dir", "o", "", "directory for processed output files")
	fs.StringSliceVar(&opts.operations, "operations", nil, "operations to perform, in order (convert, georeference, check_georef)")
	fs.StringVarP(&opts.gcpFile, "gcp_file", "g", "", "ground control points file (col,row,x,y[,epsg] records)")
	fs.BoolVar(&opts.checkGeoref, "check_georef", false, "report whether the input map is georeferenced")
	fs.StringVarP(&opts.format, "format", "f", "", "target format for convert operations (default tiff)")
	fs.StringVarP(&opts.jobFile, "job", "j", "", "YAML job file describing the run (overrides the flags above)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVar(&opts.showVersion, "version", false, "print version information")

	return fs, opts
}

// buildConfig resolves flags (or the job file, which wins when given)
// into a validated pipeline configuration. The returned config has an
// empty operation list when only --check_georef was requested.
func buildConfig(opts *options) (pipeline.Config, error) {
	if opts.jobFile != "" {
		job, err := pipeline.LoadJob(opts.jobFile)
		if err != nil {
			return pipeline.Config{}, err
		}
		cfg, err := job.Config()
		if err != nil {
			return pipeline.Config{}, err
		}
		if cfg.InputPath == "" {
			cfg.InputPath = opts.inputFile
		}
		return cfg, nil
	}

	if opts.inputFile == "" {
		return pipeline.Config{}, errors.New("--input_file is required")
	}
	if len(opts.operations) == 0 && !opts.checkGeoref {
		return pipeline.Config{}, errNothingToDo
	}

	ops, err := pipeline.ParseOps(opts.operations)
	if err != nil {
		return pipeline.Config{}, err
	}

	format := raster.FormatUnknown
	if opts.format != "" {
		format, err = raster.ParseFormat(opts.format)
		if err != nil {
			return pipeline.Config{}, fmt.Errorf("--format: %w", err)
		}
	}

	return pipeline.Config{
		InputPath:    opts.inputFile,
		OutputDir:    opts.outputDir,
		Operations:   ops,
		GCPPath:      opts.gcpFile,
		TargetFormat: format,
	}, nil
}
