package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mapforge/mapproc/internal/georef"
	"github.com/mapforge/mapproc/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Exit codes: 0 all attempted steps succeeded, 1 at least one step
// failed, 2 configuration or usage error (reported before any step runs).
const (
	exitOK    = 0
	exitSteps = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs, opts := newFlagSet(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if opts.showVersion {
		fmt.Printf("mapproc %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return exitOK
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := buildConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapproc: %v\n", err)
		if errors.Is(err, errNothingToDo) {
			fmt.Fprintf(os.Stderr, "\nUsage of mapproc:\n%s", fs.FlagUsages())
		}
		return exitUsage
	}
	cfg.Logger = logger

	// The dedicated check flag probes the original input before any
	// operations run (and is the whole job when none are configured).
	if opts.checkGeoref {
		if err := checkGeoreference(cfg.InputPath); err != nil {
			fmt.Fprintf(os.Stderr, "mapproc: %v\n", err)
			return exitSteps
		}
		if len(cfg.Operations) == 0 {
			return exitOK
		}
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapproc: %v\n", err)
		return exitUsage
	}

	summary, err := p.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapproc: %v\n", err)
		return exitSteps
	}
	if summary.Failed() {
		return exitSteps
	}
	return exitOK
}

// checkGeoreference inspects a raster and prints the verdict.
func checkGeoreference(path string) error {
	fmt.Printf("Checking georeferencing for input file: %s\n", path)
	inspection, err := georef.Inspect(path)
	if err != nil {
		return err
	}
	if inspection.HasReference {
		fmt.Printf("map %q is georeferenced: %s\n", path, inspection.CRS)
		if inspection.Transform == nil {
			fmt.Println("  (CRS present but no pixel-to-ground transform)")
		}
	} else {
		fmt.Printf("map %q is not georeferenced (no CRS information found)\n", path)
	}
	return nil
}
