package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mapforge/mapproc/internal/raster"
)

// Job is the YAML form of a pipeline configuration, for runs driven by a
// file instead of flags:
//
//	input: scans/quad_ne.png
//	output_dir: out
//	operations: [convert, georeference]
//	gcp_file: scans/quad_ne.gcp
//	format: tiff
type Job struct {
	Input      string   `yaml:"input"`
	OutputDir  string   `yaml:"output_dir"`
	Operations []string `yaml:"operations"`
	GCPFile    string   `yaml:"gcp_file"`
	Format     string   `yaml:"format"`
}

// LoadJob reads and parses a job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("job file: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	return &job, nil
}

// Config resolves the job into a pipeline configuration. Operation and
// format names are validated here so a bad job file fails before any step
// runs.
func (j *Job) Config() (Config, error) {
	ops, err := ParseOps(j.Operations)
	if err != nil {
		return Config{}, err
	}

	format := raster.FormatUnknown
	if j.Format != "" {
		format, err = raster.ParseFormat(j.Format)
		if err != nil {
			return Config{}, err
		}
	}

	return Config{
		InputPath:    j.Input,
		OutputDir:    j.OutputDir,
		Operations:   ops,
		GCPPath:      j.GCPFile,
		TargetFormat: format,
	}, nil
}
