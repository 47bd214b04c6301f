package bulk

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInput  = "regulation.json"
	DefaultOutput = "bulk.json"
	DefaultIndex  = "t_regulation"
)

// Job describes one conversion. Zero fields fall back to the defaults.
type Job struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Index  string `yaml:"index"`
}

func DefaultJob() Job {
	return Job{
		Input:  DefaultInput,
		Output: DefaultOutput,
		Index:  DefaultIndex,
	}
}

// LoadJob reads a YAML job file over the defaults.
func LoadJob(path string) (Job, error) {
	job := DefaultJob()

	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("read job file: %w", err)
	}

	var fromFile Job
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return job, fmt.Errorf("parse job file %s: %w", path, err)
	}

	job.merge(fromFile)
	return job, nil
}

func (j *Job) merge(o Job) {
	if o.Input != "" {
		j.Input = o.Input
	}
	if o.Output != "" {
		j.Output = o.Output
	}
	if o.Index != "" {
		j.Index = o.Index
	}
}

// Run converts the job's input file into its output file. The output is
// replaced only when the whole input converted.
func (j Job) Run() (int, error) {
	in, err := os.Open(j.Input)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(j.Output), "."+filepath.Base(j.Output)+"-*")
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := Convert(in, tmp, j.Index)
	if err == nil {
		err = tmp.Chmod(0o644)
	}
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		return n, err
	}

	if err := os.Rename(tmp.Name(), j.Output); err != nil {
		return n, fmt.Errorf("write output: %w", err)
	}
	return n, nil
}
