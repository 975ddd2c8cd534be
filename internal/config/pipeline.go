package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lyricdex/internal/spec"
)

const (
	SupportedSchema = "v1"
	DefaultPipeline = "pipeline.yml"
)

// Default is the pipeline used when no pipeline file exists: the CSV
// catalogue at its fixed path into the JSON document at its fixed path.
func Default() spec.File {
	var cfg spec.File
	cfg.SchemaVersion = SupportedSchema
	cfg.Source.Kind = "csv"
	cfg.Sinks = []string{"json"}
	return cfg
}

// LoadPipelineSpec parses a pipeline YAML, validates schema_version, and
// returns the parsed spec and an absolute path to the source config (if set).
// A missing file yields Default().
func LoadPipelineSpec(path string) (spec.File, string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	if err != nil {
		return spec.File{}, "", err
	}
	var cfg spec.File
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", fmt.Errorf("%s: %w", path, err)
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", fmt.Errorf("pipeline schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = "csv"
	}
	if len(cfg.Sinks) == 0 {
		cfg.Sinks = []string{"json"}
	}
	confPath := cfg.Source.Config
	if confPath != "" && !filepath.IsAbs(confPath) {
		confPath = filepath.Join(filepath.Dir(path), confPath)
	}
	return cfg, confPath, nil
}
