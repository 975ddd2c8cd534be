package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadPipelineSpec_ResolvesRelativeSourceConfigAndSchema(t *testing.T) {
	dir := t.TempDir()
	pipe := []byte(`schema_version: v1
source:
  kind: csv
  config: csv_source.yml
transform:
  escape_link: true
enrichers:
  - name: traditional
    type: grpc
    address: localhost:50052
    timeout_ms: 500
    retry_policy: { attempts: 2, backoff_ms: 10 }
sinks: [json, stdout]
sink_configs:
  json: { path: out/lyrics.json }
  stdout: { print_counter: true }
log: { level: debug }
`)
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}

	cfg, abs, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml"))
	if err != nil {
		t.Fatalf("LoadPipelineSpec: %v", err)
	}
	if cfg.SchemaVersion != SupportedSchema {
		t.Fatalf("want schema %s, got %s", SupportedSchema, cfg.SchemaVersion)
	}
	if abs != filepath.Join(dir, "csv_source.yml") {
		t.Fatalf("want absolute csv config path, got %q", abs)
	}
	if !cfg.Transform.EscapeLink || cfg.SinkConfigs.JSON.Path != "out/lyrics.json" || !cfg.SinkConfigs.Stdout.PrintCounter {
		t.Fatalf("sections not decoded: %+v", cfg)
	}
	if len(cfg.Enrichers) != 1 || cfg.Enrichers[0].RetryPolicy.Attempts != 2 {
		t.Fatalf("enrichers not decoded: %+v", cfg.Enrichers)
	}
	if cfg.Log == nil || cfg.Log.Level != "debug" {
		t.Fatalf("log section not decoded: %+v", cfg.Log)
	}
}

func TestLoadPipelineSpec_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	pipe := []byte(`schema_version: v999
source: { kind: csv }
sinks: [json]
`)
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}
	_, _, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml"))
	if err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}

func TestLoadPipelineSpec_MissingFileIsDefault(t *testing.T) {
	cfg, abs, err := LoadPipelineSpec(filepath.Join(t.TempDir(), "pipeline.yml"))
	if err != nil {
		t.Fatalf("LoadPipelineSpec: %v", err)
	}
	if abs != "" || !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("want default pipeline, got %+v (%q)", cfg, abs)
	}
}

func TestLoadPipelineSpec_FillsSourceAndSinks(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), []byte("schema_version: v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source.Kind != "csv" || !reflect.DeepEqual(cfg.Sinks, []string{"json"}) {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
