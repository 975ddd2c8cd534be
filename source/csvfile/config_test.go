package csvfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Path != DefaultPath || cfg.Comma != "," || cfg.NoHeader {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "csv_source.yml")
	body := []byte("schema_version: v1\npath: songs.tsv\ncomma: \"\\t\"\nstrict_quotes: true\n")
	if err := os.WriteFile(p, body, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"PATH", "override.tsv")

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Path != "override.tsv" {
		t.Fatalf("env should win, got path %q", cfg.Path)
	}
	if cfg.Comma != "\t" || !cfg.StrictQuotes {
		t.Fatalf("file values lost: %+v", cfg)
	}
}

func TestLoadConfig_RejectsBadSchemaAndComma(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"schema.yml": "schema_version: v9\n",
		"comma.yml":  "comma: \"::\"\n",
	} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(p); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
