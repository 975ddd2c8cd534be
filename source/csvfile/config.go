package csvfile

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultPath = "eason_songs_list.csv"
	EnvPrefix   = "LYRICDEX_CSV__"
)

type Config struct {
	Path         string `koanf:"path"`
	Comma        string `koanf:"comma"`         // single character, default ","
	StrictQuotes bool   `koanf:"strict_quotes"` // reject bare " in unquoted fields
	NoHeader     bool   `koanf:"no_header"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// LoadConfig merges YAML (if present) with env-vars
// (prefix `LYRICDEX_CSV__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("csv config %s: %w", path, err)
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("csv schema_version %q not supported (want v1)", sv)
	}

	envKey := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("csv config env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, cfg.validate()
}

func applyDefaults(c *Config) {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Comma == "" {
		c.Comma = ","
	}
}

func (c Config) comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Comma)
	return r
}

func (c Config) validate() error {
	if utf8.RuneCountInString(c.Comma) != 1 {
		return fmt.Errorf("csv comma %q: want a single character", c.Comma)
	}
	switch r := c.comma(); r {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("csv comma %q not allowed", c.Comma)
	}
	return nil
}
