package config

import (
	"lyricdex/source/csvfile"
)

// LoadCSVConfig delegates to the CSV source loader while centralizing
// loader entrypoints under internal/config.
func LoadCSVConfig(path string) (csvfile.Config, error) {
	return csvfile.LoadConfig(path)
}
