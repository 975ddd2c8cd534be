package spec

import (
	"lyricdex/sink/jsonfile"
	"lyricdex/sink/kafka"
	"lyricdex/sink/stdout"
)

type sinkConfigs struct {
	JSON   jsonfile.Config `yaml:"json"`
	Stdout stdout.Config   `yaml:"stdout"`
	Kafka  kafka.Config    `yaml:"kafka"`
}

type TransformSpec struct {
	LinkTemplate  string `yaml:"link_template"`
	EscapeLink    bool   `yaml:"escape_link"`
	SkipShortRows bool   `yaml:"skip_short_rows"`
}

type EnricherSpec struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`    // "grpc"
	Address     string `yaml:"address"` // e.g. "localhost:50052"
	TimeoutMS   int    `yaml:"timeout_ms"`
	RetryPolicy struct {
		Attempts  int `yaml:"attempts"`
		BackoffMS int `yaml:"backoff_ms"`
	} `yaml:"retry_policy"`
}

type logSection struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type metricsSection struct {
	Textfile string `yaml:"textfile"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Kind   string `yaml:"kind"`
		Config string `yaml:"config"`
	} `yaml:"source"`

	Transform TransformSpec `yaml:"transform"`

	// Ordered list of enrichment plugins applied between transformer and sinks.
	Enrichers []EnricherSpec `yaml:"enrichers"`

	Sinks       []string       `yaml:"sinks"`
	SinkConfigs sinkConfigs    `yaml:"sink_configs"`
	Log         *logSection    `yaml:"log"`
	Metrics     metricsSection `yaml:"metrics"`
}
