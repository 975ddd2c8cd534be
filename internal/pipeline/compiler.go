package pipeline

import (
	"fmt"
	"time"

	"lyricdex/internal/config"
	"lyricdex/internal/enrich"
	"lyricdex/internal/logging"
	"lyricdex/internal/lyric"
	"lyricdex/internal/spec"
	"lyricdex/sink"
	_ "lyricdex/sink/jsonfile"
	_ "lyricdex/sink/kafka"
	_ "lyricdex/sink/stdout"
	"lyricdex/source/csvfile"
)

func Compile(path string) (*Runner, error) {
	cfg, confPath, err := config.LoadPipelineSpec(path)
	if err != nil {
		return nil, err
	}
	return Build(cfg, confPath)
}

// Build wires a runner from an already-parsed pipeline spec. On error,
// anything it opened is released.
func Build(cfg spec.File, sourceConf string) (r *Runner, err error) {
	if cfg.Log != nil {
		logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	}

	xform, err := lyric.NewTransformer(lyric.Options{
		LinkTemplate:  cfg.Transform.LinkTemplate,
		EscapeLink:    cfg.Transform.EscapeLink,
		SkipShortRows: cfg.Transform.SkipShortRows,
	})
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	r = NewRunner(xform)
	r.SetMetricsFile(cfg.Metrics.Textfile)
	defer func() {
		if err != nil {
			r.Abort()
			_ = r.Close()
			r = nil
		}
	}()

	/*──────── source ───────*/
	if cfg.Source.Kind != "csv" {
		return r, fmt.Errorf("unsupported source %q", cfg.Source.Kind)
	}
	cc, err := config.LoadCSVConfig(sourceConf)
	if err != nil {
		return r, err
	}
	src := &csvfile.Driver{}
	if err = src.Configure(cc); err != nil {
		return r, err
	}
	r.SetSource(src.Path(), src)

	/*──────── enrichers ───────*/
	for _, e := range cfg.Enrichers {
		switch e.Type {
		case "grpc":
			if err := checkEnricher(e); err != nil {
				return r, err
			}
			cli, err := enrich.NewGRPCClient(e.Address)
			if err != nil {
				return r, fmt.Errorf("enricher %s: dial %s: %w", e.Name, e.Address, err)
			}
			to := time.Duration(e.TimeoutMS) * time.Millisecond
			backoff := time.Duration(e.RetryPolicy.BackoffMS) * time.Millisecond
			r.AddEnricher(e.Name, cli, to, e.RetryPolicy.Attempts, backoff)
		default:
			return r, fmt.Errorf("unsupported enricher type %q for %s", e.Type, e.Name)
		}
	}

	/*──────── sinks ───────*/
	for _, name := range cfg.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return r, err
		}

		switch name {
		case "json":
			err = sDrv.Configure(cfg.SinkConfigs.JSON)
		case "stdout":
			err = sDrv.Configure(cfg.SinkConfigs.Stdout)
		case "kafka":
			err = sDrv.Configure(cfg.SinkConfigs.Kafka)
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			return r, err
		}
		r.AddSink(name, sDrv)
	}
	return r, nil
}

func checkEnricher(e spec.EnricherSpec) error {
	switch {
	case e.TimeoutMS < 0:
		return fmt.Errorf("enricher %s: timeout_ms must not be negative", e.Name)
	case e.RetryPolicy.Attempts < 0:
		return fmt.Errorf("enricher %s: retry_policy.attempts must not be negative", e.Name)
	case e.RetryPolicy.BackoffMS < 0:
		return fmt.Errorf("enricher %s: retry_policy.backoff_ms must not be negative", e.Name)
	}
	return nil
}
