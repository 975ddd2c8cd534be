package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lyricdex/internal/enrich"
	"lyricdex/internal/logging"
	"lyricdex/internal/lyric"
	"lyricdex/internal/telemetry"
	"lyricdex/sink"
	"lyricdex/source/csvfile"
)

type namedSink struct {
	name string
	sink.Adapter
}

type stage struct {
	name     string
	client   enrich.Client
	timeout  time.Duration
	attempts int // retries after the first call
	backoff  time.Duration
}

// Runner drives one pass: source rows through the transformer and any
// enrichment stages into every sink. Read, then exactly one of Commit or
// Abort.
type Runner struct {
	source     csvfile.Adapter
	sourceName string
	xform      *lyric.Transformer
	stages     []stage
	sinks      []namedSink

	metrics     *telemetry.Metrics
	metricsFile string
	started     time.Time
	done        bool
}

func NewRunner(xform *lyric.Transformer) *Runner {
	r := &Runner{xform: xform, metrics: telemetry.New()}
	xform.OnSkip(func(row lyric.Row, why lyric.SkipReason) {
		r.metrics.RowSkipped(why)
		logging.L().Debug("row skipped", "line", row.Line, "reason", why)
	})
	return r
}

func (r *Runner) SetSource(name string, s csvfile.Adapter) { r.source, r.sourceName = s, name }
func (r *Runner) AddSink(name string, s sink.Adapter)      { r.sinks = append(r.sinks, namedSink{name, s}) }
func (r *Runner) SetMetricsFile(path string)               { r.metricsFile = path }

func (r *Runner) AddEnricher(name string, c enrich.Client, timeout time.Duration, attempts int, backoff time.Duration) {
	attempts = max(attempts, 0)
	r.stages = append(r.stages, stage{name: name, client: c, timeout: timeout, attempts: attempts, backoff: backoff})
}

func (r *Runner) SourceName() string          { return r.sourceName }
func (r *Runner) Emitted() int                { return r.xform.Emitted() }
func (r *Runner) Metrics() *telemetry.Metrics { return r.metrics }

/*──────── record routing ───────*/

func (r *Runner) pushRow(ctx context.Context, row lyric.Row) error {
	r.metrics.RowRead()
	recs, err := r.xform.Apply(row)
	if err != nil {
		return err
	}
	r.metrics.RecordsEmitted(len(recs))
	for _, rec := range recs {
		for _, st := range r.stages {
			if rec, err = r.enrich(ctx, st, rec); err != nil {
				return err
			}
		}
		for _, s := range r.sinks {
			if err := s.Push(rec); err != nil {
				return fmt.Errorf("sink %s: %w", s.name, err)
			}
			r.metrics.SinkRecord(s.name)
		}
	}
	return nil
}

func (r *Runner) enrich(ctx context.Context, st stage, rec lyric.Record) (lyric.Record, error) {
	var lastErr error
	for attempt := 0; attempt <= st.attempts; attempt++ {
		if attempt > 0 && st.backoff > 0 {
			select {
			case <-time.After(st.backoff):
			case <-ctx.Done():
				return rec, ctx.Err()
			}
		}
		cctx, cancel := ctx, context.CancelFunc(func() {})
		if st.timeout > 0 {
			cctx, cancel = context.WithTimeout(ctx, st.timeout)
		}
		out, err := st.client.Enrich(cctx, rec)
		cancel()
		r.metrics.EnrichCall(st.name, err)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
		logging.L().Warn("enrich call failed", "stage", st.name, "id", rec.ID, "attempt", attempt+1, "err", err)
	}
	return rec, fmt.Errorf("enrich %s: record %d: %w", st.name, rec.ID, lastErr)
}

func retryable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return true
	}
	return false
}

/*──────── lifecycle ───────*/

// Read consumes the whole source. Nothing is committed yet.
func (r *Runner) Read(ctx context.Context) error {
	if r.source == nil {
		return errors.New("runner: no source configured")
	}
	if len(r.sinks) == 0 {
		return errors.New("runner: no sinks configured")
	}
	r.started = time.Now()
	return r.source.Run(ctx, func(row lyric.Row) error { return r.pushRow(ctx, row) })
}

// Commit closes every sink, which is where buffering sinks write. It
// returns the destinations of the sinks that report one.
func (r *Runner) Commit() ([]string, error) {
	var (
		dests []string
		errs  []error
	)
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", s.name, err))
			continue
		}
		if d, ok := s.Adapter.(sink.Describer); ok {
			dests = append(dests, d.Destination())
		}
	}
	err := errors.Join(errs...)
	r.finish(err == nil)
	return dests, err
}

// Abort drops buffered output and releases every sink.
func (r *Runner) Abort() {
	for _, s := range r.sinks {
		if d, ok := s.Adapter.(sink.Discarder); ok {
			if err := d.Discard(); err != nil {
				logging.L().Warn("sink discard failed", "sink", s.name, "err", err)
			}
		}
		if err := s.Close(); err != nil {
			logging.L().Warn("sink close failed", "sink", s.name, "err", err)
		}
	}
	r.finish(false)
}

func (r *Runner) finish(ok bool) {
	if r.done {
		return
	}
	r.done = true
	var d time.Duration
	if !r.started.IsZero() {
		d = time.Since(r.started)
	}
	r.metrics.RunFinished(d, ok)
	if r.metricsFile == "" {
		return
	}
	if err := r.metrics.WriteTextfile(r.metricsFile); err != nil {
		logging.L().Warn("metrics not written", "err", err)
	}
}

// Close releases the source and enrichment connections.
func (r *Runner) Close() error {
	var errs []error
	if r.source != nil {
		errs = append(errs, r.source.Close())
	}
	for _, st := range r.stages {
		errs = append(errs, st.client.Close())
	}
	return errors.Join(errs...)
}
