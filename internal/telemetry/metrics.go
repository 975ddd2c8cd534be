// Package telemetry collects per-run counters. A run is short-lived, so the
// registry is written out once at the end instead of being scraped.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"lyricdex/internal/lyric"
)

const namespace = "lyricdex"

type Metrics struct {
	reg *prometheus.Registry

	rowsRead       prometheus.Counter
	rowsSkipped    *prometheus.CounterVec
	recordsEmitted prometheus.Counter
	sinkRecords    *prometheus.CounterVec
	enrichCalls    *prometheus.CounterVec
	runDuration    prometheus.Gauge
	runSuccess     prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		rowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Data rows read from the source.",
		}),
		rowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Rows dropped before producing records, by reason.",
		}, []string{"reason"}),
		recordsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_emitted_total",
			Help:      "Lyric records produced by the transformer.",
		}),
		sinkRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_records_total",
			Help:      "Records accepted by each sink.",
		}, []string{"sink"}),
		enrichCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrich_calls_total",
			Help:      "Enrichment plugin calls, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 if the last run wrote its output, 0 otherwise.",
		}),
	}
	m.reg.MustRegister(m.rowsRead, m.rowsSkipped, m.recordsEmitted, m.sinkRecords,
		m.enrichCalls, m.runDuration, m.runSuccess)
	for _, r := range lyric.SkipReasons {
		m.rowsSkipped.WithLabelValues(string(r))
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) RowRead()                        { m.rowsRead.Inc() }
func (m *Metrics) RowSkipped(why lyric.SkipReason) { m.rowsSkipped.WithLabelValues(string(why)).Inc() }
func (m *Metrics) RecordsEmitted(n int)            { m.recordsEmitted.Add(float64(n)) }
func (m *Metrics) SinkRecord(name string)          { m.sinkRecords.WithLabelValues(name).Inc() }

// Skipped exposes the skip counter for one reason.
func (m *Metrics) Skipped(why lyric.SkipReason) prometheus.Counter {
	return m.rowsSkipped.WithLabelValues(string(why))
}

func (m *Metrics) EnrichCall(stage string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.enrichCalls.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) RunFinished(d time.Duration, ok bool) {
	m.runDuration.Set(d.Seconds())
	if ok {
		m.runSuccess.Set(1)
	} else {
		m.runSuccess.Set(0)
	}
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("metrics textfile: %w", err)
	}
	return nil
}
