// Package metrics collects build metrics with the Prometheus client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

// Collector implements ports.Metrics on a private registry.
type Collector struct {
	registry      *prometheus.Registry
	artifacts     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	stages        *prometheus.CounterVec
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		artifacts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcsmith_artifacts_total",
				Help: "Number of artifacts handled per stage and outcome.",
			},
			[]string{"stage", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcsmith_stage_duration_seconds",
				Help:    "Time taken to run a build stage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcsmith_stages_total",
				Help: "Number of stage runs by final status.",
			},
			[]string{"stage", "status"},
		),
	}
	c.registry.MustRegister(c.artifacts, c.stageDuration, c.stages)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveArtifact counts one item outcome in a stage.
func (c *Collector) ObserveArtifact(stage domain.StageName, outcome domain.ItemOutcome) {
	c.artifacts.WithLabelValues(string(stage), string(outcome)).Inc()
}

// ObserveStage records the stage status and, unless skipped, its duration.
func (c *Collector) ObserveStage(stage domain.StageName, status domain.VertexStatus, d time.Duration) {
	c.stages.WithLabelValues(string(stage), string(status)).Inc()
	if status == domain.VertexStatusSkipped {
		return
	}
	c.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

// WriteTextfile writes the metrics for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}
