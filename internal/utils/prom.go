package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weeklypulse_pipeline_runs_total",
		Help: "Pipeline runs by outcome.",
	}, []string{"outcome"})

	RowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weeklypulse_rows_dropped_total",
		Help: "Raw rows dropped during normalization, by feed.",
	}, []string{"feed"})

	AnomaliesFlagged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weeklypulse_anomalies_flagged_total",
		Help: "Anomaly rule instances flagged, by rule id.",
	}, []string{"rule_id"})
)
