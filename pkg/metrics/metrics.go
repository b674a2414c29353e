package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_pipeline_runs_total",
			Help: "Pipeline runs by strategy, trigger and outcome.",
		},
		[]string{"strategy", "trigger", "outcome"},
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orchestrator_pipeline_duration_seconds",
			Help:    "Duration of a pipeline run.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	RejectedRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_rejected_runs_total",
			Help: "Invocations rejected because the strategy was already running.",
		},
		[]string{"strategy", "trigger"},
	)

	TradeDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_trade_decisions_total",
			Help: "Trade decisions requested by strategies.",
		},
		[]string{"strategy", "side"},
	)

	RegisteredStrategies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orchestrator_registered_strategies",
			Help: "Strategies with an active recurring timer.",
		},
	)
)

func init() {
	prometheus.MustRegister(PipelineRuns, PipelineDuration, RejectedRuns, TradeDecisions, RegisteredStrategies)
}
