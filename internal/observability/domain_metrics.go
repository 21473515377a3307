package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_analyses_total",
			Help: "Total number of analyzed SQL submissions by outcome.",
		},
		[]string{"outcome"},
	)
	rejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlgate_rejections_total",
			Help: "Total number of submissions rejected as non read-only.",
		},
	)
	stageScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlgate_stage_score",
			Help:    "Per-stage quality scores on the 0-100 scale.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"stage"},
	)
	verifierExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_verifier_executions_total",
			Help: "Total number of live verification executions by result.",
		},
		[]string{"result"},
	)
	verifierLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqlgate_verifier_latency_seconds",
			Help:    "Live verification query latency in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
	translationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlgate_translations_total",
			Help: "Total number of natural language translation requests.",
		},
	)
	translationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlgate_translation_failures_total",
			Help: "Total number of failed natural language translations.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		analysesTotal,
		rejectionsTotal,
		stageScore,
		verifierExecutionsTotal,
		verifierLatencySeconds,
		translationsTotal,
		translationFailuresTotal,
	)
}

// ObserveAnalysis records one full scoring run. Outcome is "valid" or
// "invalid"; rejected mutating statements are counted separately via
// IncrementRejection.
func ObserveAnalysis(valid bool, syntax, semantic, performance, security float64) {
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	analysesTotal.WithLabelValues(outcome).Inc()
	stageScore.WithLabelValues("syntax").Observe(syntax)
	stageScore.WithLabelValues("semantic").Observe(semantic)
	stageScore.WithLabelValues("performance").Observe(performance)
	stageScore.WithLabelValues("security").Observe(security)
}

func IncrementRejection() {
	rejectionsTotal.Inc()
}

func ObserveVerifierExecution(success bool, elapsed time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	verifierExecutionsTotal.WithLabelValues(result).Inc()
	verifierLatencySeconds.Observe(elapsed.Seconds())
}

func ObserveTranslation(err error) {
	translationsTotal.Inc()
	if err != nil {
		translationFailuresTotal.Inc()
	}
}
