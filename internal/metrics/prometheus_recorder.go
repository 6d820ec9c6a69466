package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	stageDuration    *prom.HistogramVec
	deployDuration   prom.Histogram
	stageResults     *prom.CounterVec
	deployOutcome    *prom.CounterVec
	entriesRelocated prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitedeploy",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual deploy stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.deployDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sitedeploy",
			Name:      "deploy_duration_seconds",
			Help:      "Total deploy duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitedeploy",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.deployOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitedeploy",
			Name:      "deploy_outcomes_total",
			Help:      "Deploy outcomes by final status",
		}, []string{"outcome"})
		pr.entriesRelocated = prom.NewCounter(prom.CounterOpts{
			Namespace: "sitedeploy",
			Name:      "entries_relocated_total",
			Help:      "Top-level output entries relocated into the deployment root",
		})
		reg.MustRegister(pr.stageDuration, pr.deployDuration, pr.stageResults, pr.deployOutcome, pr.entriesRelocated)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveDeployDuration(d time.Duration) {
	p.deployDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncDeployOutcome(outcome string) {
	p.deployOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncEntriesRelocated(n int) {
	p.entriesRelocated.Add(float64(n))
}
