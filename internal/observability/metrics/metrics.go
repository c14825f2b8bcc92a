package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcome labels.
const (
	OutcomeAccepted   = "accepted"
	OutcomeValidation = "validation_rejected"
	OutcomeRisk       = "risk_rejected"
	OutcomeDuplicate  = "duplicate_rejected"
	OutcomeUpstream   = "upstream_failure"
)

// LeadMetrics exposes counters/histograms for the submission pipeline and the
// content generator.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	pipelineLatency  *prometheus.HistogramVec
	generationTotal  *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgen",
			Subsystem: "submissions",
			Name:      "total",
			Help:      "Total lead submissions by outcome",
		}, []string{"outcome"}),
		pipelineLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadgen",
			Subsystem: "submissions",
			Name:      "pipeline_latency_seconds",
			Help:      "Latency of the full submission pipeline",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		generationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgen",
			Subsystem: "content",
			Name:      "generation_total",
			Help:      "Total content generation calls by mode and status",
		}, []string{"mode", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.pipelineLatency, m.generationTotal)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	m.pipelineLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *LeadMetrics) ObserveGeneration(mode, status string) {
	if m == nil {
		return
	}
	m.generationTotal.WithLabelValues(mode, status).Inc()
}
