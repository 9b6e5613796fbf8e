package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

const namespace = "earlybird"

// Recorder counts match outcomes per ingestion source.
type Recorder struct {
	results    *prometheus.CounterVec
	flagged    *prometheus.CounterVec
	confidence *prometheus.HistogramVec
}

// NewRecorder creates the match collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_results_total",
			Help:      "Catalog match attempts by source and outcome (matched or unmatched).",
		}, []string{"source", "outcome"}),
		flagged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_flagged_total",
			Help:      "Catalog matches flagged for human review.",
		}, []string{"source"}),
		confidence: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_confidence",
			Help:      "Distribution of match confidence scores.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 0.99},
		}, []string{"source"}),
	}

	for _, c := range []prometheus.Collector{r.results, r.flagged, r.confidence} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveMatch records one match result.
func (r *Recorder) ObserveMatch(source domain.Source, result domain.MatchResult) {
	outcome := "unmatched"
	if result.Matched() {
		outcome = "matched"
	}
	r.results.WithLabelValues(string(source), outcome).Inc()
	if result.Flagged {
		r.flagged.WithLabelValues(string(source)).Inc()
	}
	r.confidence.WithLabelValues(string(source)).Observe(result.Confidence)
}
