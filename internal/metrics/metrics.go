// Package metrics exposes verification workflow counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"docverify/internal/model"
	"docverify/internal/review"
	"docverify/internal/viewer"
)

// Workflow counts review transitions and artifact load outcomes.
type Workflow struct {
	transitions   *prometheus.CounterVec
	artifactLoads *prometheus.CounterVec
}

var (
	_ review.Recorder     = (*Workflow)(nil)
	_ viewer.LoadRecorder = (*Workflow)(nil)
)

// NewWorkflow registers the workflow collectors on reg.
func NewWorkflow(reg prometheus.Registerer) (*Workflow, error) {
	w := &Workflow{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docverify_transitions_total",
				Help: "Document status transitions by review action.",
			},
			[]string{"action", "from"},
		),
		artifactLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docverify_artifact_loads_total",
				Help: "Finished artifact loads by kind and result (ok, error, stale).",
			},
			[]string{"kind", "result"},
		),
	}

	for _, c := range []prometheus.Collector{w.transitions, w.artifactLoads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Transition implements review.Recorder.
func (w *Workflow) Transition(action string, from model.Status) {
	w.transitions.WithLabelValues(action, string(from)).Inc()
}

// ArtifactLoad implements viewer.LoadRecorder.
func (w *Workflow) ArtifactLoad(kind model.ArtifactKind, result string) {
	w.artifactLoads.WithLabelValues(string(kind), result).Inc()
}
