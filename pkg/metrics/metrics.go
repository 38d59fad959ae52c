// Package metrics exposes Prometheus collectors for form traffic.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formbuilder/pkg/session"
)

const namespace = "formbuilder"

// Submit outcomes used as the "outcome" label.
const (
	OutcomeStored   = "stored"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	submissions *prometheus.CounterVec
	blurs       *prometheus.CounterVec
	visits      prometheus.Counter
	renders     *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m, err := NewWith(reg, reg)
	if err != nil {
		panic(err)
	}
	return m
}

// NewWith registers the collectors on reg and serves them from gatherer.
func NewWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) (*Metrics, error) {
	m := &Metrics{
		gatherer: gatherer,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submit attempts by outcome.",
		}, []string{"outcome"}),
		blurs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_commits_total",
			Help:      "Single field commits by validity.",
		}, []string{"valid"}),
		visits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_total",
			Help:      "Fill-in page visits.",
		}),
		renders: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Page render latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"renderer", "page"}),
	}
	for _, c := range []prometheus.Collector{m.submissions, m.blurs, m.visits, m.renders} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveSubmit classifies the result of session.Submit.
func (m *Metrics) ObserveSubmit(outcome session.Outcome, err error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(SubmitOutcome(outcome, err)).Inc()
}

// SubmitOutcome maps a Submit result to its label value.
func SubmitOutcome(outcome session.Outcome, err error) string {
	switch {
	case errors.Is(err, session.ErrPersistence):
		return OutcomeFailed
	case err != nil:
		return OutcomeRejected
	case outcome.Submitted:
		return OutcomeStored
	default:
		return OutcomeInvalid
	}
}

// ObserveBlur counts one field commit.
func (m *Metrics) ObserveBlur(valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.blurs.WithLabelValues(label).Inc()
}

// ObserveVisit counts one fill-in page view.
func (m *Metrics) ObserveVisit() {
	if m == nil {
		return
	}
	m.visits.Inc()
}

// ObserveRender records how long a page took to render.
func (m *Metrics) ObserveRender(renderer, page string, started time.Time) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(renderer, page).Observe(time.Since(started).Seconds())
}
