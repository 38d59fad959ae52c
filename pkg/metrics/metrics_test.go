package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formbuilder/pkg/session"
)

func TestSubmitOutcome(t *testing.T) {
	cases := []struct {
		name    string
		outcome session.Outcome
		err     error
		want    string
	}{
		{name: "stored", outcome: session.Outcome{Valid: true, Submitted: true}, want: OutcomeStored},
		{name: "invalid", outcome: session.Outcome{}, want: OutcomeInvalid},
		{name: "persistence", err: errors.Join(session.ErrPersistence, errors.New("db")), want: OutcomeFailed},
		{name: "in flight", err: session.ErrSubmitInFlight, want: OutcomeRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SubmitOutcome(tc.outcome, tc.err); got != tc.want {
				t.Fatalf("SubmitOutcome() = %q, want %q", got, tc.want)
			}
		})
	}
}

func counterValue(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewWith(reg, reg)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	m.ObserveSubmit(session.Outcome{Submitted: true}, nil)
	m.ObserveSubmit(session.Outcome{}, nil)
	m.ObserveSubmit(session.Outcome{}, nil)
	m.ObserveBlur(true)
	m.ObserveBlur(false)
	m.ObserveVisit()
	m.ObserveRender("vanilla", "fillin", time.Now())

	if got := counterValue(t, reg, "formbuilder_submissions_total", map[string]string{"outcome": OutcomeInvalid}); got != 2 {
		t.Fatalf("invalid submissions = %v, want 2", got)
	}
	if got := counterValue(t, reg, "formbuilder_submissions_total", map[string]string{"outcome": OutcomeStored}); got != 1 {
		t.Fatalf("stored submissions = %v, want 1", got)
	}
	if got := counterValue(t, reg, "formbuilder_visits_total", nil); got != 1 {
		t.Fatalf("visits = %v, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSubmit(session.Outcome{}, nil)
	m.ObserveBlur(true)
	m.ObserveVisit()
	m.ObserveRender("tui", "fillin", time.Now())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveVisit()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "formbuilder_visits_total 1") {
		t.Fatalf("expected visits counter in exposition, got:\n%s", body)
	}
}
