package metrics

import (
	"testing"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

var trajectory = []dynamo.Sample{
	{T: -2e9, A: 0.01},
	{T: -1e9, A: 0.5},
	{T: 0, A: 1.0},
	{T: 1e9, A: 1.4},
	{T: 2e9, A: 1.2},
}

func observeAll(m dynamo.Metric, samples []dynamo.Sample) float64 {
	for _, s := range samples {
		m.Observe(s)
	}
	return m.Value()
}

func TestAge(t *testing.T) {
	m := NewAge()
	if got := observeAll(m, trajectory); got != 2e9 {
		t.Errorf("expected age 2e9, got %g", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero age after reset")
	}

	if got := observeAll(m, trajectory[3:]); got != 0 {
		t.Errorf("expected zero age without past samples, got %g", got)
	}
}

func TestFinalScaleFactor(t *testing.T) {
	m := NewFinalScaleFactor()
	if got := observeAll(m, trajectory); got != 1.2 {
		t.Errorf("expected final a 1.2, got %g", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPeakScaleFactor(t *testing.T) {
	m := NewPeakScaleFactor()
	if m.Value() != 0 {
		t.Error("expected zero before any observation")
	}
	if got := observeAll(m, trajectory); got != 1.4 {
		t.Errorf("expected peak a 1.4, got %g", got)
	}
}

func TestDefaults(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	for _, name := range []string{"age", "final_scale_factor", "peak_scale_factor"} {
		if !seen[name] {
			t.Errorf("missing default metric %s", name)
		}
	}
}
