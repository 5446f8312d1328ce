package metrics

import (
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

type FinalScaleFactor struct {
	name string
	last float64
}

func NewFinalScaleFactor() *FinalScaleFactor {
	return &FinalScaleFactor{name: "final_scale_factor"}
}

func (f *FinalScaleFactor) Name() string { return f.name }

func (f *FinalScaleFactor) Observe(s dynamo.Sample) {
	f.last = s.A
}

func (f *FinalScaleFactor) Value() float64 { return f.last }

func (f *FinalScaleFactor) Reset() { f.last = 0 }

// PeakScaleFactor is the largest a seen. It only differs from the final
// value when the forward pass turns around and recollapses.
type PeakScaleFactor struct {
	name string
	peak float64
}

func NewPeakScaleFactor() *PeakScaleFactor {
	return &PeakScaleFactor{name: "peak_scale_factor", peak: math.Inf(-1)}
}

func (p *PeakScaleFactor) Name() string { return p.name }

func (p *PeakScaleFactor) Observe(s dynamo.Sample) {
	p.peak = math.Max(p.peak, s.A)
}

func (p *PeakScaleFactor) Value() float64 {
	if math.IsInf(p.peak, -1) {
		return 0
	}
	return p.peak
}

func (p *PeakScaleFactor) Reset() { p.peak = math.Inf(-1) }

func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewAge(),
		NewFinalScaleFactor(),
		NewPeakScaleFactor(),
	}
}
