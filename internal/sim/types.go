package sim

import (
	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/physics"
)

const (
	// DefaultDt is the magnitude of the time step, in years.
	DefaultDt = 1.0e8
	// DefaultMinScaleFactor is the floor that ends the backward pass.
	DefaultMinScaleFactor = 1.0e-3
	// DefaultHorizon is the time, in years, that ends the forward pass.
	DefaultHorizon = 1.0e10
	// DefaultMaxSteps caps each pass. Physical inputs need a few hundred.
	DefaultMaxSteps = 1_000_000

	// InitialScaleFactor is a at t = 0 for both passes.
	InitialScaleFactor = 1.0
)

type Config struct {
	Dt             float64
	MinScaleFactor float64
	Horizon        float64
	InitialRate    float64
	// MaxSteps bounds the steps of each pass; 0 disables the cap.
	MaxSteps      int
	ValidateState bool
	// Parallel runs the two passes concurrently. Output is unchanged.
	Parallel bool
}

func DefaultConfig() Config {
	return Config{
		Dt:             DefaultDt,
		MinScaleFactor: DefaultMinScaleFactor,
		Horizon:        DefaultHorizon,
		InitialRate:    physics.H,
		MaxSteps:       DefaultMaxSteps,
		ValidateState:  true,
	}
}

// Result holds the chronologically ordered samples of both passes.
type Result struct {
	Samples       []dynamo.Sample
	BackwardSteps int
	ForwardSteps  int
	Metrics       map[string]float64
}

func (r *Result) ScaleFactors() []float64 {
	as := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		as[i] = s.A
	}
	return as
}

// Present returns the index of the t = 0 sample, or -1 for an empty result.
func (r *Result) Present() int {
	return r.BackwardSteps - 1
}
