package sim

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// Simulator integrates a system backward from the present until the scale
// factor falls to a floor, and forward until a time horizon.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// pass describes one sweep from the shared initial condition.
type pass struct {
	dir dynamo.Direction
	// recordFirst records each sample before stepping instead of after.
	recordFirst bool
	proceed     func(x dynamo.State, t float64) bool
	sizeHint    int
}

func backwardPass(cfg Config) pass {
	return pass{
		dir:         dynamo.Backward,
		recordFirst: true,
		proceed:     func(x dynamo.State, t float64) bool { return x[0] > cfg.MinScaleFactor },
		sizeHint:    256,
	}
}

func forwardPass(cfg Config) pass {
	hint := 0
	if steps := math.Ceil(cfg.Horizon / cfg.Dt); steps < 1<<16 {
		hint = int(steps)
	}
	return pass{
		dir:      dynamo.Forward,
		proceed:  func(x dynamo.State, t float64) bool { return t < cfg.Horizon },
		sizeHint: hint,
	}
}

// Run performs both passes and returns their samples in increasing time
// order. The sample at t = 0 comes from the backward pass only.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	var backward, forward []dynamo.Sample
	if cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			backward, err = s.sweep(gctx, backwardPass(cfg), cfg)
			return err
		})
		g.Go(func() error {
			var err error
			forward, err = s.sweep(gctx, forwardPass(cfg), cfg)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if backward, err = s.sweep(ctx, backwardPass(cfg), cfg); err != nil {
			return nil, err
		}
		if forward, err = s.sweep(ctx, forwardPass(cfg), cfg); err != nil {
			return nil, err
		}
	}

	slices.Reverse(backward)
	samples := make([]dynamo.Sample, 0, len(backward)+len(forward))
	samples = append(samples, backward...)
	samples = append(samples, forward...)

	result := &Result{
		Samples:       samples,
		BackwardSteps: len(backward),
		ForwardSteps:  len(forward),
		Metrics:       make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
		for _, smp := range samples {
			m.Observe(smp)
		}
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// sweep steps from (t=0, a=1, v=InitialRate) while p.proceed holds.
func (s *Simulator) sweep(ctx context.Context, p pass, cfg Config) ([]dynamo.Sample, error) {
	x := dynamo.State{InitialScaleFactor, cfg.InitialRate}
	t := 0.0
	dt := float64(p.dir) * cfg.Dt
	samples := make([]dynamo.Sample, 0, p.sizeHint)

	step := 0
	for ; p.proceed(x, t); step++ {
		if cfg.MaxSteps > 0 && step >= cfg.MaxSteps {
			return nil, &dynamo.SimulationError{Pass: p.dir, Step: step, Time: t, State: x.Clone(), Wrapped: dynamo.ErrNonConvergent}
		}
		if err := ctx.Err(); err != nil {
			return nil, &dynamo.SimulationError{
				Pass: p.dir, Step: step, Time: t, State: x.Clone(),
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err),
			}
		}

		if p.recordFirst {
			samples = append(samples, dynamo.Sample{T: t, A: x[0]})
		}

		x = s.integrator.Step(s.dyn, x, t, dt)
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return nil, &dynamo.SimulationError{Pass: p.dir, Step: step, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		if !p.recordFirst {
			samples = append(samples, dynamo.Sample{T: t, A: x[0]})
		}
	}

	logrus.Debugf("%s pass: %d steps, stopped at t=%.4g a=%.6g", p.dir, step, t, x[0])
	return samples, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.dyn.StateDim() != 2 {
		return fmt.Errorf("%w: system has %d states, want {a, da/dt}", dynamo.ErrDimensionMismatch, s.dyn.StateDim())
	}
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if !(cfg.MinScaleFactor > 0 && cfg.MinScaleFactor < InitialScaleFactor) {
		return fmt.Errorf("%w: min scale factor must be in (0, 1), got %g", dynamo.ErrParameterBounds, cfg.MinScaleFactor)
	}
	if !(cfg.Horizon > 0) || math.IsInf(cfg.Horizon, 0) {
		return fmt.Errorf("%w: horizon must be positive, got %g", dynamo.ErrParameterBounds, cfg.Horizon)
	}
	if math.IsNaN(cfg.InitialRate) || math.IsInf(cfg.InitialRate, 0) {
		return fmt.Errorf("%w: initial rate must be finite, got %g", dynamo.ErrParameterBounds, cfg.InitialRate)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must not be negative, got %d", dynamo.ErrParameterBounds, cfg.MaxSteps)
	}
	return nil
}
