// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types shared by the
// physics models, the integrators and the simulator:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Sample]: recorded (t, a) point of a trajectory
//   - [Direction]: sign of the time step of a pass
//   - [Metric]: summary statistic observed over recorded samples
//
// # Errors
//
// Failures during a run are reported as [*SimulationError] values wrapping
// one of the sentinel errors, so callers can use errors.Is:
//
//	_, err := s.Run(ctx, cfg)
//	if errors.Is(err, dynamo.ErrNonConvergent) {
//	    // the step cap was hit
//	}
package dynamo
