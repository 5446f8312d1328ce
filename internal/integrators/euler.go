package integrators

import "github.com/san-kum/cosmosim/internal/dynamo"

// Euler is the explicit first-order stepper x' = x + dt * f(x, t).
// It keeps no state between steps and is safe for concurrent use.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		// no fused multiply-add, the product is rounded before the sum
		result[i] = x[i] + float64(dx[i]*dt)
	}
	return result
}
