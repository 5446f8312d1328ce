// Package physics provides the cosmological model driven by the simulator.
//
// [Friedmann] implements [dynamo.System] for the state {a, da/dt}, where a is
// the dimensionless scale factor (1 today). Its acceleration comes from
// [Accel], the Friedmann acceleration equation with matter, radiation and
// dark-energy terms scaled from their present-day [Densities].
//
// Units are fixed: densities in kg/m^3, time in years, [G] in
// m^3 / kg / yr^2 and [H] in 1/yr.
//
//	dyn := physics.NewFriedmann(physics.Densities{Matter: 2.53e-27})
//	dx := dyn.Derive(dynamo.State{1, physics.H}, 0)
//
// [Friedmann] also implements [dynamo.Configurable] so densities can be
// retuned between runs.
package physics
