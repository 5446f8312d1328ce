// Package viz provides terminal visualization of scale-factor trajectories.
//
//   - [PlotScaleFactor]: static asciigraph chart of a(t)
//   - [Model]: Bubble Tea explorer that replays a run and reruns it as
//     densities are tuned
//
// # Key Bindings
//
//	Space  - Pause/Resume playback
//	R      - Reset densities and replay
//	Tab    - Cycle the selected density
//	Up/K   - Increase selected density (+5%)
//	Down/J - Decrease selected density (-5%)
//	Q      - Quit
package viz
