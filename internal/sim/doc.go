// Package sim runs physics models over row bands of a grid.
//
// Three runners share the Model interface:
//
//   - Simulation dispatches one batch of band tasks per step to a
//     pool.Pool and waits for the batch before dispatching the next step.
//   - RunSequential computes every step on the calling goroutine.
//   - RunHalo gives each band its own goroutine and replaces the global
//     barrier with step announcements between neighbouring bands.
//
// All three produce bit-identical grids for the same model and step count.
package sim
