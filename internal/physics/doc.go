// Package physics implements the stencil workloads driven by the simulation
// runners: blast overpressure mapping, heat diffusion and contaminant
// dispersion.
//
// Every model computes step s into the grid returned by Target(s), one row
// band at a time. Compute only writes the rows of the band it is handed and
// only reads state produced by step s-1, so any number of bands of the same
// step may be computed concurrently. Commit(s) is called once all bands of
// step s are done.
package physics
