// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package newton implements the damped Newton-Raphson driver that solves
// one modified-nodal-analysis bias point: zero the matrix and RHS, load
// every biasing device, factor, solve, check convergence, and -- should
// plain Newton fail to converge -- fall back to gmin stepping and then
// source stepping homotopies.
package newton

// Options collects every tolerance and iteration limit the driver needs,
// named after their SPICE option-card equivalents since that
// is the vocabulary the rest of this module's tests and documentation
// use.
type Options struct {
	AbsTol float64 // abstol-style current/charge absolute tolerance, amps
	RelTol float64 // relative tolerance applied to both voltages and currents
	VnTol  float64 // voltage absolute tolerance, volts

	MaxIterations int // itl1 for a DC operating point, itl4 for a transient sub-step

	GminSteps   int // number of x10 gmin increases attempted before giving up
	SourceSteps int // number of source-stepping increments attempted
}

// DefaultDCOptions returns the option set used for an operating-point or
// DC-sweep solve.
func DefaultDCOptions() Options {
	return Options{
		AbsTol:        1e-12,
		RelTol:        1e-3,
		VnTol:         1e-6,
		MaxIterations: 100,
		GminSteps:     10,
		SourceSteps:   20,
	}
}

// DefaultTransientOptions returns the option set used for each transient
// sub-step's Newton solve -- a tighter iteration budget since a failed
// step is cheap to retry with a smaller Δt.
func DefaultTransientOptions() Options {
	o := DefaultDCOptions()
	o.MaxIterations = 10
	return o
}
