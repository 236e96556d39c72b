// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis ties together circuit, device, newton, integrate and
// mna into the three user-facing analyses a netlist front end drives:
// operating point / DC sweep, AC small-signal, and transient. Engine is
// one long-lived object that Setup's a circuit once and can run several
// analyses against it.
package analysis

// DCOptions configures an operating-point or DC-sweep solve.
type DCOptions struct {
	AbsTol float64
	RelTol float64
	VnTol  float64
	Gmin   float64
	ITL1   int // max Newton iterations per point
}

// DefaultDCOptions mirrors the usual SPICE .OPTIONS card defaults.
func DefaultDCOptions() DCOptions {
	return DCOptions{
		AbsTol: 1e-12,
		RelTol: 1e-3,
		VnTol:  1e-6,
		Gmin:   1e-12,
		ITL1:   100,
	}
}

// TransientOptions configures a transient run.
type TransientOptions struct {
	Init, Final, Step, MaxStep float64
	Method                     string // "trapezoidal" or "gear"
	UseIC                      bool
	TrTol                      float64
	ChgTol                     float64
	ITL4                       int // max Newton iterations per sub-step
}

// DefaultTransientOptions fills in the SPICE-standard LTE tolerance and
// iteration budget, leaving the run's own Init/Final/Step to the caller.
func DefaultTransientOptions() TransientOptions {
	return TransientOptions{
		Method: "trapezoidal",
		TrTol:  7.0,
		ChgTol: 1e-14,
		ITL4:   10,
	}
}

// SweepKind selects how an AC frequency sweep is spaced.
type SweepKind int

const (
	Linear SweepKind = iota
	Decade
	Octave
)

// ACOptions configures an AC small-signal sweep.
type ACOptions struct {
	Sweep        SweepKind
	Points       int // points per sweep unit for Decade/Octave, total points for Linear
	Start, Stop  float64
	KeepOpInfo   bool // not read: AC always linearizes each nonlinear device about the bias state its operating-point solve left
}
