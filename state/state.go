// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package state holds the mutable data every device Behavior reads and
// writes during a Load call: the previous Newton iterate, the solver's
// homotopy controls (gmin, source-stepping factor), the circuit
// temperature, and -- when an analysis is time-dependent -- a reference
// to the active integration Method.
package state

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/gospice/mna"
)

// Method is the subset of the integration method's API a device needs in
// order to turn an instantaneous charge/flux into the (current, dq/dt,
// conductance) triple KCL requires. It is satisfied by *integrate.Method;
// kept as an interface here to avoid an import cycle between state and
// integrate (integrate imports state).
type Method interface {
	// Integrate returns the dq/dt of the state variable at index i for the
	// candidate charge passed in, under the active formula.
	Integrate(i int, charge float64) (derivative float64)

	// Jacobian returns the Newton conductance contribution c*ag[0] for a
	// device stamping the derivative of a charge/flux it owns.
	Jacobian(c float64) float64

	// Slope is ag[0], the coefficient that turns a state value into its
	// current-time-derivative approximation under the active formula.
	Slope() float64

	// Accept commits state index i's final, Newton-converged charge/flux
	// value into the method's permanent history, called once per state
	// variable when a transient step is accepted.
	Accept(i int, value float64)
}

// Phase identifies which kind of solve is in progress. Devices key their
// first-iteration and gmin-stepping behavior off FirstIteration and Gmin,
// not off Phase.
type Phase int

const (
	PhaseBias Phase = iota
	PhaseFrequency
	PhaseTransient
)

// State is the simulation-wide, per-iteration data every Behavior.Load
// call is given: node voltages and branch currents in place of generic
// finite-element degrees of freedom.
type State struct {
	Phase Phase

	// X holds the previous Newton iterate: node voltages and branch
	// currents, 1-based, index 0 (ground) always zero.
	X []float64

	// RHS is the right-hand-side vector the Newton driver zeroes at the
	// start of every iteration and every Behavior.Load stamps its
	// independent-current and companion-source contributions into.
	RHS []mna.Real

	// XPrev1 is allocated alongside X and cleared by Reset; no device
	// reads it.
	XPrev1 []float64

	// Gmin is added from every node to ground during gmin stepping.
	Gmin float64

	// SourceFactor scales independent sources during source stepping,
	// 0 at the start of the homotopy and 1 at the true operating point.
	SourceFactor float64

	// Temp is the circuit temperature in Kelvin.
	Temp float64

	// Time is the current simulation time (transient only); zero for DC
	// and ignored for AC (which uses Omega instead).
	Time float64

	// Omega is the angular frequency (AC only).
	Omega float64

	// FirstIteration is true for the first Newton iteration of a bias
	// point, used by devices to decide whether to (re)initialize
	// voltage-limiting history.
	FirstIteration bool

	// UseInitialConditions is true when node voltages declared with an
	// initial condition must be clamped rather than solved for.
	UseInitialConditions bool

	// Method is nil outside of transient analysis.
	Method Method
}

// New allocates a State sized for n unknowns (1-based, so length n+1).
func New(n int) *State {
	return &State{
		X:            make([]float64, n+1),
		XPrev1:       make([]float64, n+1),
		RHS:          make([]mna.Real, n+1),
		Gmin:         1e-12,
		SourceFactor: 1,
		Temp:         300.15,
	}
}

// Reset clears the iterate vectors to zero, keeping Gmin/SourceFactor/Temp
// as configured; used when an analysis restarts from scratch (e.g. once at
// the start of a DC sweep, whose later points continue from the previous
// solution).
func (s *State) Reset() {
	la.VecFill(s.X, 0)
	la.VecFill(s.XPrev1, 0)
	s.ZeroRHS()
}

// ZeroRHS clears the RHS vector; called at the start of every Newton
// iteration, before any Behavior.Load runs.
func (s *State) ZeroRHS() {
	for i := range s.RHS {
		s.RHS[i] = 0
	}
}

// Voltage returns the node voltage at index i (0 for ground).
func (s *State) Voltage(i int) float64 {
	if i == 0 {
		return 0
	}
	return s.X[i]
}

// VoltageDiff returns X[p] - X[n], the usual two-terminal device input.
func (s *State) VoltageDiff(p, n int) float64 {
	return s.Voltage(p) - s.Voltage(n)
}
