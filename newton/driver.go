// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/device"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// Loader is anything the driver can ask to stamp its contribution for one
// Newton iteration. device.Biasing and device.Transient both satisfy it
// through the adapters below -- Driver itself only needs an entity name
// (for error messages) and a Load call, not which analysis phase a
// device thinks it is in.
type Loader interface {
	EntityName() string
	Load(s *state.State) error
}

type biasLoader struct{ device.Biasing }

func (b biasLoader) Load(s *state.State) error { return b.LoadBias(s) }

type transientLoader struct{ device.Transient }

func (t transientLoader) Load(s *state.State) error { return t.LoadTransient(s) }

// FromBiasing wraps bias-point devices as Loaders, for a DC operating
// point or DC sweep.
func FromBiasing(devices []device.Biasing) []Loader {
	out := make([]Loader, len(devices))
	for i, d := range devices {
		out[i] = biasLoader{d}
	}
	return out
}

// FromTransient wraps transient devices as Loaders. A device that also
// implements Biasing (every source, in this catalog) must use its
// LoadTransient during a transient run instead -- LoadBias only ever
// stamps the DC value, which would freeze a PULSE or PWL source at time
// zero for the whole run.
func FromTransient(devices []device.Transient) []Loader {
	out := make([]Loader, len(devices))
	for i, d := range devices {
		out[i] = transientLoader{d}
	}
	return out
}

// Driver runs the damped Newton-Raphson loop
// against one real (bias-point/transient) MNA matrix. It owns the
// solution buffer and the scratch vector used for the verbose residual
// printout,
// but not the State -- callers share one State across analyses (DC sweep,
// transient) so that a device's internal history survives between solves.
type Driver struct {
	Matrix  *mna.Matrix[mna.Real]
	Vars    *circuit.VariableMap
	Loaders []Loader
	Opts    Options
	Verbose bool

	solution []mna.Real
	factored bool // whether OrderAndFactor has ever run successfully

	resScratch []float64 // reused by residualScratch, only populated when Verbose
}

// NewDriver builds a Driver over devices already Setup against m, wrapped
// as Loaders via FromBiasing/FromTransient (devices active in both phases
// of a transient run -- Biasing nonlinear devices plus Transient reactive
// and source devices -- should be concatenated by the caller).
func NewDriver(m *mna.Matrix[mna.Real], vars *circuit.VariableMap, loaders []Loader, opts Options) *Driver {
	return &Driver{
		Matrix:   m,
		Vars:     vars,
		Loaders:  loaders,
		Opts:     opts,
		solution: make([]mna.Real, vars.Size()+1),
	}
}

// loadAndFactor zeroes the matrix and RHS, lets every biasing device
// stamp its contribution, then factors -- reusing the recorded pivot
// order after the first successful factorization, and falling back to a
// fresh Markowitz search if reuse hits a numerically zero pivot.
func (d *Driver) loadAndFactor(s *state.State) error {
	d.Matrix.Zero()
	s.ZeroRHS()
	for _, ld := range d.Loaders {
		if err := ld.Load(s); err != nil {
			return chk.Err("device %q failed to load: %v", ld.EntityName(), err)
		}
	}
	if s.Gmin > 0 {
		d.stampGmin(s.Gmin)
	}
	if !d.factored {
		if err := d.Matrix.OrderAndFactor(); err != nil {
			return err
		}
		d.factored = true
		return nil
	}
	ok, err := d.Matrix.Factor()
	if err != nil {
		return err
	}
	if !ok {
		d.Matrix.NeedsReordering = true
		if err := d.Matrix.OrderAndFactor(); err != nil {
			return err
		}
	}
	return nil
}

// stampGmin adds a small conductance from every node (not branch current)
// to ground, the classical convergence aid for circuits with floating or
// weakly-connected nodes.
func (d *Driver) stampGmin(gmin float64) {
	for i := 1; i <= d.Vars.Size(); i++ {
		if d.Vars.IsBranch(i) {
			continue
		}
		e, err := d.Matrix.GetElement(i, i)
		if err != nil {
			continue // matrix already fixed and this row never appeared: nothing to add gmin to
		}
		e.Value += mna.Real(gmin)
	}
}

// iterate runs a single Newton iteration: load, factor, solve, and report
// whether the new iterate converged against the old one. s.X is updated
// in place; the pre-iteration value is read before being overwritten.
func (d *Driver) iterate(s *state.State) (converged bool, err error) {
	if err = d.loadAndFactor(s); err != nil {
		return false, err
	}
	if err = d.Matrix.Solve(s.RHS, d.solution); err != nil {
		return false, err
	}
	if d.Verbose {
		io.Pf("> largest residual: %.6e\n", la.VecLargest(d.residualScratch(s.RHS), 1))
	}
	converged = d.checkConvergence(s.X, d.solution)
	for i := range s.X {
		s.X[i] = float64(d.solution[i])
	}
	return converged, nil
}

// residualScratch copies rhs into a reused []float64 buffer, the shape
// la.VecLargest needs, for the verbose residual printout.
func (d *Driver) residualScratch(rhs []mna.Real) []float64 {
	if d.resScratch == nil {
		d.resScratch = make([]float64, len(rhs))
	}
	for i, v := range rhs {
		d.resScratch[i] = float64(v)
	}
	return d.resScratch
}

// checkConvergence applies the component-wise test:
// |x_new - x_old| <= reltol*|x_new| + tol, where tol is VnTol for node
// voltages and AbsTol for branch currents.
func (d *Driver) checkConvergence(prev []float64, next []mna.Real) bool {
	for i := 1; i < len(next); i++ {
		tol := d.Opts.VnTol
		if d.Vars.IsBranch(i) {
			tol = d.Opts.AbsTol
		}
		diff := math.Abs(float64(next[i]) - prev[i])
		limit := d.Opts.RelTol*math.Abs(float64(next[i])) + tol
		if diff > limit {
			return false
		}
	}
	return true
}

// Run executes the plain (undamped, un-stepped) Newton iteration to
// convergence or MaxIterations, without any homotopy aid. Most callers
// should use SolveOperatingPoint instead, which adds gmin/source stepping
// as a fallback.
func (d *Driver) Run(s *state.State) error {
	s.FirstIteration = true
	for it := 0; it < d.Opts.MaxIterations; it++ {
		converged, err := d.iterate(s)
		if err != nil {
			return err
		}
		s.FirstIteration = false
		if converged {
			return nil
		}
	}
	return chk.Err("NoConvergence: operating point did not converge within %d iterations", d.Opts.MaxIterations)
}

// SolveOperatingPoint finds the DC operating point, applying gmin
// stepping and then source stepping if plain Newton fails to converge
// from the current state, using the prescribed gmin-then-source fallback order.
func (d *Driver) SolveOperatingPoint(s *state.State) error {
	baseline := s.Gmin
	if err := d.Run(s); err == nil {
		return nil
	}

	if d.Verbose {
		io.Pf("> plain Newton failed to converge, trying gmin stepping\n")
	}
	if err := d.gminHomotopy(s, baseline); err == nil {
		return nil
	}

	if d.Verbose {
		io.Pf("> gmin stepping insufficient, trying source stepping\n")
	}
	return d.sourceHomotopy(s, baseline)
}

// gminHomotopy ramps gmin up from baseline until Newton converges, then
// ramps it back down to baseline one decade at a time, using each
// converged iterate as the next step's starting point.
func (d *Driver) gminHomotopy(s *state.State, baseline float64) error {
	gmin := baseline
	converged := false
	for step := 0; step < d.Opts.GminSteps; step++ {
		gmin *= 10
		s.Gmin = gmin
		if err := d.Run(s); err == nil {
			converged = true
			break
		}
	}
	if !converged {
		s.Gmin = baseline
		return chk.Err("NoConvergence: gmin stepping exhausted %d steps without converging", d.Opts.GminSteps)
	}
	for gmin > baseline {
		gmin /= 10
		if gmin < baseline {
			gmin = baseline
		}
		s.Gmin = gmin
		if err := d.Run(s); err != nil {
			return chk.Err("NoConvergence: lost convergence ramping gmin back to %.3g: %v", baseline, err)
		}
	}
	s.Gmin = baseline
	return nil
}

// sourceHomotopy ramps the independent-source scale factor from 0 to 1 in
// equal increments, solving at each step from the previous one's result.
func (d *Driver) sourceHomotopy(s *state.State, baseline float64) error {
	s.Gmin = baseline
	s.SourceFactor = 0
	for step := 1; step <= d.Opts.SourceSteps; step++ {
		s.SourceFactor = float64(step) / float64(d.Opts.SourceSteps)
		if err := d.Run(s); err != nil {
			return chk.Err("NoConvergence: source stepping failed at factor %.3f: %v", s.SourceFactor, err)
		}
	}
	s.SourceFactor = 1
	return nil
}
