// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gospice/device"
	"github.com/cpmech/gospice/integrate"
	"github.com/cpmech/gospice/newton"
	"github.com/cpmech/gospice/state"
)

// TransientPoint is one accepted time point: the time and a private
// snapshot of the node voltages/branch currents at that instant.
type TransientPoint struct {
	Time  float64
	State *state.State
}

// TransientResult is the full accepted-point trace a Transient call
// produces.
type TransientResult struct {
	Engine *Engine
	Points []TransientPoint
}

// breakpointSource is implemented by device.VoltageSource/CurrentSource:
// a time-varying waveform that forces the stepper to land exactly on its
// discontinuities.
type breakpointSource interface {
	Breakpoints(t0, t1 float64) []float64
}

// Transient runs a variable-step time-domain simulation from opts.Init to
// opts.Final. The run starts from a freshly solved DC operating point, the
// usual SPICE ".TRAN" contract; with opts.UseIC that solve clamps the
// declared initial conditions.
func (e *Engine) Transient(opts TransientOptions, dcOpts DCOptions) (*TransientResult, error) {
	if err := e.Setup(); err != nil {
		return nil, err
	}

	formula := integrate.Trapezoidal
	if opts.Method == "gear" {
		formula = integrate.Gear
	}

	reactive := e.reactiveStates()
	method := integrate.NewMethod(formula, len(reactive))
	for i, dv := range reactive {
		if err := dv.SetupTransient(e.Graph.Vars, method, i); err != nil {
			return nil, chk.Err("transient setup failed for %q: %v", dv.EntityName(), err)
		}
	}
	for _, tr := range e.Transient {
		if _, ok := tr.(*device.Capacitor); ok {
			continue
		}
		if _, ok := tr.(*device.Inductor); ok {
			continue
		}
		if err := tr.SetupTransient(e.Graph.Vars, method, -1); err != nil {
			return nil, chk.Err("transient setup failed for %q: %v", tr.EntityName(), err)
		}
	}

	maxStep := opts.MaxStep
	if maxStep <= 0 {
		maxStep = (opts.Final - opts.Init) / 50
	}

	bp := integrate.NewBreakpoints(1e-13 * maxStep)
	for _, tr := range e.Transient {
		if src, ok := tr.(breakpointSource); ok {
			for _, t := range src.Breakpoints(opts.Init, opts.Final) {
				bp.Set(t)
			}
		}
	}

	var biasOnly []device.Biasing
	for _, b := range e.Biasing {
		if _, isTransient := b.(device.Transient); isTransient {
			continue
		}
		biasOnly = append(biasOnly, b)
	}
	loaders := append(newton.FromBiasing(biasOnly), newton.FromTransient(e.Transient)...)
	driver := newton.NewDriver(e.Matrix, e.Graph.Vars, loaders, newton.Options{
		AbsTol:        dcOpts.AbsTol,
		RelTol:        dcOpts.RelTol,
		VnTol:         dcOpts.VnTol,
		MaxIterations: opts.ITL4,
	})
	driver.Verbose = e.Verbose

	e.State.Reset()
	e.State.Gmin = dcOpts.Gmin
	// opts.UseIC clamps every .IC node/branch to its declared value for
	// this solve only; SolveOperatingPoint's own Reset doesn't touch the
	// flag, so Capacitor/Inductor's LoadBias see it throughout.
	e.State.UseInitialConditions = opts.UseIC
	if _, err := e.SolveOperatingPoint(dcOpts); err != nil {
		return nil, chk.Err("transient: initial operating point failed: %v", err)
	}
	// SolveOperatingPoint ran its own Driver against e.Matrix/e.Biasing;
	// the transient Driver above shares the same State and Matrix, so
	// the converged node voltages/branch currents are already in place.
	e.State.UseInitialConditions = false

	stepperOpts := integrate.StepperOptions{
		Start:       opts.Init,
		Stop:        opts.Final,
		MaxStep:     maxStep,
		TrTol:       opts.TrTol,
		ChgTol:      opts.ChgTol,
		MaxHalvings: 10,
		UseIC:       opts.UseIC,
	}

	stateVars := make([]integrate.StateVar, len(reactive))
	for i, dv := range reactive {
		stateVars[i] = integrate.StateVar{Index: i, Device: dv}
	}

	stepper := integrate.NewStepper(method, bp, driver, stateVars, e.Transient, stepperOpts)
	stepper.Verbose = e.Verbose

	result := &TransientResult{Engine: e}
	err := stepper.Run(e.State, func(t float64, s *state.State) error {
		snapshot := state.New(e.Graph.Vars.Size())
		copy(snapshot.X, s.X)
		result.Points = append(result.Points, TransientPoint{Time: t, State: snapshot})
		return nil
	})
	if err != nil {
		return nil, chk.Err("transient run failed: %v", err)
	}
	return result, nil
}
