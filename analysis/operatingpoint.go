// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gospice/newton"
	"github.com/cpmech/gospice/state"
)

// OperatingPoint holds the node voltages and branch currents the
// operating-point analysis converged to, alongside the Engine it was
// computed against (so GetVoltage/GetCurrent can resolve names).
type OperatingPoint struct {
	Engine *Engine
	State  *state.State
}

// SolveOperatingPoint runs the full DC operating-point solve (plain
// Newton, falling back to gmin stepping then source stepping) against
// e's shared state, returning a handle property exports can read from.
func (e *Engine) SolveOperatingPoint(opts DCOptions) (*OperatingPoint, error) {
	if err := e.Setup(); err != nil {
		return nil, err
	}
	e.State.Reset()
	e.State.Gmin = opts.Gmin

	nopts := newton.Options{
		AbsTol:        opts.AbsTol,
		RelTol:        opts.RelTol,
		VnTol:         opts.VnTol,
		MaxIterations: opts.ITL1,
		GminSteps:     10,
		SourceSteps:   20,
	}
	driver := newton.NewDriver(e.Matrix, e.Graph.Vars, newton.FromBiasing(e.Biasing), nopts)
	driver.Verbose = e.Verbose

	if err := driver.SolveOperatingPoint(e.State); err != nil {
		return nil, chk.Err("operating point failed to converge: %v", err)
	}
	if e.Verbose {
		io.Pf("> operating point converged\n")
	}
	return &OperatingPoint{Engine: e, State: e.State}, nil
}
