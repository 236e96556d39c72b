// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gospice/device"
	"github.com/cpmech/gospice/newton"
	"github.com/cpmech/gospice/state"
)

// DCSweepPoint is one converged solve of a DC sweep: the sweep variable's
// value and the State it produced. State is a private snapshot (not the
// Engine's shared one), so earlier points in a sweep remain readable
// after later ones are computed.
type DCSweepPoint struct {
	Value float64
	State *state.State
}

// DCSweepResult is the full trace a DCSweep call produces.
type DCSweepResult struct {
	Engine *Engine
	Source string
	Points []DCSweepPoint
}

// sweptSource is satisfied by device.VoltageSource and
// device.CurrentSource: the two independent-source kinds a DC sweep can
// drive.
type sweptSource interface {
	SetDC(v float64)
}

// DCSweep sweeps the named independent source's DC value from start to
// stop in equal steps of step, re-solving the operating point at each
// point and using the previous point's converged state as the next
// point's initial guess -- the standard SPICE .DC continuation strategy,
// which tracks a nonlinear solution far better than restarting from zero
// at every point.
func (e *Engine) DCSweep(sourceName string, start, stop, step float64, opts DCOptions) (*DCSweepResult, error) {
	if err := e.Setup(); err != nil {
		return nil, err
	}
	src, err := e.findSweptSource(sourceName)
	if err != nil {
		return nil, err
	}
	if step == 0 {
		return nil, chk.Err("DCSweep: %q has a zero step", sourceName)
	}

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

	e.State.Reset()
	e.State.Gmin = opts.Gmin

	result := &DCSweepResult{Engine: e, Source: sourceName}
	n := int((stop-start)/step + 0.5)
	for k := 0; k <= n; k++ {
		v := start + float64(k)*step
		src.SetDC(v)
		if err := driver.SolveOperatingPoint(e.State); err != nil {
			return nil, chk.Err("DCSweep: point %s=%.6g failed to converge: %v", sourceName, v, err)
		}
		snapshot := state.New(e.Graph.Vars.Size())
		copy(snapshot.X, e.State.X)
		result.Points = append(result.Points, DCSweepPoint{Value: v, State: snapshot})
	}
	return result, nil
}

// findSweptSource resolves name against e's Biasing devices and checks
// that it is a kind DCSweep can drive.
func (e *Engine) findSweptSource(name string) (sweptSource, error) {
	for _, b := range e.Biasing {
		if b.EntityName() != name {
			continue
		}
		if src, ok := b.(sweptSource); ok {
			return src, nil
		}
		return nil, chk.Err("DCSweep: entity %q is not an independent source", name)
	}
	return nil, chk.Err("DCSweep: no entity named %q", name)
}

var _ sweptSource = (*device.VoltageSource)(nil)
var _ sweptSource = (*device.CurrentSource)(nil)
