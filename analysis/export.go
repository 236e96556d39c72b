// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/mna"
)

// PointExport is the lazy (entityName, propertyName) -> scalar handle
// an analysis result describes, resolved against one solved real-valued point
// (operating point, one DC-sweep point, or one accepted transient point).
// Node voltages and branch currents share the same lookup: both are
// VariableMap entries, so GetVoltage and GetCurrent differ only in the
// name the caller is expected to pass.
type PointExport struct {
	vars       *circuit.VariableMap
	values     []float64
	sweepValue float64
	time       float64
}

// GetVoltage returns the node voltage at nodeName.
func (p *PointExport) GetVoltage(nodeName string) (float64, error) {
	i, err := p.vars.Lookup(nodeName)
	if err != nil {
		return 0, err
	}
	return p.values[i], nil
}

// GetCurrent returns the branch current at branchName (the label passed
// to VariableMap.NewBranch, e.g. "V1#branch").
func (p *PointExport) GetCurrent(branchName string) (float64, error) {
	i, err := p.vars.Lookup(branchName)
	if err != nil {
		return 0, err
	}
	return p.values[i], nil
}

// GetSweepValue returns the DC sweep source's value at this point, or
// zero if this point did not come from a DC sweep.
func (p *PointExport) GetSweepValue() float64 { return p.sweepValue }

// GetTime returns the simulation time at this point, or zero if this
// point did not come from a transient run.
func (p *PointExport) GetTime() float64 { return p.time }

// Export returns a PointExport for the converged operating point.
func (op *OperatingPoint) Export() *PointExport {
	return &PointExport{vars: op.Engine.Graph.Vars, values: op.State.X}
}

// Export returns a PointExport for sweep point i.
func (r *DCSweepResult) Export(i int) *PointExport {
	pt := r.Points[i]
	return &PointExport{
		vars:       r.Engine.Graph.Vars,
		values:     pt.State.X,
		sweepValue: pt.Value,
	}
}

// Export returns a PointExport for accepted transient point i.
func (r *TransientResult) Export(i int) *PointExport {
	pt := r.Points[i]
	return &PointExport{
		vars:   r.Engine.Graph.Vars,
		values: pt.State.X,
		time:   pt.Time,
	}
}

// ACPointExport is the AC-analysis counterpart of PointExport: every
// property is a complex phasor rather than a real scalar.
type ACPointExport struct {
	vars   *circuit.VariableMap
	values []mna.Complex
	freq   float64
}

// GetVoltage returns the node voltage phasor at nodeName.
func (p *ACPointExport) GetVoltage(nodeName string) (mna.Complex, error) {
	i, err := p.vars.Lookup(nodeName)
	if err != nil {
		return mna.Complex{}, err
	}
	return p.values[i], nil
}

// GetCurrent returns the branch current phasor at branchName.
func (p *ACPointExport) GetCurrent(branchName string) (mna.Complex, error) {
	i, err := p.vars.Lookup(branchName)
	if err != nil {
		return mna.Complex{}, err
	}
	return p.values[i], nil
}

// GetFrequency returns this point's frequency in hertz.
func (p *ACPointExport) GetFrequency() float64 { return p.freq }

// Export returns an ACPointExport for sweep point i.
func (r *ACResult) Export(i int) *ACPointExport {
	pt := r.Points[i]
	return &ACPointExport{vars: r.Engine.Graph.Vars, values: pt.Values, freq: pt.Freq}
}
