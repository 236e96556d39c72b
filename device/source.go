// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"math"

	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// VoltageSource is an ideal independent voltage source: DC value of
// V(p)-V(n), optional AC small-signal magnitude/phase, and an optional
// transient Waveform. Like Inductor it needs a branch-current unknown
// since fixing V(p)-V(n) cannot be expressed as a node equation alone.
type VoltageSource struct {
	name         string
	DC           float64
	ACMag        float64
	ACPhase      float64 // degrees
	Transient    Waveform
	pNode, nNode int
	branch       int

	bias branchStamp
	freq branchStampComplex
}

var VoltageSourceParams = circuit.Table[*VoltageSource]{
	{Name: "DC", Kind: "voltage",
		Get: func(d *VoltageSource) float64 { return d.DC },
		Set: func(d *VoltageSource, v float64) { d.DC = v }},
	{Name: "ACMAG", Kind: "voltage",
		Get: func(d *VoltageSource) float64 { return d.ACMag },
		Set: func(d *VoltageSource, v float64) { d.ACMag = v }},
	{Name: "ACPHASE", Kind: "degrees",
		Get: func(d *VoltageSource) float64 { return d.ACPhase },
		Set: func(d *VoltageSource, v float64) { d.ACPhase = v }},
}

func NewVoltageSource(name string, ps circuit.ParameterSet) (*VoltageSource, error) {
	v := &VoltageSource{name: name}
	if err := VoltageSourceParams.BindAll(name, v, ps); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *VoltageSource) EntityName() string    { return v.name }
func (v *VoltageSource) Unsetup()              {}
func (v *VoltageSource) Bind(p, n int)          { v.pNode, v.nNode = p, n }
func (v *VoltageSource) BindBranch(br int)      { v.branch = br }
func (v *VoltageSource) SetWaveform(w Waveform) { v.Transient = w }

// SetDC updates the source's DC value, used by a DC sweep analysis to
// scan this source's bias point across a range.
func (v *VoltageSource) SetDC(value float64) { v.DC = value }

func (v *VoltageSource) SetupBias(m *mna.Matrix[mna.Real], vars *circuit.VariableMap) error {
	t, err := setupBranchReal(m, v.pNode, v.nNode, v.branch)
	if err != nil {
		return err
	}
	v.bias = t
	return nil
}

// LoadBias stamps V(p)-V(n) = DC*SourceFactor, the SourceFactor scaling
// letting the Newton driver's source-stepping homotopy ramp every
// independent source up together.
func (v *VoltageSource) LoadBias(s *state.State) error {
	v.bias.stampUnity()
	if v.branch != 0 {
		s.RHS[v.branch] += mna.Real(v.DC * s.SourceFactor)
	}
	return nil
}

func (v *VoltageSource) SetupFrequency(m *mna.Matrix[mna.Complex], vars *circuit.VariableMap) error {
	t, err := setupBranchComplex(m, v.pNode, v.nNode, v.branch)
	if err != nil {
		return err
	}
	v.freq = t
	return nil
}

// LoadFrequency stamps only the branch coupling; the phasor itself is
// read by the analysis package via ACExcitation and added straight into
// its own complex RHS vector (state.State carries a real-valued RHS for
// the Newton path only, so AC keeps a separate one).
func (v *VoltageSource) LoadFrequency(s *state.State) error {
	v.freq.stampUnity()
	return nil
}

// ACExcitation returns the complex phasor this source injects into the
// branch row of the AC RHS vector.
func (v *VoltageSource) ACExcitation() mna.Complex {
	theta := v.ACPhase * math.Pi / 180
	return mna.Cplx(v.ACMag*math.Cos(theta), v.ACMag*math.Sin(theta))
}

func (v *VoltageSource) Branch() int { return v.branch }

func (v *VoltageSource) SetupTransient(vars *circuit.VariableMap, method state.Method, stateIndex int) error {
	return nil
}

// Breakpoints forwards to the attached waveform, or reports no forced
// breakpoints for a plain DC source.
func (v *VoltageSource) Breakpoints(t0, t1 float64) []float64 {
	if v.Transient == nil {
		return nil
	}
	return v.Transient.Breakpoints(t0, t1)
}

func (v *VoltageSource) LoadTransient(s *state.State) error {
	v.bias.stampUnity()
	val := v.DC
	if v.Transient != nil {
		val = v.Transient.Value(s.Time)
	}
	if v.branch != 0 {
		s.RHS[v.branch] += mna.Real(val)
	}
	return nil
}

func (v *VoltageSource) Accept(s *state.State) error { return nil }

// CurrentSource is an ideal independent current source whose current flows
// from p through the source into n. It needs no branch unknown: it stamps
// only the RHS.
type CurrentSource struct {
	name         string
	DC           float64
	ACMag        float64
	ACPhase      float64
	Transient    Waveform
	pNode, nNode int
}

var CurrentSourceParams = circuit.Table[*CurrentSource]{
	{Name: "DC", Kind: "current",
		Get: func(d *CurrentSource) float64 { return d.DC },
		Set: func(d *CurrentSource, v float64) { d.DC = v }},
	{Name: "ACMAG", Kind: "current",
		Get: func(d *CurrentSource) float64 { return d.ACMag },
		Set: func(d *CurrentSource, v float64) { d.ACMag = v }},
	{Name: "ACPHASE", Kind: "degrees",
		Get: func(d *CurrentSource) float64 { return d.ACPhase },
		Set: func(d *CurrentSource, v float64) { d.ACPhase = v }},
}

func NewCurrentSource(name string, ps circuit.ParameterSet) (*CurrentSource, error) {
	c := &CurrentSource{name: name}
	if err := CurrentSourceParams.BindAll(name, c, ps); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CurrentSource) EntityName() string     { return c.name }
func (c *CurrentSource) Unsetup()               {}
func (c *CurrentSource) Bind(p, n int)          { c.pNode, c.nNode = p, n }
func (c *CurrentSource) SetWaveform(w Waveform) { c.Transient = w }

// SetDC updates the source's DC value, used by a DC sweep analysis to
// scan this source's bias point across a range.
func (c *CurrentSource) SetDC(value float64) { c.DC = value }

func (c *CurrentSource) SetupBias(m *mna.Matrix[mna.Real], vars *circuit.VariableMap) error {
	return nil // no matrix entries: an ideal current source only drives the RHS
}

func (c *CurrentSource) LoadBias(s *state.State) error {
	i := c.DC * s.SourceFactor
	if c.pNode != 0 {
		s.RHS[c.pNode] -= mna.Real(i)
	}
	if c.nNode != 0 {
		s.RHS[c.nNode] += mna.Real(i)
	}
	return nil
}

func (c *CurrentSource) SetupFrequency(m *mna.Matrix[mna.Complex], vars *circuit.VariableMap) error {
	return nil
}

func (c *CurrentSource) LoadFrequency(s *state.State) error { return nil }

// ACExcitation mirrors VoltageSource.ACExcitation for the analysis
// package's complex RHS assembly.
func (c *CurrentSource) ACExcitation() mna.Complex {
	theta := c.ACPhase * math.Pi / 180
	return mna.Cplx(c.ACMag*math.Cos(theta), c.ACMag*math.Sin(theta))
}

func (c *CurrentSource) Nodes() (p, n int) { return c.pNode, c.nNode }

func (c *CurrentSource) SetupTransient(vars *circuit.VariableMap, method state.Method, stateIndex int) error {
	return nil
}

// Breakpoints forwards to the attached waveform, or reports no forced
// breakpoints for a plain DC source.
func (c *CurrentSource) Breakpoints(t0, t1 float64) []float64 {
	if c.Transient == nil {
		return nil
	}
	return c.Transient.Breakpoints(t0, t1)
}

func (c *CurrentSource) LoadTransient(s *state.State) error {
	val := c.DC
	if c.Transient != nil {
		val = c.Transient.Value(s.Time)
	}
	if c.pNode != 0 {
		s.RHS[c.pNode] -= mna.Real(val)
	}
	if c.nNode != 0 {
		s.RHS[c.nNode] += mna.Real(val)
	}
	return nil
}

func (c *CurrentSource) Accept(s *state.State) error { return nil }
