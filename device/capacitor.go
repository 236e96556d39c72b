// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// Capacitor is a linear two-terminal device whose instantaneous charge is
// q(v) = C*v. It contributes nothing to the DC operating point (an ideal
// capacitor is open at DC) and a frequency-domain admittance
// of jωC to AC analysis; its transient stamp is the classical companion
// model -- a conductance C*ag0 in parallel with a current source equal to
// the integration method's history term.
type Capacitor struct {
	name         string
	C            float64
	IC           float64 // optional initial voltage
	pNode, nNode int
	stateIndex   int

	bias twoTerminalReal
	freq twoTerminalComplex
}

var CapacitorParams = circuit.Table[*Capacitor]{
	{Name: "C", Kind: "capacitance",
		Get: func(d *Capacitor) float64 { return d.C },
		Set: func(d *Capacitor, v float64) { d.C = v }},
	{Name: "IC", Kind: "voltage",
		Get: func(d *Capacitor) float64 { return d.IC },
		Set: func(d *Capacitor, v float64) { d.IC = v }},
}

func NewCapacitor(name string, ps circuit.ParameterSet) (*Capacitor, error) {
	c := &Capacitor{name: name, C: 1e-6}
	if err := CapacitorParams.BindAll(name, c, ps); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Capacitor) EntityName() string { return c.name }
func (c *Capacitor) Unsetup()           {}
func (c *Capacitor) Bind(p, n int)      { c.pNode, c.nNode = p, n }

// SetupBias binds the matrix positions the transient companion model will
// later reuse. Ordinarily LoadBias stamps nothing: an ideal capacitor is
// an open circuit at the DC operating point, so Capacitor contributes
// zero conductance and zero current to every bias-point Newton iteration
// while still paying the GetElement cost only once.
func (c *Capacitor) SetupBias(m *mna.Matrix[mna.Real], vars *circuit.VariableMap) error {
	t, err := setupTwoTerminalReal(m, c.pNode, c.nNode)
	if err != nil {
		return err
	}
	c.bias = t
	return nil
}

// icClampConductance is the stiff Norton conductance used to clamp a
// node-voltage difference toward a declared .IC value during the initial
// conditions DC solve: large enough that 1/icClampConductance is
// negligible next to any realistic circuit impedance.
const icClampConductance = 1e6

// LoadBias stamps nothing unless the operating point is being solved with
// initial conditions clamped, in which case it stamps a stiff conductance
// between p and n with a companion current source sized so the converged
// voltage difference equals IC -- the Norton equivalent of a near-ideal
// voltage source IC in series with a 1/icClampConductance resistor.
func (c *Capacitor) LoadBias(s *state.State) error {
	if s.UseInitialConditions {
		c.bias.stampConductance(icClampConductance)
		c.bias.stampCurrent(s.RHS, -icClampConductance*c.IC)
	}
	return nil
}

func (c *Capacitor) SetupFrequency(m *mna.Matrix[mna.Complex], vars *circuit.VariableMap) error {
	t, err := setupTwoTerminalComplex(m, c.pNode, c.nNode)
	if err != nil {
		return err
	}
	c.freq = t
	return nil
}

func (c *Capacitor) LoadFrequency(s *state.State) error {
	c.freq.stampAdmittance(mna.Cplx(0, s.Omega*c.C))
	return nil
}

func (c *Capacitor) SetupTransient(vars *circuit.VariableMap, method state.Method, stateIndex int) error {
	c.stateIndex = stateIndex
	return nil
}

// LoadTransient stamps the companion model onto the matrix positions
// SetupBias already cached (transient analysis reuses the same real
// matrix the bias point uses to find its initial condition).
func (c *Capacitor) LoadTransient(s *state.State) error {
	v := s.VoltageDiff(c.pNode, c.nNode)
	q := c.C * v
	dqdt := s.Method.Integrate(c.stateIndex, q)
	geq := s.Method.Jacobian(c.C)
	c.bias.stampConductance(geq)
	// companion current source: Ieq = dq/dt - geq*v, flowing from p to n
	ieq := dqdt - geq*v
	c.bias.stampCurrent(s.RHS, ieq)
	return nil
}

// Accept commits this step's converged charge into the integration
// method's history.
func (c *Capacitor) Accept(s *state.State) error {
	v := s.VoltageDiff(c.pNode, c.nNode)
	s.Method.Accept(c.stateIndex, c.C*v)
	return nil
}
