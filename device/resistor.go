// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// Resistor is a linear two-terminal conductance. It is the simplest
// possible Behavior: its bias and frequency stamps are identical (a real
// conductance is its own small-signal model), and it has no transient
// contribution at all.
type Resistor struct {
	name string
	R    float64 // ohms
	Tc1  float64 // linear temperature coefficient, 1/K
	Tc2  float64 // quadratic temperature coefficient, 1/K^2

	pNode, nNode int // equation indices, bound by the registry at Setup

	temp float64
	bias twoTerminalReal
	freq twoTerminalComplex
}

// ResistorParams is the static parameter table binding Resistor's fields,
// resolved at Setup instead of by reflection.
var ResistorParams = circuit.Table[*Resistor]{
	{Name: "R", Kind: "resistance",
		Get: func(d *Resistor) float64 { return d.R },
		Set: func(d *Resistor, v float64) { d.R = v }},
	{Name: "TC1", Kind: "coefficient",
		Get: func(d *Resistor) float64 { return d.Tc1 },
		Set: func(d *Resistor, v float64) { d.Tc1 = v }},
	{Name: "TC2", Kind: "coefficient",
		Get: func(d *Resistor) float64 { return d.Tc2 },
		Set: func(d *Resistor, v float64) { d.Tc2 = v }},
}

// NewResistor builds a Resistor named name with ps bound onto it.
func NewResistor(name string, ps circuit.ParameterSet) (*Resistor, error) {
	r := &Resistor{name: name, R: 1000, temp: 300.15}
	if err := ResistorParams.BindAll(name, r, ps); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resistor) EntityName() string { return r.name }
func (r *Resistor) Unsetup()           {}

func (r *Resistor) SetTemperature(kelvin float64) error {
	r.temp = kelvin
	return nil
}

// resistance returns the temperature-corrected resistance, floored well
// away from zero so a 0-ohm resistor (a modelling error, not a short)
// never produces an infinite conductance.
func (r *Resistor) resistance() float64 {
	dt := r.temp - 300.15
	rt := r.R * (1 + r.Tc1*dt + r.Tc2*dt*dt)
	if rt < 1e-9 {
		rt = 1e-9
	}
	return rt
}

// Bind records the equation indices for this resistor's two terminals,
// resolved by the registry from the entity's node names before Setup.
func (r *Resistor) Bind(p, n int) { r.pNode, r.nNode = p, n }

func (r *Resistor) SetupBias(m *mna.Matrix[mna.Real], vars *circuit.VariableMap) error {
	t, err := setupTwoTerminalReal(m, r.pNode, r.nNode)
	if err != nil {
		return err
	}
	r.bias = t
	return nil
}

func (r *Resistor) LoadBias(s *state.State) error {
	r.bias.stampConductance(1 / r.resistance())
	return nil
}

func (r *Resistor) SetupFrequency(m *mna.Matrix[mna.Complex], vars *circuit.VariableMap) error {
	t, err := setupTwoTerminalComplex(m, r.pNode, r.nNode)
	if err != nil {
		return err
	}
	r.freq = t
	return nil
}

func (r *Resistor) LoadFrequency(s *state.State) error {
	r.freq.stampAdmittance(mna.Cplx(1/r.resistance(), 0))
	return nil
}
