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

// boltzmannOverCharge is k/q in volts/Kelvin, used to turn the diode's
// emission coefficient N and the circuit temperature into a thermal
// voltage vt = N*k*T/q.
const boltzmannOverCharge = 8.617333262e-5

// Diode is the exponential-junction two-terminal device, linearized every
// Newton iteration about the previous iterate's junction voltage with
// SPICE's classical voltage-limiting scheme: the proposed
// step in junction voltage is clamped to at most vt*ln(Δv_max/vt) so that
// a single Newton step near v=0 can never overshoot into a region where
// exp(v/vt) overflows.
type Diode struct {
	name         string
	Is           float64 // saturation current, A
	N            float64 // emission coefficient
	Rs           float64 // series resistance, ohms
	pNode, nNode int

	vjPrev float64 // last accepted/limited junction voltage, for limiting
	bias   twoTerminalReal
	freq   twoTerminalComplex
}

var DiodeParams = circuit.Table[*Diode]{
	{Name: "IS", Kind: "current",
		Get: func(d *Diode) float64 { return d.Is },
		Set: func(d *Diode, v float64) { d.Is = v }},
	{Name: "N", Kind: "dimensionless",
		Get: func(d *Diode) float64 { return d.N },
		Set: func(d *Diode, v float64) { d.N = v }},
	{Name: "RS", Kind: "resistance",
		Get: func(d *Diode) float64 { return d.Rs },
		Set: func(d *Diode, v float64) { d.Rs = v }},
}

func NewDiode(name string, ps circuit.ParameterSet) (*Diode, error) {
	d := &Diode{name: name, Is: 1e-14, N: 1}
	if err := DiodeParams.BindAll(name, d, ps); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Diode) EntityName() string { return d.name }
func (d *Diode) Unsetup()           {}
func (d *Diode) Bind(p, n int)      { d.pNode, d.nNode = p, n }

func (d *Diode) thermalVoltage(temp float64) float64 {
	return d.N * boltzmannOverCharge * temp
}

func (d *Diode) SetupBias(m *mna.Matrix[mna.Real], vars *circuit.VariableMap) error {
	t, err := setupTwoTerminalReal(m, d.pNode, d.nNode)
	if err != nil {
		return err
	}
	d.bias = t
	return nil
}

// limit applies SPICE's log-based voltage limiting: if the proposed
// junction voltage vNew has moved further from vjPrev than the thermal
// voltage can tolerate in one step, clamp it to the edge of a safe
// exponential range instead of rejecting the iteration outright.
func (d *Diode) limit(vNew, vt float64) float64 {
	if vNew <= d.vjPrev+vt {
		return vNew
	}
	arg := (vNew-d.vjPrev)/vt + 1
	if arg < 1 {
		arg = 1
	}
	return d.vjPrev + vt*math.Log(arg)
}

// LoadBias linearizes Id(v) = Is*(exp(v/vt)-1) about the limited junction
// voltage: stamps the small-signal conductance geq = dId/dv and a
// companion current source Ieq = Id(vlim) - geq*vlim, the textbook
// Newton-Raphson device model shared by every SPICE-family simulator.
func (d *Diode) LoadBias(s *state.State) error {
	vt := d.thermalVoltage(s.Temp)
	vRaw := s.VoltageDiff(d.pNode, d.nNode)
	if s.FirstIteration {
		d.vjPrev = 0
	}
	v := d.limit(vRaw, vt)
	d.vjPrev = v

	id := d.Is * (math.Exp(v/vt) - 1)
	geq := d.Is / vt * math.Exp(v/vt)
	if geq < s.Gmin {
		geq = s.Gmin
	}
	ieq := id - geq*v

	d.bias.stampConductance(geq)
	d.bias.stampCurrent(s.RHS, ieq)
	return nil
}

func (d *Diode) SetupFrequency(m *mna.Matrix[mna.Complex], vars *circuit.VariableMap) error {
	t, err := setupTwoTerminalComplex(m, d.pNode, d.nNode)
	if err != nil {
		return err
	}
	d.freq = t
	return nil
}

// LoadFrequency stamps the small-signal conductance at the operating
// point left behind by the last bias-point solve (the usual small-signal
// AC model; the diode's AC conductance is real-valued, no reactive term,
// since this catalog's diode has no depletion/diffusion capacitance).
func (d *Diode) LoadFrequency(s *state.State) error {
	vt := d.thermalVoltage(s.Temp)
	geq := d.Is / vt * math.Exp(d.vjPrev/vt)
	d.freq.stampAdmittance(mna.Cplx(geq, 0))
	return nil
}
