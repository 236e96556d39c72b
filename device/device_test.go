// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// buildDivider wires a 2-resistor voltage divider (node 1 -> R1 -> node 2
// -> R2 -> ground) driven by a 10V source between node 1 and ground, and
// solves for the bias point.
func buildDivider(t *testing.T) (*state.State, *mna.Matrix[mna.Real]) {
	t.Helper()
	vars := circuit.NewVariableMap()
	n1 := vars.NodeIndex("1")
	n2 := vars.NodeIndex("2")

	r1, err := NewResistor("R1", circuit.ParameterSet{{Name: "R", Value: 1000}})
	require.NoError(t, err)
	r1.Bind(n1, n2)

	r2, err := NewResistor("R2", circuit.ParameterSet{{Name: "R", Value: 1000}})
	require.NoError(t, err)
	r2.Bind(n2, 0)

	vs, err := NewVoltageSource("V1", circuit.ParameterSet{{Name: "DC", Value: 10}})
	require.NoError(t, err)
	vs.Bind(n1, 0)
	vs.BindBranch(vars.NewBranch("V1#branch"))

	m := mna.NewMatrix[mna.Real](vars.Size())
	require.NoError(t, r1.SetupBias(m, vars))
	require.NoError(t, r2.SetupBias(m, vars))
	require.NoError(t, vs.SetupBias(m, vars))
	require.NoError(t, m.FixEquations())

	s := state.New(vars.Size())
	s.SourceFactor = 1
	require.NoError(t, r1.LoadBias(s))
	require.NoError(t, r2.LoadBias(s))
	require.NoError(t, vs.LoadBias(s))

	m.NeedsReordering = true
	require.NoError(t, m.OrderAndFactor())
	sol := make([]mna.Real, vars.Size()+1)
	require.NoError(t, m.Solve(s.RHS, sol))
	for i := range sol {
		s.X[i] = float64(sol[i])
	}
	return s, m
}

func TestResistorDividerSolvesToHalfSupply(t *testing.T) {
	s, _ := buildDivider(t)
	assert.InDelta(t, 10.0, s.X[1], 1e-9)
	assert.InDelta(t, 5.0, s.X[2], 1e-9)
}

func TestRegistryBuildsResistorFromEntity(t *testing.T) {
	vars := circuit.NewVariableMap()
	e := &circuit.Entity{
		Name: "R1", Kind: "resistor",
		Nodes:  []string{"in", "0"},
		Params: []circuit.ParameterSet{{{Name: "R", Value: 470}}},
	}
	b, err := New(e, vars)
	require.NoError(t, err)
	r, ok := b.(*Resistor)
	require.True(t, ok)
	assert.Equal(t, 470.0, r.R)
	assert.Equal(t, "R1", r.EntityName())
}

func TestRegistryUnknownKindFails(t *testing.T) {
	vars := circuit.NewVariableMap()
	e := &circuit.Entity{Name: "X1", Kind: "wormhole"}
	_, err := New(e, vars)
	assert.Error(t, err)
}

func TestPulseWaveformRisesHoldsAndFalls(t *testing.T) {
	p := PulseWaveform{V1: 0, V2: 5, Delay: 1, RiseTime: 1, FallTime: 1, PulseWidth: 2}
	assert.Equal(t, 0.0, p.Value(0))
	assert.InDelta(t, 2.5, p.Value(1.5), 1e-9)
	assert.Equal(t, 5.0, p.Value(2.5))
	assert.InDelta(t, 2.5, p.Value(4.5), 1e-9)
	assert.Equal(t, 0.0, p.Value(6))
}

func TestPWLWaveformInterpolatesAndHolds(t *testing.T) {
	w := PWLWaveform{Points: []PWLPoint{{0, 0}, {1, 10}, {2, 10}}}
	assert.Equal(t, 0.0, w.Value(-1))
	assert.InDelta(t, 5.0, w.Value(0.5), 1e-9)
	assert.Equal(t, 10.0, w.Value(3))
}

// fakeMethod is a stand-in for integrate.Method: backward-Euler-like,
// Integrate returns (charge-prevCharge)/h and Jacobian returns c/h.
type fakeMethod struct {
	h         float64
	prevByIdx map[int]float64
}

func (f *fakeMethod) Integrate(i int, charge float64) float64 {
	prev := f.prevByIdx[i]
	d := (charge - prev) / f.h
	f.prevByIdx[i] = charge
	return d
}
func (f *fakeMethod) Jacobian(c float64) float64    { return c / f.h }
func (f *fakeMethod) Slope() float64                { return 1 / f.h }
func (f *fakeMethod) Accept(i int, value float64) { f.prevByIdx[i] = value }

func TestCapacitorCompanionModelMatchesBackwardEuler(t *testing.T) {
	vars := circuit.NewVariableMap()
	n1 := vars.NodeIndex("1")

	c, err := NewCapacitor("C1", circuit.ParameterSet{{Name: "C", Value: 1e-6}})
	require.NoError(t, err)
	c.Bind(n1, 0)

	m := mna.NewMatrix[mna.Real](vars.Size())
	require.NoError(t, c.SetupBias(m, vars))
	require.NoError(t, m.FixEquations())

	method := &fakeMethod{h: 1e-3, prevByIdx: map[int]float64{0: 0}}
	require.NoError(t, c.SetupTransient(vars, method, 0))

	s := state.New(vars.Size())
	s.Method = method
	s.X[1] = 1.0 // previous accepted voltage
	require.NoError(t, c.LoadTransient(s))

	// geq should be C/h
	geq := 1e-6 / 1e-3
	assert.InDelta(t, geq, float64(m.ToDense()[1][1]), 1e-15)
}
