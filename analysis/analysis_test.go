// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/device"
)

func vsource(name, p, n string, dc float64) *circuit.Entity {
	return &circuit.Entity{
		Name: name, Kind: "vsource", Nodes: []string{p, n},
		Params: []circuit.ParameterSet{{{Name: "DC", Value: dc}}},
	}
}

func resistor(name, p, n string, r float64) *circuit.Entity {
	return &circuit.Entity{
		Name: name, Kind: "resistor", Nodes: []string{p, n},
		Params: []circuit.ParameterSet{{{Name: "R", Value: r}}},
	}
}

func capacitor(name, p, n string, c float64) *circuit.Entity {
	return &circuit.Entity{
		Name: name, Kind: "capacitor", Nodes: []string{p, n},
		Params: []circuit.ParameterSet{{{Name: "C", Value: c}}},
	}
}

func TestResistorDividerOperatingPoint(t *testing.T) {
	g := circuit.NewGraph()
	g.Add(vsource("V1", "in", "0", 10))
	g.Add(resistor("R1", "in", "out", 1000))
	g.Add(resistor("R2", "out", "0", 1000))

	eng := NewEngine(g)
	op, err := eng.SolveOperatingPoint(DefaultDCOptions())
	require.NoError(t, err)

	v, err := op.Export().GetVoltage("out")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-9)
}

func TestRCConstantHoldsSteadyState(t *testing.T) {
	g := circuit.NewGraph()
	g.Add(vsource("V1", "in", "0", 10))
	g.Add(resistor("R1", "in", "out", 10))
	g.Add(capacitor("C1", "out", "0", 20))

	eng := NewEngine(g)
	opts := DefaultTransientOptions()
	opts.Init, opts.Final, opts.Step = 0, 10, 1
	result, err := eng.Transient(opts, DefaultDCOptions())
	require.NoError(t, err)
	require.NotEmpty(t, result.Points)

	for i := range result.Points {
		v, err := result.Export(i).GetVoltage("out")
		require.NoError(t, err)
		assert.InDelta(t, 10.0, v, 1e-6)
	}
}

func TestLowPassThreeDBPoint(t *testing.T) {
	g := circuit.NewGraph()
	g.Add(&circuit.Entity{
		Name: "V1", Kind: "vsource", Nodes: []string{"in", "0"},
		Params: []circuit.ParameterSet{{{Name: "DC", Value: 0}, {Name: "ACMAG", Value: 1}}},
	})
	g.Add(resistor("R1", "in", "out", 1000))
	g.Add(capacitor("C1", "out", "0", 1e-6))

	eng := NewEngine(g)
	_, err := eng.SolveOperatingPoint(DefaultDCOptions())
	require.NoError(t, err)

	fc := 1 / (2 * math.Pi * 1000 * 1e-6)
	result, err := eng.AC(ACOptions{Sweep: Linear, Points: 1, Start: fc, Stop: fc})
	require.NoError(t, err)
	require.Len(t, result.Points, 1)

	v, err := result.Export(0).GetVoltage("out")
	require.NoError(t, err)
	mag := v.Abs()
	assert.InDelta(t, 1/math.Sqrt2, mag, 0.01)
}

func TestDiodeForwardCurrent(t *testing.T) {
	g := circuit.NewGraph()
	g.Add(vsource("V1", "a", "0", 0.7))
	g.Add(&circuit.Entity{
		Name: "D1", Kind: "diode", Nodes: []string{"a", "0"},
		Params: []circuit.ParameterSet{{{Name: "IS", Value: 1e-14}, {Name: "N", Value: 1}}},
	})

	eng := NewEngine(g)
	op, err := eng.SolveOperatingPoint(DefaultDCOptions())
	require.NoError(t, err)

	i, err := op.Export().GetCurrent("V1#branch")
	require.NoError(t, err)

	vt := 8.617333262e-5 * 300.15
	expected := 1e-14 * (math.Exp(0.7/vt) - 1)
	assert.InEpsilon(t, expected, math.Abs(i), 0.05)
}

func TestPulseSourceIntoRCHitsBreakpoints(t *testing.T) {
	g := circuit.NewGraph()
	g.Add(vsource("V1", "in", "0", 0))
	g.Add(resistor("R1", "in", "out", 1000))
	g.Add(capacitor("C1", "out", "0", 1e-9))

	eng := NewEngine(g)
	require.NoError(t, eng.Setup())
	pulse := &device.PulseWaveform{
		V1: 0, V2: 5, Delay: 0,
		RiseTime: 1e-9, FallTime: 1e-9,
		PulseWidth: 5e-9, Period: 10e-9,
	}
	for _, b := range eng.Biasing {
		if vs, ok := b.(*device.VoltageSource); ok && vs.EntityName() == "V1" {
			vs.SetWaveform(pulse)
		}
	}

	opts := DefaultTransientOptions()
	opts.Init, opts.Final, opts.Step, opts.MaxStep = 0, 50e-9, 1e-10, 1e-9
	result, err := eng.Transient(opts, DefaultDCOptions())
	require.NoError(t, err)
	require.NotEmpty(t, result.Points)

	// accepted times must be strictly increasing
	for i := 1; i < len(result.Points); i++ {
		assert.Greater(t, result.Points[i].Time, result.Points[i-1].Time)
	}
	last := result.Points[len(result.Points)-1]
	assert.InDelta(t, 50e-9, last.Time, 1e-9)

	// every pulse corner inside the run is landed on by an accepted point,
	// within the breakpoint table's minimum spacing
	for _, bp := range pulse.Breakpoints(opts.Init, opts.Final) {
		hit := false
		for _, p := range result.Points {
			if math.Abs(p.Time-bp) <= 1e-13*opts.MaxStep {
				hit = true
				break
			}
		}
		assert.True(t, hit, "no accepted point at breakpoint %.3e", bp)
	}
}

func TestSingularParallelVoltageSourcesFail(t *testing.T) {
	g := circuit.NewGraph()
	g.Add(vsource("V1", "a", "0", 5))
	g.Add(vsource("V2", "a", "0", 10))

	eng := NewEngine(g)
	_, err := eng.SolveOperatingPoint(DefaultDCOptions())
	assert.Error(t, err)
}
