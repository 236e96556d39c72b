// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/device"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

func buildDividerDriver(t *testing.T) (*Driver, *state.State) {
	t.Helper()
	vars := circuit.NewVariableMap()
	n1 := vars.NodeIndex("1")
	n2 := vars.NodeIndex("2")

	r1, err := device.NewResistor("R1", circuit.ParameterSet{{Name: "R", Value: 1000}})
	require.NoError(t, err)
	r1.Bind(n1, n2)

	r2, err := device.NewResistor("R2", circuit.ParameterSet{{Name: "R", Value: 1000}})
	require.NoError(t, err)
	r2.Bind(n2, 0)

	vs, err := device.NewVoltageSource("V1", circuit.ParameterSet{{Name: "DC", Value: 10}})
	require.NoError(t, err)
	vs.Bind(n1, 0)
	vs.BindBranch(vars.NewBranch("V1#branch"))

	m := mna.NewMatrix[mna.Real](vars.Size())
	require.NoError(t, r1.SetupBias(m, vars))
	require.NoError(t, r2.SetupBias(m, vars))
	require.NoError(t, vs.SetupBias(m, vars))
	require.NoError(t, m.FixEquations())

	loaders := FromBiasing([]device.Biasing{r1, r2, vs})
	d := NewDriver(m, vars, loaders, DefaultDCOptions())
	s := state.New(vars.Size())
	return d, s
}

func TestSolveOperatingPointConvergesOnLinearDivider(t *testing.T) {
	d, s := buildDividerDriver(t)
	require.NoError(t, d.SolveOperatingPoint(s))
	assert.InDelta(t, 10.0, s.X[1], 1e-6)
	assert.InDelta(t, 5.0, s.X[2], 1e-6)
}

func TestRunFailsFastWithZeroIterationBudget(t *testing.T) {
	d, s := buildDividerDriver(t)
	d.Opts.MaxIterations = 0
	err := d.Run(s)
	assert.Error(t, err)
}

func TestDiodeCircuitConvergesViaDamping(t *testing.T) {
	vars := circuit.NewVariableMap()
	n1 := vars.NodeIndex("anode")

	r1, err := device.NewResistor("R1", circuit.ParameterSet{{Name: "R", Value: 1000}})
	require.NoError(t, err)
	r1.Bind(n1, 0)

	vs, err := device.NewVoltageSource("V1", circuit.ParameterSet{{Name: "DC", Value: 5}})
	require.NoError(t, err)
	// Supply node is distinct from the diode/resistor node: the source
	// drives the parallel R1/D1 combination through the series resistor Rs.
	supply := vars.NodeIndex("supply")
	vs.Bind(supply, 0)
	vs.BindBranch(vars.NewBranch("V1#branch"))

	rs, err := device.NewResistor("Rs", circuit.ParameterSet{{Name: "R", Value: 100}})
	require.NoError(t, err)
	rs.Bind(supply, n1)

	d1, err := device.NewDiode("D1", circuit.ParameterSet{{Name: "IS", Value: 1e-14}, {Name: "N", Value: 1}})
	require.NoError(t, err)
	d1.Bind(n1, 0)

	m := mna.NewMatrix[mna.Real](vars.Size())
	require.NoError(t, r1.SetupBias(m, vars))
	require.NoError(t, rs.SetupBias(m, vars))
	require.NoError(t, vs.SetupBias(m, vars))
	require.NoError(t, d1.SetupBias(m, vars))
	require.NoError(t, m.FixEquations())

	loaders := FromBiasing([]device.Biasing{r1, rs, vs, d1})
	drv := NewDriver(m, vars, loaders, DefaultDCOptions())
	s := state.New(vars.Size())
	require.NoError(t, drv.SolveOperatingPoint(s))

	// forward-biased silicon-like diode: anode settles well below the
	// supply and strictly above zero
	assert.Greater(t, s.X[n1], 0.0)
	assert.Less(t, s.X[n1], 5.0)
}
