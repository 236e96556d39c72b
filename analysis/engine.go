// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/device"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// Engine is the long-lived, Setup-once object every analysis in this
// package runs against: a resolved circuit.Graph, the devices built from
// it and classified by capability, and the real-valued MNA matrix shared
// by the operating point, DC sweep and transient analyses (AC allocates
// its own complex matrix on demand, since it needs a different scalar
// field entirely).
type Engine struct {
	Graph *circuit.Graph

	Biasing     []device.Biasing
	Frequency   []device.Frequency
	Transient   []device.Transient
	Temperature []device.Temperature

	stateVars []stateVarBinding

	Matrix        *mna.Matrix[mna.Real]
	ComplexMatrix *mna.Matrix[mna.Complex]
	State         *state.State

	// Temp is the circuit temperature in Kelvin applied to every device
	// implementing device.Temperature during Setup; zero (the default)
	// selects the usual SPICE room-temperature default of 300.15 K.
	Temp float64

	Verbose bool

	isSetup bool
}

type stateVarBinding struct {
	index int
	dev   device.Transient
}

// NewEngine returns an Engine for g, not yet Setup.
func NewEngine(g *circuit.Graph) *Engine {
	return &Engine{Graph: g}
}

// Setup builds every entity's Behavior, classifies it by capability,
// binds the real matrix positions every Biasing device needs, and
// allocates the shared State. It is idempotent -- a second call is a
// no-op, since the matrix's sparsity pattern and pivot order are fixed
// once at Setup and every device's matrix-pointer cache depends on them
// never moving afterward.
func (e *Engine) Setup() error {
	if e.isSetup {
		return nil
	}
	if e.Verbose {
		io.Pf("> resolving %d entities\n", len(e.Graph.Entities))
	}
	for _, ent := range e.Graph.Entities {
		b, err := device.New(ent, e.Graph.Vars)
		if err != nil {
			return err
		}
		if biasing, ok := b.(device.Biasing); ok {
			e.Biasing = append(e.Biasing, biasing)
		}
		if freq, ok := b.(device.Frequency); ok {
			e.Frequency = append(e.Frequency, freq)
		}
		if tr, ok := b.(device.Transient); ok {
			e.Transient = append(e.Transient, tr)
		}
		if temp, ok := b.(device.Temperature); ok {
			e.Temperature = append(e.Temperature, temp)
		}
	}

	// Phase ordering is strict: temperature-dependent parameters settle
	// before the first bias stamp is ever taken.
	circuitTemp := e.Temp
	if circuitTemp <= 0 {
		circuitTemp = 300.15
	}
	for _, t := range e.Temperature {
		if err := t.SetTemperature(circuitTemp); err != nil {
			return chk.Err("device %q failed SetTemperature: %v", t.EntityName(), err)
		}
	}

	e.Matrix = mna.NewMatrix[mna.Real](e.Graph.Vars.Size())
	for _, b := range e.Biasing {
		if err := b.SetupBias(e.Matrix, e.Graph.Vars); err != nil {
			return chk.Err("device %q failed SetupBias: %v", b.EntityName(), err)
		}
	}
	if err := e.Matrix.FixEquations(); err != nil {
		return err
	}

	e.State = state.New(e.Graph.Vars.Size())
	e.State.Temp = circuitTemp
	e.isSetup = true
	return nil
}

// reactiveStates returns the Transient devices that own a charge/flux
// history slot (capacitor, inductor) -- every Transient device except the
// sources, which implement Transient only to track their own waveform.
func (e *Engine) reactiveStates() []device.Transient {
	var out []device.Transient
	for _, tr := range e.Transient {
		switch tr.(type) {
		case *device.Capacitor, *device.Inductor:
			out = append(out, tr)
		}
	}
	return out
}

// Unsetup releases the matrix/state, the devices built from the graph and
// the graph's equation indices, allowing Setup to rebuild the circuit from
// scratch (e.g. after a netlist edit in an interactive front end, out of
// scope here but a natural counterpart to Setup).
func (e *Engine) Unsetup() {
	if e.Matrix != nil {
		e.Matrix.UnfixEquations()
	}
	if e.ComplexMatrix != nil {
		e.ComplexMatrix.UnfixEquations()
	}
	e.Matrix = nil
	e.ComplexMatrix = nil
	e.State = nil
	e.Biasing, e.Frequency, e.Transient, e.Temperature = nil, nil, nil, nil
	e.stateVars = nil
	e.Graph.Vars = circuit.NewVariableMap()
	e.isSetup = false
}
