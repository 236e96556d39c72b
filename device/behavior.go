// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package device implements the minimal device catalog (resistor,
// capacitor, inductor, independent sources, diode) and the Behavior
// protocol every device contributes stamps through. The protocol is
// capability-based: a device implements only the interfaces matching the
// analyses it participates in, keyed by analysis kind rather than by one
// monolithic Load method every device must implement regardless of
// whether it even has a frequency- or time-domain contribution.
package device

import (
	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// Behavior is what every device must implement regardless of capability:
// identity and the two lifecycle hooks that bracket a Setup/Unsetup
// cycle. Binding matrix pointers happens in the capability-specific Setup
// methods below (SetupBias, SetupFrequency), never in Load, so that the
// hot Newton/transient loop never does a map lookup or linked-list walk
// to find the element it should stamp into.
type Behavior interface {
	EntityName() string
	Unsetup()
}

// Biasing is implemented by every device that participates in DC
// operating-point / DC-sweep analysis (i.e. essentially all of them,
// except pure digital-style or noise-only behaviors this catalog does
// not implement).
type Biasing interface {
	Behavior
	SetupBias(m *mna.Matrix[mna.Real], vars *circuit.VariableMap) error
	LoadBias(s *state.State) error
}

// Frequency is implemented by devices with a linear small-signal model
// around the operating point (resistor, capacitor, inductor, the AC
// magnitude/phase of an independent source).
type Frequency interface {
	Behavior
	SetupFrequency(m *mna.Matrix[mna.Complex], vars *circuit.VariableMap) error
	LoadFrequency(s *state.State) error
}

// Transient is implemented by devices whose contribution depends on the
// integration method (capacitor, inductor, time-varying sources). Accept
// is called once a step is accepted. Source breakpoints are not added
// from Accept: the transient analysis collects them from each waveform
// before the time loop starts.
type Transient interface {
	Behavior
	// SetupTransient binds the device to the analysis's integration method
	// and, for devices that own a charge/flux history slot (capacitor,
	// inductor), to the stateIndex the analysis allocated for it -- one
	// per such device, assigned in registration order, analogous to how
	// VariableMap hands out equation indices.
	SetupTransient(vars *circuit.VariableMap, method state.Method, stateIndex int) error
	LoadTransient(s *state.State) error
	Accept(s *state.State) error
}

// Temperature is implemented by devices whose parameters are
// temperature-dependent (the resistor's temperature coefficients). The
// diode does not implement it; it reads the circuit temperature from the
// state when it loads.
type Temperature interface {
	Behavior
	SetTemperature(kelvin float64) error
}
