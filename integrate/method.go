// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integrate implements the variable-order, variable-step implicit
// integration formulas (Trapezoidal and Gear, up to order 6) a transient
// analysis uses to turn each reactive device's instantaneous charge/flux
// into a current/voltage contribution, plus the breakpoint table and
// local-truncation-error estimate that drive step-size control.
package integrate

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Formula selects the underlying implicit integration rule.
type Formula int

const (
	Trapezoidal Formula = iota
	Gear
)

func (f Formula) String() string {
	if f == Gear {
		return "gear"
	}
	return "trapezoidal"
}

const maxGearOrder = 6

// Method is the per-analysis integration state shared by every reactive
// device through the state.Method interface: it holds the accepted step
// history, the per-state-variable charge/derivative history, and the
// current formula's ag coefficients. One Method serves the whole circuit;
// each device identifies its own state variable by the stateIndex it was
// given at Setup (device.Transient.SetupTransient).
type Method struct {
	Formula  Formula
	Order    int // current order in use, 1 (backward Euler / Gear-1) .. MaxOrder
	MaxOrder int // ceiling Order may be raised to: 2 for Trapezoidal, maxGearOrder for Gear
	HMin     float64

	h []float64 // h[0] = current step, h[1] = previous accepted step, ...

	charge      [][]float64 // charge[i][0] is state i's most recently accepted value, [1] the one before, ...
	derivative  [][]float64 // derivative[i][0] is state i's most recently accepted dq/dt
	ag          []float64   // ag[0..Order]: dq/dt ≈ ag[0]*q_n + Σ ag[k]*q_{n-k} (order-2 Trapezoidal also subtracts the last accepted dq/dt)
}

// NewMethod allocates a Method for nStates reactive state variables
// (capacitors + inductors in the circuit), with history depth sized for
// the largest order the formula will ever request.
func NewMethod(formula Formula, nStates int) *Method {
	depth := maxGearOrder + 2
	m := &Method{
		Formula:  formula,
		Order:    1,
		MaxOrder: maxGearOrder,
		HMin:     1e-15,
		h:        make([]float64, depth),
	}
	if formula == Trapezoidal {
		m.MaxOrder = 2
	}
	m.charge = make([][]float64, nStates)
	m.derivative = make([][]float64, nStates)
	for i := range m.charge {
		m.charge[i] = make([]float64, depth)
		m.derivative[i] = make([]float64, depth)
	}
	m.ag = make([]float64, maxGearOrder+1)
	return m
}

// SetOrder changes the formula's order (1 for backward Euler, 2 for
// Trapezoidal/BDF2, up to MaxOrder for Gear); the order-control logic in
// stepper.go is the main caller, raising it after a run of accepted steps
// and dropping it to 1 after a rejection or a breakpoint step.
func (m *Method) SetOrder(order int) {
	if order < 1 {
		chk.Panic("integrate: order must be >= 1 (got %d)", order)
	}
	if order > m.MaxOrder {
		chk.Panic("integrate: %s formula supports order up to %d (got %d)", m.Formula, m.MaxOrder, order)
	}
	m.Order = order
}

// SetStep records a new proposed step size h and recomputes ag, the
// coefficients the active formula/order needs. h must exceed HMin.
func (m *Method) SetStep(h float64) error {
	if h < m.HMin {
		return chk.Err("integrate: step %.3e below minimum %.3e", h, m.HMin)
	}
	copy(m.h[1:], m.h[:len(m.h)-1])
	m.h[0] = h
	m.computeCoefficients()
	return nil
}

// computeCoefficients fills ag[0..Order] for the active formula. Gear
// coefficients beyond order 2 are derived from the backward-difference
// formula evaluated at the recorded (possibly unequal) past step sizes;
// order 1 (backward Euler, for either formula) and order-2 Trapezoidal use
// their closed forms directly, which are exact even when the step size
// just changed.
func (m *Method) computeCoefficients() {
	h0 := m.h[0]
	switch {
	case m.Order == 1:
		m.ag[0] = 1 / h0
		m.ag[1] = -1 / h0
	case m.Formula == Trapezoidal:
		m.ag[0] = 2 / h0
		m.ag[1] = -2 / h0
	default:
		m.computeGearCoefficients()
	}
}

// computeGearCoefficients builds the backward-differentiation coefficients
// for the active order from Lagrange-polynomial interpolation through the
// Order+1 most recent accepted time points plus the new point, the
// standard construction for variable-step BDF (Gear) methods.
func (m *Method) computeGearCoefficients() {
	order := m.Order
	// times[0] is the new point (t=0 in a frame shifted by -t_n), times[k]
	// for k>=1 is -sum of the k most recent accepted steps.
	times := make([]float64, order+1)
	acc := 0.0
	times[0] = 0
	for k := 1; k <= order; k++ {
		acc += m.h[k-1]
		times[k] = -acc
	}
	// ag[k] is the derivative, evaluated at times[0], of the k-th Lagrange
	// basis polynomial for the node set `times`.
	for k := 0; k <= order; k++ {
		m.ag[k] = lagrangeDerivativeAtFirstNode(times, k)
	}
}

// lagrangeDerivativeAtFirstNode returns L_k'(times[0]) for the Lagrange
// basis polynomial built on node set `times`, using the standard sum-of-
// products formula.
func lagrangeDerivativeAtFirstNode(times []float64, k int) float64 {
	x0 := times[0]
	n := len(times)
	sum := 0.0
	for j := 0; j < n; j++ {
		if j == k {
			continue
		}
		term := 1.0
		for m := 0; m < n; m++ {
			if m == k || m == j {
				continue
			}
			term *= (x0 - times[m]) / (times[k] - times[m])
		}
		sum += term / (times[k] - times[j])
	}
	return sum
}

// Integrate implements state.Method: it returns the formula's estimate of
// dq/dt at the new point for state variable i, from the as-yet-uncommitted
// charge q and the committed history. It stores nothing; Accept must be
// called once the Newton iteration that produced q is accepted as the
// timestep's final answer.
func (m *Method) Integrate(i int, q float64) float64 {
	d := m.ag[0] * q
	for k := 1; k <= m.Order; k++ {
		d += m.ag[k] * m.charge[i][k-1]
	}
	if m.Formula == Trapezoidal && m.Order == 2 {
		d -= m.derivative[i][0]
	}
	return d
}

// Jacobian returns c*ag[0], the Newton conductance/resistance
// contribution of a device whose charge/flux derivative scales linearly
// with c (capacitance or inductance).
func (m *Method) Jacobian(c float64) float64 { return c * m.ag[0] }

// Slope returns ag[0].
func (m *Method) Slope() float64 { return m.ag[0] }

// Predict returns state i's predicted value at the new point via linear
// extrapolation over the current step h[0] from its accepted history --
// the reference the LTE estimate compares against.
func (m *Method) Predict(i int) float64 {
	// simple forward extrapolation using the most recent accepted
	// derivative and the most recent charge
	if m.h[0] == 0 {
		return m.charge[i][0]
	}
	return m.charge[i][0] + m.derivative[i][0]*m.h[0]
}

// Accept commits the charge/derivative values Integrate computed for
// state i during the just-converged iteration into the permanent history,
// shifting older values down. Called once per state variable, after the
// transient driver has accepted the whole circuit's step.
func (m *Method) Accept(i int, q float64) {
	d := m.Integrate(i, q)
	copy(m.charge[i][1:], m.charge[i][:len(m.charge[i])-1])
	copy(m.derivative[i][1:], m.derivative[i][:len(m.derivative[i])-1])
	m.charge[i][0] = q
	m.derivative[i][0] = d
}

// History returns the most recently accepted charge and derivative for
// state i, used by the LTE estimator.
func (m *Method) History(i int) (charge, derivative float64) {
	return m.charge[i][0], m.derivative[i][0]
}

// Debug prints the current integration coefficients.
func (m *Method) Debug() {
	io.Pfgrey("integrate: formula=%s order=%d h=%.6e\n", m.Formula, m.Order, m.h[0])
	io.Pfgrey("ag=%v\n", m.ag[:m.Order+1])
}
