// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/gospice/device"
	"github.com/cpmech/gospice/newton"
	"github.com/cpmech/gospice/state"
)

// StepperOptions collects the variable-step transient controls named
// after their SPICE option-card equivalents.
type StepperOptions struct {
	Start, Stop float64
	MaxStep     float64
	TrTol       float64 // local-truncation-error tolerance scale, default 7.0
	ChgTol      float64 // absolute charge tolerance floor for the LTE denominator
	MaxHalvings int     // step-halvings attempted after a Newton failure
	UseIC       bool
}

// DefaultStepperOptions returns Start=0, Stop/MaxStep left to the caller,
// and the usual SPICE LTE defaults.
func DefaultStepperOptions() StepperOptions {
	return StepperOptions{
		TrTol:       7.0,
		ChgTol:      1e-14,
		MaxHalvings: 10,
	}
}

// StateVar binds one reactive device (capacitor or inductor) to the
// Method history slot the transient analysis assigned to it at setup.
type StateVar struct {
	Index  int
	Device device.Transient
}

// Stepper drives the variable-step transient time loop: for
// each accepted point it proposes a step, snaps it to the next
// breakpoint, runs Newton, estimates the local truncation error, and
// either accepts and advances or rejects and halves.
type Stepper struct {
	Method      *Method
	Breakpoints *Breakpoints
	Newton      *newton.Driver
	StateVars   []StateVar
	Transient   []device.Transient // every device given an Accept call once a step lands, sources included
	Opts        StepperOptions
	Verbose     bool

	t           float64
	h           float64
	acceptedRun int // consecutive accepted steps since the order last changed
}

// NewStepper wires a Stepper for one transient run. states lists every
// capacitor/inductor with the state index the transient analysis assigned it;
// transient lists every device.Transient in the circuit (states plus
// time-varying sources), since all of them need an Accept call.
func NewStepper(method *Method, bp *Breakpoints, nd *newton.Driver, states []StateVar, transientDevices []device.Transient, opts StepperOptions) *Stepper {
	return &Stepper{
		Method:      method,
		Breakpoints: bp,
		Newton:      nd,
		StateVars:   states,
		Transient:   transientDevices,
		Opts:        opts,
		t:           opts.Start,
	}
}

// Run advances from Opts.Start to Opts.Stop, calling onAccept after every
// accepted point (analysis uses this to record the export trace).
func (st *Stepper) Run(s *state.State, onAccept func(t float64, s *state.State) error) error {
	st.h = st.initialStep()
	for st.t < st.Opts.Stop {
		accepted, err := st.step(s)
		if err != nil {
			return err
		}
		if !accepted {
			continue
		}
		if onAccept != nil {
			if err := onAccept(st.t, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (st *Stepper) initialStep() float64 {
	h := st.Opts.MaxStep / 10
	if h <= 0 {
		h = (st.Opts.Stop - st.Opts.Start) / 1000
	}
	return h
}

// step attempts one transient step from st.t: propose Δt, clamp to the
// next breakpoint, solve, and either accept (advancing st.t, committing
// device history, proposing the next Δt from the LTE estimate, and
// adjusting the integration order) or halve and retry.
func (st *Stepper) step(s *state.State) (accepted bool, err error) {
	h, onBreakpoint := st.Breakpoints.Clamp(st.t, st.h)
	if st.t+h > st.Opts.Stop {
		h = st.Opts.Stop - st.t
		onBreakpoint = false
	}
	if err := st.checkDeltaMin(h); err != nil {
		return false, err
	}

	for halving := 0; ; halving++ {
		if halving > st.Opts.MaxHalvings {
			return false, chk.Err("NoConvergence: transient step at t=%.6e failed after %d halvings", st.t, st.Opts.MaxHalvings)
		}
		if err := st.Method.SetStep(h); err != nil {
			return false, err
		}
		s.Time = st.t + h
		s.Phase = state.PhaseTransient
		s.Method = st.Method
		s.FirstIteration = true

		if err := st.Newton.Run(s); err == nil {
			break
		}
		h /= 2
		if err := st.checkDeltaMin(h); err != nil {
			return false, err
		}
		if st.Verbose {
			io.Pf("> step at t=%.6e failed to converge, halving to h=%.3e\n", st.t, h)
		}
	}

	lte := st.estimateLTE(h)
	if lte > 1 {
		h /= 2
		if err := st.checkDeltaMin(h); err != nil {
			return false, err
		}
		if st.Verbose {
			io.Pf("> step at t=%.6e rejected (LTE ratio %.3f), halving to h=%.3e\n", st.t, lte, h)
		}
		st.h = h
		st.acceptedRun = 0
		st.Method.SetOrder(1)
		return false, nil
	}

	for _, dv := range st.Transient {
		if err := dv.Accept(s); err != nil {
			return false, err
		}
	}
	st.Breakpoints.DiscardBefore(st.t)
	st.t += h
	st.h = st.proposeNext(h, lte)
	st.adjustOrder(onBreakpoint)
	return true, nil
}

// checkDeltaMin fails the run with TimestepTooSmall once a proposed or
// halved step drops below the breakpoint table's minimum spacing, the
// floor below which the driver refuses to limp along indefinitely.
func (st *Stepper) checkDeltaMin(h float64) error {
	if h < st.Breakpoints.DeltaMin {
		return chk.Err("TimestepTooSmall: transient step at t=%.6e fell to %.3e, below the minimum %.3e", st.t, h, st.Breakpoints.DeltaMin)
	}
	return nil
}

// adjustOrder applies the order-control rules to an accepted step: reset
// to 1 on a breakpoint step (the waveform may be discontinuous there), or
// raise toward MaxOrder once enough consecutive steps have been accepted
// at the current order to trust a higher-order prediction.
func (st *Stepper) adjustOrder(onBreakpoint bool) {
	if onBreakpoint {
		st.acceptedRun = 0
		st.Method.SetOrder(1)
		return
	}
	st.acceptedRun++
	if st.Method.Order < st.Method.MaxOrder && st.acceptedRun > st.Method.Order {
		st.Method.SetOrder(st.Method.Order + 1)
		st.acceptedRun = 0
	}
}

// estimateLTE returns the worst-case ratio of the estimated local
// truncation error to TrTol across every state variable:
// τ_i = |ε*(q_current - q_predicted)| / trtol, normalized against
// ChgTol so a state variable sitting at (near) zero charge never forces
// an artificially tiny step.
func (st *Stepper) estimateLTE(h float64) float64 {
	worst := 0.0
	for _, sv := range st.StateVars {
		q, _ := st.Method.History(sv.Index)
		predicted := st.Method.Predict(sv.Index)
		errEstimate := math.Abs(q - predicted)
		denom := st.Opts.TrTol * utl.Max(math.Abs(q), st.Opts.ChgTol)
		ratio := errEstimate / denom
		if ratio > worst {
			worst = ratio
		}
	}
	return worst
}

// proposeNext scales the accepted step up when the LTE ratio left ample
// margin, capped at MaxStep, and never more than 2x per step (the usual
// conservative doubling rule).
func (st *Stepper) proposeNext(h, lte float64) float64 {
	factor := 2.0
	if lte > 1e-12 {
		factor = utl.Min(2.0, 0.9/math.Sqrt(lte))
	}
	next := h * factor
	if st.Opts.MaxStep > 0 && next > st.Opts.MaxStep {
		next = st.Opts.MaxStep
	}
	return next
}
