// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// ACPoint is one solved frequency point: the frequency in hertz and the
// complex node-voltage/branch-current vector (1-based, index 0 unused).
type ACPoint struct {
	Freq   float64
	Omega  float64
	Values []mna.Complex
}

// ACResult is the full sweep trace an AC call produces.
type ACResult struct {
	Engine *Engine
	Points []ACPoint
}

// acVoltageExciter is implemented by device.VoltageSource: its phasor
// drives the branch row of the complex RHS.
type acVoltageExciter interface {
	ACExcitation() mna.Complex
	Branch() int
}

// acCurrentExciter is implemented by device.CurrentSource: its phasor
// drives the p/n node rows directly, the same p-to-n orientation every
// real-valued current stamp in this module uses.
type acCurrentExciter interface {
	ACExcitation() mna.Complex
	Nodes() (p, n int)
}

// AC runs a small-signal frequency sweep. It requires that the circuit's
// nonlinear devices already carry a valid linearization point -- call
// SolveOperatingPoint first, since AC small-signal analysis always
// follows an implicit operating-point solve and has nothing to
// linearize a diode or other nonlinear device around otherwise.
func (e *Engine) AC(opts ACOptions) (*ACResult, error) {
	if err := e.Setup(); err != nil {
		return nil, err
	}
	if err := e.setupComplexMatrix(); err != nil {
		return nil, err
	}

	freqs, err := acFrequencies(opts)
	if err != nil {
		return nil, err
	}

	n := e.Graph.Vars.Size()
	rhs := make([]mna.Complex, n+1)
	solution := make([]mna.Complex, n+1)

	result := &ACResult{Engine: e}
	for _, f := range freqs {
		omega := 2 * math.Pi * f
		e.State.Omega = omega
		e.State.Phase = state.PhaseFrequency

		e.ComplexMatrix.Zero()
		for i := range rhs {
			rhs[i] = mna.Complex{}
		}
		for _, fr := range e.Frequency {
			if err := fr.LoadFrequency(e.State); err != nil {
				return nil, chk.Err("AC: device %q failed to load: %v", fr.EntityName(), err)
			}
			if vx, ok := fr.(acVoltageExciter); ok {
				if br := vx.Branch(); br != 0 {
					rhs[br] = rhs[br].Add(vx.ACExcitation())
				}
			}
			if cx, ok := fr.(acCurrentExciter); ok {
				p, nn := cx.Nodes()
				exc := cx.ACExcitation()
				if p != 0 {
					rhs[p] = rhs[p].Sub(exc)
				}
				if nn != 0 {
					rhs[nn] = rhs[nn].Add(exc)
				}
			}
		}

		if err := e.ComplexMatrix.OrderAndFactor(); err != nil {
			return nil, chk.Err("AC: factorization failed at f=%.6g Hz: %v", f, err)
		}
		if err := e.ComplexMatrix.Solve(rhs, solution); err != nil {
			return nil, chk.Err("AC: solve failed at f=%.6g Hz: %v", f, err)
		}

		values := make([]mna.Complex, n+1)
		copy(values, solution)
		result.Points = append(result.Points, ACPoint{Freq: f, Omega: omega, Values: values})
	}
	return result, nil
}

// setupComplexMatrix lazily builds e.ComplexMatrix, binding every
// Frequency device's matrix positions exactly once.
func (e *Engine) setupComplexMatrix() error {
	if e.ComplexMatrix != nil {
		return nil
	}
	m := mna.NewMatrix[mna.Complex](e.Graph.Vars.Size())
	for _, fr := range e.Frequency {
		if err := fr.SetupFrequency(m, e.Graph.Vars); err != nil {
			return chk.Err("device %q failed SetupFrequency: %v", fr.EntityName(), err)
		}
	}
	if err := m.FixEquations(); err != nil {
		return err
	}
	e.ComplexMatrix = m
	return nil
}

// acFrequencies expands opts into the concrete list of frequencies to
// solve, per its Sweep kind.
func acFrequencies(opts ACOptions) ([]float64, error) {
	if opts.Start <= 0 || opts.Stop < opts.Start {
		return nil, chk.Err("AC: invalid sweep range [%.6g, %.6g]", opts.Start, opts.Stop)
	}
	if opts.Points <= 0 {
		return nil, chk.Err("AC: sweep needs at least one point per decade/octave/total")
	}
	switch opts.Sweep {
	case Linear:
		if opts.Points == 1 {
			return []float64{opts.Start}, nil
		}
		out := make([]float64, opts.Points)
		step := (opts.Stop - opts.Start) / float64(opts.Points-1)
		for i := range out {
			out[i] = opts.Start + float64(i)*step
		}
		return out, nil
	case Decade, Octave:
		base := 10.0
		if opts.Sweep == Octave {
			base = 2.0
		}
		var out []float64
		logStart := math.Log(opts.Start) / math.Log(base)
		logStop := math.Log(opts.Stop) / math.Log(base)
		steps := int(math.Ceil((logStop - logStart) * float64(opts.Points)))
		for i := 0; i <= steps; i++ {
			f := math.Pow(base, logStart+float64(i)/float64(opts.Points))
			if f > opts.Stop {
				break
			}
			out = append(out, f)
		}
		if len(out) == 0 || out[len(out)-1] < opts.Stop {
			out = append(out, opts.Stop)
		}
		return out, nil
	default:
		return nil, chk.Err("AC: unknown sweep kind %d", opts.Sweep)
	}
}
