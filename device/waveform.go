// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

// Waveform is the time-domain law an independent source follows during
// transient analysis. Breakpoints returns any instants within (t0, t1]
// where the waveform has a discontinuity or corner the integrator's
// variable-step control should not step over.
type Waveform interface {
	Value(t float64) float64
	Breakpoints(t0, t1 float64) []float64
}

// PulseWaveform is SPICE's classic PULSE(v1 v2 td tr tf pw per) source: a
// trapezoidal pulse train starting at delay td, rising over tr, holding
// pw, falling over tf, repeating every per (per<=0 means never repeat).
type PulseWaveform struct {
	V1, V2         float64
	Delay          float64
	RiseTime       float64
	FallTime       float64
	PulseWidth     float64
	Period         float64
}

func (p PulseWaveform) Value(t float64) float64 {
	if t < p.Delay {
		return p.V1
	}
	tt := t - p.Delay
	if p.Period > 0 {
		tt = mod(tt, p.Period)
	}
	switch {
	case tt < p.RiseTime:
		if p.RiseTime == 0 {
			return p.V2
		}
		return p.V1 + (p.V2-p.V1)*tt/p.RiseTime
	case tt < p.RiseTime+p.PulseWidth:
		return p.V2
	case tt < p.RiseTime+p.PulseWidth+p.FallTime:
		if p.FallTime == 0 {
			return p.V1
		}
		ft := tt - p.RiseTime - p.PulseWidth
		return p.V2 + (p.V1-p.V2)*ft/p.FallTime
	default:
		return p.V1
	}
}

func mod(a, m float64) float64 {
	r := a - float64(int(a/m))*m
	if r < 0 {
		r += m
	}
	return r
}

// Breakpoints returns every corner of the pulse (edges of rise/hold/fall)
// that falls in (t0, t1], including repeats across multiple periods.
func (p PulseWaveform) Breakpoints(t0, t1 float64) []float64 {
	var out []float64
	add := func(x float64) {
		if x > t0 && x <= t1 {
			out = append(out, x)
		}
	}
	corners := []float64{0, p.RiseTime, p.RiseTime + p.PulseWidth, p.RiseTime + p.PulseWidth + p.FallTime}
	if p.Period <= 0 {
		for _, c := range corners {
			add(p.Delay + c)
		}
		return out
	}
	first := int((t0 - p.Delay) / p.Period)
	if first < 0 {
		first = 0
	}
	for k := first; ; k++ {
		base := p.Delay + float64(k)*p.Period
		if base > t1 {
			break
		}
		for _, c := range corners {
			add(base + c)
		}
	}
	return out
}

// PWLPoint is one (time, value) knot of a piecewise-linear source.
type PWLPoint struct {
	Time, Value float64
}

// PWLWaveform is SPICE's PWL(t1 v1 t2 v2 ...) source: linear interpolation
// between knots, held flat before the first and after the last.
type PWLWaveform struct {
	Points []PWLPoint
}

func (w PWLWaveform) Value(t float64) float64 {
	n := len(w.Points)
	if n == 0 {
		return 0
	}
	if t <= w.Points[0].Time {
		return w.Points[0].Value
	}
	if t >= w.Points[n-1].Time {
		return w.Points[n-1].Value
	}
	for i := 1; i < n; i++ {
		if t <= w.Points[i].Time {
			a, b := w.Points[i-1], w.Points[i]
			if b.Time == a.Time {
				return b.Value
			}
			frac := (t - a.Time) / (b.Time - a.Time)
			return a.Value + frac*(b.Value-a.Value)
		}
	}
	return w.Points[n-1].Value
}

func (w PWLWaveform) Breakpoints(t0, t1 float64) []float64 {
	var out []float64
	for _, p := range w.Points {
		if p.Time > t0 && p.Time <= t1 {
			out = append(out, p.Time)
		}
	}
	return out
}

// ConstWaveform is a time-invariant value with no breakpoints. A source
// with only a DC value needs none: with no Waveform attached it uses its
// DC value during transient analysis.
type ConstWaveform float64

func (c ConstWaveform) Value(t float64) float64                { return float64(c) }
func (c ConstWaveform) Breakpoints(t0, t1 float64) []float64   { return nil }
