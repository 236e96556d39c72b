// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import "sort"

// Breakpoints is a sorted, deduplicated table of future time instants the
// step proposer must never step over (discontinuities in a source
// waveform, most commonly). DeltaMin bounds how close two breakpoints may
// be merged, preventing pathological near-zero steps when two devices
// propose breakpoints a femtosecond apart.
type Breakpoints struct {
	DeltaMin float64
	times    []float64
}

// NewBreakpoints returns an empty table with the given minimum spacing.
func NewBreakpoints(deltaMin float64) *Breakpoints {
	return &Breakpoints{DeltaMin: deltaMin}
}

// Set inserts t into the table, in sorted order, merging it into an
// existing breakpoint if one lies within DeltaMin.
func (b *Breakpoints) Set(t float64) {
	i := sort.SearchFloat64s(b.times, t)
	if i < len(b.times) && b.times[i]-t < b.DeltaMin {
		return
	}
	if i > 0 && t-b.times[i-1] < b.DeltaMin {
		return
	}
	b.times = append(b.times, 0)
	copy(b.times[i+1:], b.times[i:])
	b.times[i] = t
}

// Next returns the first breakpoint strictly after t, and whether one
// exists.
func (b *Breakpoints) Next(t float64) (float64, bool) {
	i := sort.Search(len(b.times), func(i int) bool { return b.times[i] > t })
	if i == len(b.times) {
		return 0, false
	}
	return b.times[i], true
}

// Clamp reduces a proposed step [t, t+h] so it never crosses the next
// breakpoint, snapping exactly onto it when the unconstrained step would
// overshoot. The second return value reports whether the returned step
// lands exactly on a breakpoint, so the caller can reset its integration
// order for that step.
func (b *Breakpoints) Clamp(t, h float64) (clamped float64, onBreakpoint bool) {
	bp, ok := b.Next(t)
	if !ok {
		return h, false
	}
	if t+h >= bp {
		return bp - t, true
	}
	return h, false
}

// DiscardBefore drops every recorded breakpoint at or before t, keeping
// the table from growing without bound over a long transient run.
func (b *Breakpoints) DiscardBefore(t float64) {
	i := sort.Search(len(b.times), func(i int) bool { return b.times[i] > t })
	b.times = b.times[i:]
}
