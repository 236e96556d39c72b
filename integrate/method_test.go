// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackwardEulerCoefficients(t *testing.T) {
	m := NewMethod(Gear, 1)
	m.SetOrder(1)
	require.NoError(t, m.SetStep(0.1))
	assert.InDelta(t, 10.0, m.ag[0], 1e-9)
	assert.InDelta(t, -10.0, m.ag[1], 1e-9)
}

func TestTrapezoidalCoefficients(t *testing.T) {
	m := NewMethod(Trapezoidal, 1)
	m.SetOrder(2)
	require.NoError(t, m.SetStep(0.1))
	assert.InDelta(t, 20.0, m.ag[0], 1e-9)
	assert.InDelta(t, -20.0, m.ag[1], 1e-9)
}

func TestIntegrateAndAcceptRoundTrip(t *testing.T) {
	m := NewMethod(Gear, 1)
	m.SetOrder(1)
	require.NoError(t, m.SetStep(1.0))
	// q(0)=0 accepted; propose q(1)=5 -> dq/dt should be 5
	d := m.Integrate(0, 5)
	assert.InDelta(t, 5.0, d, 1e-9)
	m.Accept(0, 5)
	q, deriv := m.History(0)
	assert.Equal(t, 5.0, q)
	assert.InDelta(t, 5.0, deriv, 1e-9)
}

func TestGearOrderTwoMatchesBDF2OnConstantStep(t *testing.T) {
	m := NewMethod(Gear, 1)
	m.SetOrder(2)
	require.NoError(t, m.SetStep(0.1))
	require.NoError(t, m.SetStep(0.1))
	// standard constant-step BDF2: ag0=3/(2h), ag1=-4/(2h), ag2=1/(2h)
	h := 0.1
	assert.InDelta(t, 3/(2*h), m.ag[0], 1e-6)
	assert.InDelta(t, -4/(2*h), m.ag[1], 1e-6)
	assert.InDelta(t, 1/(2*h), m.ag[2], 1e-6)
}

func TestSetOrderRejectsOutOfRangeForFormula(t *testing.T) {
	m := NewMethod(Trapezoidal, 1)
	assert.Panics(t, func() { m.SetOrder(3) })
}

func TestBreakpointsClampNeverOvershoots(t *testing.T) {
	bp := NewBreakpoints(1e-12)
	bp.Set(5.0)
	bp.Set(2.0)
	h, onBreakpoint := bp.Clamp(0, 10)
	assert.Equal(t, 2.0, h)
	assert.True(t, onBreakpoint)
	h, onBreakpoint = bp.Clamp(2.0, 10)
	assert.Equal(t, 3.0, h) // snaps to the next breakpoint at 5.0
	assert.True(t, onBreakpoint)
}

func TestBreakpointsMergesNearDuplicates(t *testing.T) {
	bp := NewBreakpoints(1e-6)
	bp.Set(1.0)
	bp.Set(1.0000001)
	next, ok := bp.Next(0)
	require.True(t, ok)
	assert.Equal(t, 1.0, next)
	_, ok = bp.Next(1.0)
	assert.False(t, ok)
}
