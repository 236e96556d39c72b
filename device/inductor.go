// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"github.com/cpmech/gospice/circuit"
	"github.com/cpmech/gospice/mna"
	"github.com/cpmech/gospice/state"
)

// Inductor is a linear two-terminal device with an internal branch-current
// unknown, since V = L*di/dt cannot be stamped as a pure node-voltage
// relation. An ideal inductor is a short at the DC operating point:
// its bias stamp enforces V(p)-V(n) = 0 through the branch row, with
// the branch current solved for directly. Its transient stamp is
// the companion dual of Capacitor's: a resistance L*ag0 in series with the
// branch, with a companion voltage source equal to the history term.
type Inductor struct {
	name         string
	L            float64
	IC           float64
	pNode, nNode int
	branch       int
	stateIndex   int

	bias branchStamp
	freq branchStampComplex
}

var InductorParams = circuit.Table[*Inductor]{
	{Name: "L", Kind: "inductance",
		Get: func(d *Inductor) float64 { return d.L },
		Set: func(d *Inductor, v float64) { d.L = v }},
	{Name: "IC", Kind: "current",
		Get: func(d *Inductor) float64 { return d.IC },
		Set: func(d *Inductor, v float64) { d.IC = v }},
}

func NewInductor(name string, ps circuit.ParameterSet) (*Inductor, error) {
	l := &Inductor{name: name, L: 1e-3}
	if err := InductorParams.BindAll(name, l, ps); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Inductor) EntityName() string { return l.name }
func (l *Inductor) Unsetup()           {}
func (l *Inductor) Bind(p, n int)      { l.pNode, l.nNode = p, n }

// BindBranch records the extra equation index the variable map allocated
// for this inductor's branch current (see circuit.VariableMap.NewBranch).
func (l *Inductor) BindBranch(br int) { l.branch = br }

func (l *Inductor) SetupBias(m *mna.Matrix[mna.Real], vars *circuit.VariableMap) error {
	t, err := setupBranchReal(m, l.pNode, l.nNode, l.branch)
	if err != nil {
		return err
	}
	l.bias = t
	return nil
}

// LoadBias ordinarily stamps the V(p)-V(n)-branch*0 = 0 short-circuit
// branch equation every Newton iteration; zero conductance on the branch
// diagonal is exactly the "short" an ideal inductor is at DC. When the
// operating point is being solved with initial conditions clamped, the
// branch row is replaced with branch = IC directly -- the node rows still
// need the branch current coupled in, but the branch equation itself no
// longer depends on V(p)-V(n).
func (l *Inductor) LoadBias(s *state.State) error {
	if s.UseInitialConditions {
		l.bias.stampNodeCoupling()
		l.bias.stampBranchDiagonal(1)
		l.bias.stampBranchRHS(s.RHS, l.IC)
		return nil
	}
	l.bias.stampUnity()
	return nil
}

func (l *Inductor) SetupFrequency(m *mna.Matrix[mna.Complex], vars *circuit.VariableMap) error {
	t, err := setupBranchComplex(m, l.pNode, l.nNode, l.branch)
	if err != nil {
		return err
	}
	l.freq = t
	return nil
}

// LoadFrequency stamps V(p)-V(n)-jωL*branch = 0.
func (l *Inductor) LoadFrequency(s *state.State) error {
	l.freq.stampUnity()
	l.freq.stampBranchDiagonal(mna.Cplx(0, -s.Omega*l.L))
	return nil
}

func (l *Inductor) SetupTransient(vars *circuit.VariableMap, method state.Method, stateIndex int) error {
	l.stateIndex = stateIndex
	return nil
}

// LoadTransient replaces the short-circuit branch equation with the
// companion model: V(p)-V(n) - L*ag0*branch = Veq, where Veq is the
// method's history term for the flux φ=L*i.
func (l *Inductor) LoadTransient(s *state.State) error {
	l.bias.stampUnity()
	i := s.X[l.branch]
	phi := l.L * i
	dphidt := s.Method.Integrate(l.stateIndex, phi)
	req := s.Method.Jacobian(l.L)
	l.bias.stampBranchDiagonal(-req)
	veq := dphidt - req*i
	if l.branch != 0 {
		s.RHS[l.branch] += mna.Real(veq)
	}
	return nil
}

// Accept commits this step's converged flux into the integration
// method's history.
func (l *Inductor) Accept(s *state.State) error {
	i := s.X[l.branch]
	s.Method.Accept(l.stateIndex, l.L*i)
	return nil
}
