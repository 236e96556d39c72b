// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import "github.com/cpmech/gospice/mna"

// twoTerminalReal caches the (up to) four matrix positions a linear
// two-terminal device stamps between its p and n nodes, so that Load never
// walks the matrix's linked lists -- only Setup does. A nil pointer means
// the corresponding node is ground and that position does not exist in
// the matrix.
type twoTerminalReal struct {
	p, n           int
	pp, pn, np, nn *mna.Element[mna.Real]
}

func setupTwoTerminalReal(m *mna.Matrix[mna.Real], p, n int) (t twoTerminalReal, err error) {
	t.p, t.n = p, n
	if p != 0 {
		if t.pp, err = m.GetElement(p, p); err != nil {
			return
		}
	}
	if n != 0 {
		if t.nn, err = m.GetElement(n, n); err != nil {
			return
		}
	}
	if p != 0 && n != 0 {
		if t.pn, err = m.GetElement(p, n); err != nil {
			return
		}
		if t.np, err = m.GetElement(n, p); err != nil {
			return
		}
	}
	return
}

// stampConductance adds g to the diagonal positions and subtracts it from
// the off-diagonal ones -- the universal KCL stamp for anything that
// behaves, at this operating point, like a conductance between p and n.
func (t *twoTerminalReal) stampConductance(g float64) {
	if t.pp != nil {
		t.pp.Value += mna.Real(g)
	}
	if t.nn != nil {
		t.nn.Value += mna.Real(g)
	}
	if t.pn != nil {
		t.pn.Value -= mna.Real(g)
	}
	if t.np != nil {
		t.np.Value -= mna.Real(g)
	}
}

// stampCurrent adds a companion/independent current source of value i,
// defined with the same p-to-n orientation as stampConductance's g*(Vp-Vn)
// term: i leaves node p and enters node n, so it subtracts from p's KCL
// row and adds to n's.
func (t *twoTerminalReal) stampCurrent(rhs []mna.Real, i float64) {
	if t.p != 0 {
		rhs[t.p] -= mna.Real(i)
	}
	if t.n != 0 {
		rhs[t.n] += mna.Real(i)
	}
}

// twoTerminalComplex is the AC counterpart of twoTerminalReal.
type twoTerminalComplex struct {
	p, n           int
	pp, pn, np, nn *mna.Element[mna.Complex]
}

func setupTwoTerminalComplex(m *mna.Matrix[mna.Complex], p, n int) (t twoTerminalComplex, err error) {
	t.p, t.n = p, n
	if p != 0 {
		if t.pp, err = m.GetElement(p, p); err != nil {
			return
		}
	}
	if n != 0 {
		if t.nn, err = m.GetElement(n, n); err != nil {
			return
		}
	}
	if p != 0 && n != 0 {
		if t.pn, err = m.GetElement(p, n); err != nil {
			return
		}
		if t.np, err = m.GetElement(n, p); err != nil {
			return
		}
	}
	return
}

func (t *twoTerminalComplex) stampAdmittance(y mna.Complex) {
	if t.pp != nil {
		t.pp.Value = t.pp.Value.Add(y)
	}
	if t.nn != nil {
		t.nn.Value = t.nn.Value.Add(y)
	}
	if t.pn != nil {
		t.pn.Value = t.pn.Value.Sub(y)
	}
	if t.np != nil {
		t.np.Value = t.np.Value.Sub(y)
	}
}

// branchStamp caches the positions a device with an internal branch-current
// unknown (voltage sources, inductors in this catalog's formulation) stamps
// around its extra equation row/column.
type branchStamp struct {
	p, n, br     int
	brp, brn     *mna.Element[mna.Real]
	pbr, nbr     *mna.Element[mna.Real]
	branchDiag   *mna.Element[mna.Real]
}

func setupBranchReal(m *mna.Matrix[mna.Real], p, n, br int) (t branchStamp, err error) {
	t.p, t.n, t.br = p, n, br
	if p != 0 {
		if t.pbr, err = m.GetElement(p, br); err != nil {
			return
		}
		if t.brp, err = m.GetElement(br, p); err != nil {
			return
		}
	}
	if n != 0 {
		if t.nbr, err = m.GetElement(n, br); err != nil {
			return
		}
		if t.brn, err = m.GetElement(br, n); err != nil {
			return
		}
	}
	if t.branchDiag, err = m.GetElement(br, br); err != nil {
		return
	}
	return
}

// stampUnity gives the branch equation its usual V(p)-V(n)-branch·R form
// contribution of +1/-1 coupling between the node rows and the branch
// column (and vice versa for the branch row), as used by an ideal voltage
// source (R=0).
func (t *branchStamp) stampUnity() {
	if t.pbr != nil {
		t.pbr.Value += 1
	}
	if t.nbr != nil {
		t.nbr.Value -= 1
	}
	if t.brp != nil {
		t.brp.Value += 1
	}
	if t.brn != nil {
		t.brn.Value -= 1
	}
}

// stampBranchDiagonal adds v to the branch equation's own diagonal, used by
// an inductor's companion model (-L·ag0 on the branch row).
func (t *branchStamp) stampBranchDiagonal(v float64) {
	if t.branchDiag != nil {
		t.branchDiag.Value += mna.Real(v)
	}
}

// stampNodeCoupling couples the branch-current unknown into the node KCL
// rows without touching the branch row itself, for a device whose
// constitutive relation is expressed directly on the branch diagonal
// instead of against V(p)-V(n) (an inductor's current clamped to an
// initial condition, most notably).
func (t *branchStamp) stampNodeCoupling() {
	if t.pbr != nil {
		t.pbr.Value += 1
	}
	if t.nbr != nil {
		t.nbr.Value -= 1
	}
}

// stampBranchRHS adds v to the branch equation's own RHS entry.
func (t *branchStamp) stampBranchRHS(rhs []mna.Real, v float64) {
	if t.br != 0 {
		rhs[t.br] += mna.Real(v)
	}
}

// branchStampComplex is the AC counterpart of branchStamp, used by the
// inductor's jωL branch equation.
type branchStampComplex struct {
	p, n, br   int
	brp, brn   *mna.Element[mna.Complex]
	pbr, nbr   *mna.Element[mna.Complex]
	branchDiag *mna.Element[mna.Complex]
}

func setupBranchComplex(m *mna.Matrix[mna.Complex], p, n, br int) (t branchStampComplex, err error) {
	t.p, t.n, t.br = p, n, br
	if p != 0 {
		if t.pbr, err = m.GetElement(p, br); err != nil {
			return
		}
		if t.brp, err = m.GetElement(br, p); err != nil {
			return
		}
	}
	if n != 0 {
		if t.nbr, err = m.GetElement(n, br); err != nil {
			return
		}
		if t.brn, err = m.GetElement(br, n); err != nil {
			return
		}
	}
	if t.branchDiag, err = m.GetElement(br, br); err != nil {
		return
	}
	return
}

func (t *branchStampComplex) stampUnity() {
	one := mna.Cplx(1, 0)
	if t.pbr != nil {
		t.pbr.Value = t.pbr.Value.Add(one)
	}
	if t.nbr != nil {
		t.nbr.Value = t.nbr.Value.Sub(one)
	}
	if t.brp != nil {
		t.brp.Value = t.brp.Value.Add(one)
	}
	if t.brn != nil {
		t.brn.Value = t.brn.Value.Sub(one)
	}
}

func (t *branchStampComplex) stampBranchDiagonal(v mna.Complex) {
	if t.branchDiag != nil {
		t.branchDiag.Value = t.branchDiag.Value.Add(v)
	}
}
