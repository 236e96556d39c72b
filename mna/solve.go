// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mna

import "github.com/cpmech/gosl/chk"

// Solve computes solution such that Matrix * solution = rhs, using the LU
// factors produced by the last successful Factor/OrderAndFactor call. It
// fails with NotFactored if the matrix has not been factored.
func (m *Matrix[T]) Solve(rhs, solution []T) error {
	if !m.IsFactored {
		return chk.Err("NotFactored: cannot Solve before a successful Factor/OrderAndFactor")
	}

	// forward substitution: solve L*y = P*rhs (unit-diagonal L, so no
	// division); intermediate[k] ends up holding y in pivot-step order.
	for k := 1; k <= m.Order; k++ {
		row := m.rowPivot[k]
		sum := rhs[row]
		m.eachInRow(row, func(e *Element[T]) {
			if j := m.colStep[e.Col]; j < k {
				sum = sum.Sub(e.Value.Mul(m.intermediate[j]))
			}
		})
		m.intermediate[k] = sum
	}

	// back substitution: solve U*x = y; the pivot element itself holds
	// the reciprocal of the original diagonal value, so we multiply
	// rather than divide.
	for k := m.Order; k >= 1; k-- {
		row := m.rowPivot[k]
		col := m.colPivot[k]
		sum := m.intermediate[k]
		var diag T
		m.eachInRow(row, func(e *Element[T]) {
			if e.Col == col {
				diag = e.Value
				return
			}
			if j := m.colStep[e.Col]; j > k {
				sum = sum.Sub(e.Value.Mul(m.intermediate[j]))
			}
		})
		m.intermediate[k] = sum.Mul(diag)
	}

	m.Unscramble(m.intermediate, solution)
	return nil
}

// SolveTransposed computes solution such that Matrix^T * solution = rhs.
// It mirrors Solve but walks column lists instead of row lists and swaps
// which triangular factor is resolved first: U^T (lower, by column) is
// solved forward, then L^T (upper, unit diagonal) is solved backward.
func (m *Matrix[T]) SolveTransposed(rhs, solution []T) error {
	if !m.IsFactored {
		return chk.Err("NotFactored: cannot SolveTransposed before a successful Factor/OrderAndFactor")
	}

	for k := 1; k <= m.Order; k++ {
		col := m.colPivot[k]
		row := m.rowPivot[k]
		sum := rhs[col]
		var diag T
		m.eachInCol(col, func(e *Element[T]) {
			if e.Row == row {
				diag = e.Value
				return
			}
			if j := m.rowStep[e.Row]; j < k {
				sum = sum.Sub(e.Value.Mul(m.intermediate[j]))
			}
		})
		m.intermediate[k] = sum.Mul(diag)
	}

	for k := m.Order; k >= 1; k-- {
		col := m.colPivot[k]
		sum := m.intermediate[k]
		m.eachInCol(col, func(e *Element[T]) {
			if j := m.rowStep[e.Row]; j > k {
				sum = sum.Sub(e.Value.Mul(m.intermediate[j]))
			}
		})
		m.intermediate[k] = sum
	}

	m.unscrambleRows(m.intermediate, solution)
	return nil
}

// unscrambleRows is the row-indexed counterpart of Unscramble, used by
// SolveTransposed where the solution is indexed by the original row
// permutation rather than the column permutation.
func (m *Matrix[T]) unscrambleRows(intermediate, solution []T) {
	for k := 1; k <= m.Order; k++ {
		solution[m.rowPivot[k]] = intermediate[k]
	}
}
