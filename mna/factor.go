// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mna

import "github.com/cpmech/gosl/chk"

// OrderAndFactor performs a full LU factorization with Markowitz pivot
// search: at each step it picks, among the candidates in the active
// submatrix passing the threshold test, the one minimizing
// (rowCount-1)*(colCount-1), ties broken in favor of the diagonal and
// then of the element encountered first in row-major order. It fails
// with a SingularMatrix error if no acceptable pivot exists at some step.
func (m *Matrix[T]) OrderAndFactor() error {
	for i := 1; i <= m.Order; i++ {
		m.rowDone[i] = false
		m.colDone[i] = false
	}
	m.IsFactored = false

	for step := 1; step <= m.Order; step++ {
		pivot, err := m.choosePivot(step)
		if err != nil {
			return err
		}
		m.recordStep(step, pivot.Row, pivot.Col)
		m.eliminate(pivot)
	}
	m.IsFactored = true
	return nil
}

// recordStep marks (row, col) as eliminated at the given pivot step, in
// both the forward (step -> row/col) and inverse (row/col -> step) maps.
func (m *Matrix[T]) recordStep(step, row, col int) {
	m.rowPivot[step] = row
	m.colPivot[step] = col
	m.rowDone[row] = true
	m.colDone[col] = true
	m.rowStep[row] = step
	m.colStep[col] = step
}

// choosePivot searches the active submatrix (rows/cols not yet used as a
// pivot) for the Markowitz-optimal, threshold-acceptable element. If
// NeedsReordering is false, it first tries the natural diagonal entry for
// this step and uses it directly when it passes the threshold test.
func (m *Matrix[T]) choosePivot(step int) (*Element[T], error) {
	if !m.NeedsReordering {
		if d := m.diag[step]; d != nil && !m.rowDone[d.Row] && !m.colDone[d.Col] && d.Value.Abs() != 0 && m.passesThreshold(d) {
			return d, nil
		}
	}

	colMax := make(map[int]float64, m.Order)
	rowCount := make(map[int]int, m.Order)
	colCount := make(map[int]int, m.Order)
	for row := 1; row <= m.Order; row++ {
		if m.rowDone[row] {
			continue
		}
		m.eachInRow(row, func(e *Element[T]) {
			if m.colDone[e.Col] {
				return
			}
			rowCount[row]++
			colCount[e.Col]++
			if a := e.Value.Abs(); a > colMax[e.Col] {
				colMax[e.Col] = a
			}
		})
	}

	var best *Element[T]
	bestProduct := -1
	bestIsDiag := false
	for row := 1; row <= m.Order; row++ {
		if m.rowDone[row] {
			continue
		}
		m.eachInRow(row, func(e *Element[T]) {
			if m.colDone[e.Col] {
				return
			}
			if a := e.Value.Abs(); a == 0 || a < m.Threshold*colMax[e.Col] {
				return
			}
			product := (rowCount[row] - 1) * (colCount[e.Col] - 1)
			isDiag := e.Row == e.Col
			switch {
			case best == nil:
			case product < bestProduct:
			case product == bestProduct && isDiag && !bestIsDiag:
			default:
				return
			}
			best, bestProduct, bestIsDiag = e, product, isDiag
		})
	}
	if best == nil {
		return nil, chk.Err("SingularMatrix: no acceptable pivot at step %d", step)
	}
	return best, nil
}

// passesThreshold implements the |p| >= threshold * max|column entries|
// stability test used both for the fast-path diagonal check and the full
// Markowitz search.
func (m *Matrix[T]) passesThreshold(e *Element[T]) bool {
	max := 0.0
	m.eachInCol(e.Col, func(c *Element[T]) {
		if m.rowDone[c.Row] {
			return
		}
		if a := c.Value.Abs(); a > max {
			max = a
		}
	})
	return e.Value.Abs() >= m.Threshold*max
}

// Factor performs in-place LU factorization reusing the pivot order
// recorded by the previous OrderAndFactor call. It returns ok=false,
// nil error on a numerically zero pivot (not a SingularMatrix failure):
// the caller is expected to re-order in that case.
func (m *Matrix[T]) Factor() (ok bool, err error) {
	if m.rowPivot == nil {
		return false, chk.Err("FactorFailed: no pivot order recorded; call OrderAndFactor first")
	}
	for i := 1; i <= m.Order; i++ {
		m.rowDone[i] = false
		m.colDone[i] = false
	}
	m.IsFactored = false
	for step := 1; step <= m.Order; step++ {
		row, col := m.rowPivot[step], m.colPivot[step]
		pivot := m.find(row, col)
		if pivot == nil || pivot.Value.IsZero() {
			return false, nil
		}
		m.rowDone[row] = true
		m.colDone[col] = true
		m.rowStep[row] = step
		m.colStep[col] = step
		m.eliminate(pivot)
	}
	m.IsFactored = true
	return true, nil
}

// eliminate performs one step of Gaussian elimination around pivot:
// replace the pivot value by its reciprocal, turn every not-yet-eliminated
// element in the pivot column into an L multiplier, then for every
// not-yet-eliminated element in the pivot row, subtract mult*value from
// the corresponding position in each multiplier's row, creating fill-in
// where that position is structurally zero. Candidates are gathered from
// both neighbor directions (not just Right/Below) because Markowitz
// pivoting does not eliminate rows/columns in ascending index order.
func (m *Matrix[T]) eliminate(pivot *Element[T]) {
	pivot.Value = pivot.Value.Recip()
	pivotInv := pivot.Value

	type multiplier struct {
		row   int
		value T
	}
	var mults []multiplier
	m.eachInCol(pivot.Col, func(e *Element[T]) {
		if e.Row == pivot.Row || m.rowDone[e.Row] {
			return
		}
		e.Value = e.Value.Mul(pivotInv)
		mults = append(mults, multiplier{e.Row, e.Value})
	})

	var cols []*Element[T]
	m.eachInRow(pivot.Row, func(e *Element[T]) {
		if e.Col == pivot.Col || m.colDone[e.Col] {
			return
		}
		cols = append(cols, e)
	})

	for _, u := range cols {
		col := u.Col
		uval := u.Value
		for _, mult := range mults {
			target := m.getOrCreateFillIn(mult.row, col)
			target.Value = target.Value.Sub(mult.value.Mul(uval))
		}
	}
}
