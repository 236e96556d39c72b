// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mna

import "github.com/cpmech/gosl/chk"

// Element is one non-zero entry of a Matrix, spliced into two doubly
// linked lists: Left/Right order it within its row (ascending column) and
// Above/Below order it within its column (ascending row).
type Element[T Scalar[T]] struct {
	Row, Col int
	Value    T

	Left, Right *Element[T]
	Above, Below *Element[T]
}

// Matrix is a square sparse matrix of order N built from doubly linked
// Elements, plus the bookkeeping FixEquations/OrderAndFactor/Factor/Solve
// need. Row/Col indices are 1-based: index 0 is reserved (ground, in the
// circuit sense) and never stored.
type Matrix[T Scalar[T]] struct {
	Order int

	IsFixed         bool
	IsFactored      bool
	NeedsReordering bool
	Threshold       float64 // Markowitz pivot acceptance threshold, default 0.001

	diag       []*Element[T] // diag[row] -- nil until the row's diagonal exists
	firstInRow []*Element[T]
	firstInCol []*Element[T]

	// permutation recorded during OrderAndFactor/Factor: rowPivot[k] and
	// colPivot[k] are the actual row/column eliminated at step k.
	rowPivot []int
	colPivot []int
	rowDone  []bool
	colDone  []bool

	// inverse of the permutation: rowStep[row]/colStep[col] give the pivot
	// step at which that row/column was eliminated, used by Solve to tell
	// an already-resolved L entry from a still-pending U entry.
	rowStep []int
	colStep []int

	intermediate []T // scratch vector, 1-based, len Order+1
	dest         []T // scatter buffer, 1-based, len Order+1
}

// NewMatrix returns an unfixed matrix of the given order with no elements.
func NewMatrix[T Scalar[T]](order int) *Matrix[T] {
	return &Matrix[T]{
		Order:      order,
		Threshold:  0.001,
		diag:       make([]*Element[T], order+1),
		firstInRow: make([]*Element[T], order+1),
		firstInCol: make([]*Element[T], order+1),
	}
}

// GetElement returns the element at (row, col), creating and splicing it
// into the row/column lists if it does not already exist. Creation is
// only allowed while the matrix is unfixed; once fixed, a missing element
// is a MatrixFrozen error (fill-in during elimination uses the internal
// getOrCreate helper instead, which bypasses this check).
func (m *Matrix[T]) GetElement(row, col int) (*Element[T], error) {
	if e := m.find(row, col); e != nil {
		return e, nil
	}
	if m.IsFixed {
		return nil, chk.Err("MatrixFrozen: cannot create element (%d,%d) after FixEquations", row, col)
	}
	return m.insert(row, col), nil
}

// GetDiagonalElement returns the diagonal element of row i, or nil if it
// does not exist. It never creates an element.
func (m *Matrix[T]) GetDiagonalElement(i int) *Element[T] {
	return m.diag[i]
}

// find walks the row's linked list looking for an existing element.
func (m *Matrix[T]) find(row, col int) *Element[T] {
	for e := m.firstInRow[row]; e != nil; e = e.Right {
		if e.Col == col {
			return e
		}
		if e.Col > col {
			break
		}
	}
	return nil
}

// insert creates a new element at (row, col) and splices it into both
// linked lists, preserving the ascending-column-within-row and
// ascending-row-within-column invariants.
func (m *Matrix[T]) insert(row, col int) *Element[T] {
	e := &Element[T]{Row: row, Col: col}

	// splice into row list
	var prev, cur *Element[T]
	for cur = m.firstInRow[row]; cur != nil && cur.Col < col; cur = cur.Right {
		prev = cur
	}
	e.Right = cur
	e.Left = prev
	if prev != nil {
		prev.Right = e
	} else {
		m.firstInRow[row] = e
	}
	if cur != nil {
		cur.Left = e
	}

	// splice into column list
	var above, below *Element[T]
	for below = m.firstInCol[col]; below != nil && below.Row < row; below = below.Below {
		above = below
	}
	e.Below = below
	e.Above = above
	if above != nil {
		above.Below = e
	} else {
		m.firstInCol[col] = e
	}
	if below != nil {
		below.Above = e
	}

	if row == col {
		m.diag[row] = e
	}
	return e
}

// getOrCreateFillIn is used internally by the elimination step: unlike
// GetElement it is legal to call after the matrix is fixed, since fill-in
// elements created while factoring inherit the same ordering invariant.
func (m *Matrix[T]) getOrCreateFillIn(row, col int) *Element[T] {
	if e := m.find(row, col); e != nil {
		return e
	}
	return m.insert(row, col)
}

// FixEquations freezes the matrix structure: every row in use is given a
// diagonal element (creating it if necessary) and the scratch vectors are
// allocated. No further elements may be created by GetElement after this
// call; only fill-in created during factoring is permitted.
func (m *Matrix[T]) FixEquations() error {
	if m.IsFixed {
		return nil
	}
	for i := 1; i <= m.Order; i++ {
		if m.diag[i] == nil {
			m.insert(i, i)
		}
	}
	m.IsFixed = true
	m.intermediate = make([]T, m.Order+1)
	m.dest = make([]T, m.Order+1)
	m.rowPivot = make([]int, m.Order+1)
	m.colPivot = make([]int, m.Order+1)
	m.rowDone = make([]bool, m.Order+1)
	m.colDone = make([]bool, m.Order+1)
	m.rowStep = make([]int, m.Order+1)
	m.colStep = make([]int, m.Order+1)
	return nil
}

// UnfixEquations releases the scratch vectors and allows element creation
// again via GetElement.
func (m *Matrix[T]) UnfixEquations() error {
	m.IsFixed = false
	m.IsFactored = false
	m.intermediate = nil
	m.dest = nil
	return nil
}

// Zero resets every stored element's value to the field's zero, without
// deallocating structure -- used at the start of every Newton iteration.
func (m *Matrix[T]) Zero() {
	var zero T
	for row := 1; row <= m.Order; row++ {
		for e := m.firstInRow[row]; e != nil; e = e.Right {
			e.Value = zero
		}
	}
}

// Row returns the permutation map recorded by the last factorization:
// Row[k] is the actual matrix row eliminated at pivot step k.
func (m *Matrix[T]) Row() []int { return m.rowPivot }

// Column returns the permutation map recorded by the last factorization:
// Column[k] is the actual matrix column eliminated at pivot step k.
func (m *Matrix[T]) Column() []int { return m.colPivot }

// Unscramble copies the pivot-ordered intermediate vector into the
// caller's dense solution vector, inverting the Row/Column permutation
// recorded during factoring: solution[Column[k]] = intermediate[k].
func (m *Matrix[T]) Unscramble(intermediate, solution []T) {
	for k := 1; k <= m.Order; k++ {
		solution[m.colPivot[k]] = intermediate[k]
	}
}

// eachInRow visits every element in row, left-to-right, excluding none.
func (m *Matrix[T]) eachInRow(row int, f func(*Element[T])) {
	// walk to the leftmost element, then sweep right, to visit in a
	// single ascending-column pass
	start := m.firstInRow[row]
	for start != nil && start.Left != nil {
		start = start.Left
	}
	for e := start; e != nil; e = e.Right {
		f(e)
	}
}

// eachInCol visits every element in col, top-to-bottom.
func (m *Matrix[T]) eachInCol(col int, f func(*Element[T])) {
	start := m.firstInCol[col]
	for start != nil && start.Above != nil {
		start = start.Above
	}
	for e := start; e != nil; e = e.Below {
		f(e)
	}
}

// ToDense renders the matrix as a dense slice-of-slices, 1-based (index 0
// unused), for tests and debugging.
func (m *Matrix[T]) ToDense() [][]T {
	out := make([][]T, m.Order+1)
	for i := range out {
		out[i] = make([]T, m.Order+1)
	}
	for row := 1; row <= m.Order; row++ {
		for e := m.firstInRow[row]; e != nil; e = e.Right {
			out[row][e.Col] = e.Value
		}
	}
	return out
}
