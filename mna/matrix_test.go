// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetElementCreatesAndCaches(t *testing.T) {
	m := NewMatrix[Real](3)
	e1, err := m.GetElement(1, 2)
	require.NoError(t, err)
	require.NotNil(t, e1)

	e2, err := m.GetElement(1, 2)
	require.NoError(t, err)
	assert.Same(t, e1, e2, "GetElement must return the same cached pointer")
}

func TestRowAndColumnOrderingInvariant(t *testing.T) {
	m := NewMatrix[Real](3)
	_, _ = m.GetElement(2, 3)
	_, _ = m.GetElement(2, 1)
	_, _ = m.GetElement(2, 2)

	cols := []int{}
	m.eachInRow(2, func(e *Element[Real]) { cols = append(cols, e.Col) })
	assert.Equal(t, []int{1, 2, 3}, cols)

	_, _ = m.GetElement(1, 1)
	_, _ = m.GetElement(3, 1)
	rows := []int{}
	m.eachInCol(1, func(e *Element[Real]) { rows = append(rows, e.Row) })
	assert.Equal(t, []int{1, 2, 3}, rows)
}

func TestFixEquationsCreatesMissingDiagonal(t *testing.T) {
	m := NewMatrix[Real](2)
	_, _ = m.GetElement(1, 2)
	require.Nil(t, m.GetDiagonalElement(1))

	require.NoError(t, m.FixEquations())
	assert.NotNil(t, m.GetDiagonalElement(1))
	assert.NotNil(t, m.GetDiagonalElement(2))
}

func TestGetElementFailsAfterFix(t *testing.T) {
	m := NewMatrix[Real](2)
	require.NoError(t, m.FixEquations())
	_, err := m.GetElement(1, 2)
	assert.Error(t, err)
}

func TestZeroPreservesStructure(t *testing.T) {
	m := NewMatrix[Real](2)
	e, _ := m.GetElement(1, 1)
	e.Value = 42
	m.Zero()
	assert.Equal(t, Real(0), e.Value)
	assert.NotNil(t, m.find(1, 1), "Zero must not deallocate elements")
}
