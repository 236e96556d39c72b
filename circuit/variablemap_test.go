// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableMapAssignsStableIndices(t *testing.T) {
	v := NewVariableMap()
	assert.Equal(t, 0, v.NodeIndex(GroundNode))
	in := v.NodeIndex("in")
	out := v.NodeIndex("out")
	assert.Equal(t, in, v.NodeIndex("in"), "re-registering a name must return the same index")
	assert.NotEqual(t, in, out)
	assert.Equal(t, 2, v.Size())
}

func TestVariableMapNewBranchGrowsSize(t *testing.T) {
	v := NewVariableMap()
	v.NodeIndex("in")
	v.NodeIndex("out")
	branch := v.NewBranch("V1#branch")
	assert.Equal(t, 3, branch)
	assert.Equal(t, 3, v.Size())
}

func TestVariableMapLookupFailsForUnknownNode(t *testing.T) {
	v := NewVariableMap()
	v.NodeIndex("in")
	_, err := v.Lookup("out")
	assert.Error(t, err)
}

func TestVariableMapLookupResolvesBranchLabel(t *testing.T) {
	v := NewVariableMap()
	v.NodeIndex("in")
	branch := v.NewBranch("V1#branch")
	i, err := v.Lookup("V1#branch")
	require.NoError(t, err)
	assert.Equal(t, branch, i)
}

func TestGraphFind(t *testing.T) {
	g := NewGraph()
	g.Add(&Entity{Name: "R1", Kind: "resistor"})
	require.NotNil(t, g.Find("R1"))
	assert.Nil(t, g.Find("R2"))
}
