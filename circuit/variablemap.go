// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import "github.com/cpmech/gosl/chk"

// GroundNode is the reserved node name that always maps to equation 0 and
// is never added to the matrix.
const GroundNode = "0"

// VariableMap assigns each unique node name an integer equation index
// (1..N), reserving node 0 for ground, and hands out extra equation
// indices for devices that need an internal branch-current unknown
// (voltage sources, inductors in some formulations).
type VariableMap struct {
	nodeIndex map[string]int
	nodeNames []string // nodeNames[i] is the name at index i (1-based)
	isBranch  []bool   // isBranch[i] true when index i is a branch current, not a node voltage
	next      int
}

// NewVariableMap returns an empty map with ground pre-registered at 0.
func NewVariableMap() *VariableMap {
	return &VariableMap{
		nodeIndex: map[string]int{GroundNode: 0},
		nodeNames: []string{""}, // index 0 unused (ground has no entry)
		isBranch:  []bool{false},
	}
}

// NodeIndex returns the equation index for name, assigning the next free
// index the first time a given name is seen.
func (v *VariableMap) NodeIndex(name string) int {
	if i, ok := v.nodeIndex[name]; ok {
		return i
	}
	v.next++
	v.nodeIndex[name] = v.next
	v.nodeNames = append(v.nodeNames, name)
	v.isBranch = append(v.isBranch, false)
	return v.next
}

// NewBranch reserves a fresh internal equation (e.g. a voltage source's
// branch current), registering label in the same name->index map NodeIndex
// uses so property exports can Lookup a branch current the same way they
// Lookup a node voltage.
func (v *VariableMap) NewBranch(label string) int {
	v.next++
	v.nodeIndex[label] = v.next
	v.nodeNames = append(v.nodeNames, label)
	v.isBranch = append(v.isBranch, true)
	return v.next
}

// Size is the total number of equations allocated (N, the matrix order).
func (v *VariableMap) Size() int { return v.next }

// IsBranch reports whether equation index i is a branch current rather
// than a node voltage, used by the Newton driver's per-component
// convergence test (which applies vntol to voltages and abstol to branch
// currents, each alongside reltol).
func (v *VariableMap) IsBranch(i int) bool {
	if i <= 0 || i >= len(v.isBranch) {
		return false
	}
	return v.isBranch[i]
}

// Name returns the node/branch label registered at index i.
func (v *VariableMap) Name(i int) string {
	if i == 0 {
		return GroundNode
	}
	if i < 0 || i >= len(v.nodeNames) {
		chk.Panic("VariableMap: index %d out of range", i)
	}
	return v.nodeNames[i]
}

// Lookup returns the index for name without creating it, failing with
// BadConnection if the node was never registered -- used when a
// downstream stage (AC, export) needs to resolve a node the netlist
// referenced only as an output target.
func (v *VariableMap) Lookup(name string) (int, error) {
	i, ok := v.nodeIndex[name]
	if !ok {
		return 0, chk.Err("BadConnection: node %q is not part of this circuit", name)
	}
	return i, nil
}
