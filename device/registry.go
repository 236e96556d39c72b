// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gospice/circuit"
)

// AllocatorType builds a device's Behavior from its entity record. The
// allocator resolves the entity's node names against the circuit's
// variable map itself and is responsible for calling Bind (and BindBranch,
// for devices with an internal branch current) with the resolved indices.
type AllocatorType func(e *circuit.Entity, vars *circuit.VariableMap) (Behavior, error)

// SetAllocator registers fcn as the constructor for every entity whose
// Kind equals kind. Panics if kind is already registered, mirroring the
// factory's "register once, at init time" contract.
func SetAllocator(kind string, fcn AllocatorType) {
	if _, ok := allocators[kind]; ok {
		chk.Panic("cannot set allocator for device kind %q because it is already registered", kind)
	}
	allocators[kind] = fcn
}

// New builds the Behavior for entity e using the allocator registered for
// its Kind; that allocator resolves e's node names against vars.
func New(e *circuit.Entity, vars *circuit.VariableMap) (Behavior, error) {
	fcn, ok := allocators[e.Kind]
	if !ok {
		return nil, chk.Err("cannot get allocator for device {name=%q, kind=%q}", e.Name, e.Kind)
	}
	b, err := fcn(e, vars)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, chk.Err("device {name=%q, kind=%q} allocator returned a nil behavior", e.Name, e.Kind)
	}
	return b, nil
}

// allocators holds every registered device constructor, keyed by Kind.
var allocators = make(map[string]AllocatorType)

func params(e *circuit.Entity) circuit.ParameterSet {
	if len(e.Params) == 0 {
		return nil
	}
	return e.Params[0]
}

func node(e *circuit.Entity, vars *circuit.VariableMap, i int) int {
	if i >= len(e.Nodes) {
		chk.Panic("device %q: expected at least %d node(s), entity declares %d", e.Name, i+1, len(e.Nodes))
	}
	return vars.NodeIndex(e.Nodes[i])
}

func init() {
	SetAllocator("resistor", func(e *circuit.Entity, vars *circuit.VariableMap) (Behavior, error) {
		r, err := NewResistor(e.Name, params(e))
		if err != nil {
			return nil, err
		}
		r.Bind(node(e, vars, 0), node(e, vars, 1))
		return r, nil
	})

	SetAllocator("capacitor", func(e *circuit.Entity, vars *circuit.VariableMap) (Behavior, error) {
		c, err := NewCapacitor(e.Name, params(e))
		if err != nil {
			return nil, err
		}
		c.Bind(node(e, vars, 0), node(e, vars, 1))
		return c, nil
	})

	SetAllocator("inductor", func(e *circuit.Entity, vars *circuit.VariableMap) (Behavior, error) {
		l, err := NewInductor(e.Name, params(e))
		if err != nil {
			return nil, err
		}
		l.Bind(node(e, vars, 0), node(e, vars, 1))
		l.BindBranch(vars.NewBranch(e.Name + "#branch"))
		return l, nil
	})

	SetAllocator("vsource", func(e *circuit.Entity, vars *circuit.VariableMap) (Behavior, error) {
		v, err := NewVoltageSource(e.Name, params(e))
		if err != nil {
			return nil, err
		}
		v.Bind(node(e, vars, 0), node(e, vars, 1))
		v.BindBranch(vars.NewBranch(e.Name + "#branch"))
		return v, nil
	})

	SetAllocator("isource", func(e *circuit.Entity, vars *circuit.VariableMap) (Behavior, error) {
		c, err := NewCurrentSource(e.Name, params(e))
		if err != nil {
			return nil, err
		}
		c.Bind(node(e, vars, 0), node(e, vars, 1))
		return c, nil
	})

	SetAllocator("diode", func(e *circuit.Entity, vars *circuit.VariableMap) (Behavior, error) {
		d, err := NewDiode(e.Name, params(e))
		if err != nil {
			return nil, err
		}
		d.Bind(node(e, vars, 0), node(e, vars, 1))
		return d, nil
	})
}
