// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package circuit holds the entity graph a netlist parser hands to the
// engine: named entities with node lists and parameter sets, and the
// variable map that assigns each node name an equation index. Parsing the
// netlist text itself is out of scope -- this package only defines the
// shape the parser (an external collaborator) must produce.
package circuit

import "github.com/cpmech/gosl/chk"

// Parameter is one named value in a device's ParameterSet.
type Parameter struct {
	Name  string
	Value float64
}

// ParameterSet is the parsed {name: value} data attached to one entity
// instance, e.g. {R: 1000} for a resistor or {IS: 1e-14, N: 1} for a
// diode.
//
// Rather than binding these by runtime reflection over a device struct's
// fields, each device type publishes a static map at compile time
// ({name -> (getter, setter, kind)}), and ParameterSet is resolved
// against that map once, at Setup, never again during the hot Load path.
type ParameterSet []Parameter

// Get returns the named parameter's value and whether it was present.
func (p ParameterSet) Get(name string) (float64, bool) {
	for _, v := range p {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// GetOr returns the named parameter's value, or def if absent.
func (p ParameterSet) GetOr(name string, def float64) float64 {
	if v, ok := p.Get(name); ok {
		return v
	}
	return def
}

// Binding is one entry of a device's static parameter table: Set applies
// a parsed value onto the device, Get reads it back (the analysis exports
// do not use it; they read node voltages and branch currents). Kind is free-form metadata (e.g. "voltage",
// "resistance") for a future unit-aware front end; the engine itself does
// not interpret it.
type Binding[D any] struct {
	Name string
	Kind string
	Get  func(d D) float64
	Set  func(d D, v float64)
}

// Table is the static {name -> Binding} map a device type publishes
// instead of using reflection. BindAll applies every parameter present in
// a ParameterSet to d, and fails with InvalidParameter for any name the
// table does not recognize.
type Table[D any] []Binding[D]

// BindAll applies every (name, value) pair in ps to d using t, returning
// an InvalidParameter error naming the offending entity if a parameter
// name is not in the table.
func (t Table[D]) BindAll(entityName string, d D, ps ParameterSet) error {
	index := make(map[string]Binding[D], len(t))
	for _, b := range t {
		index[b.Name] = b
	}
	for _, p := range ps {
		b, ok := index[p.Name]
		if !ok {
			return chk.Err("InvalidParameter: entity %q has no parameter named %q", entityName, p.Name)
		}
		b.Set(d, p.Value)
	}
	return nil
}

// Names returns every parameter name the table exposes, in declaration
// order. Used by tests to verify the table covers every name a device
// claims to support.
func (t Table[D]) Names() []string {
	names := make([]string, len(t))
	for i, b := range t {
		names[i] = b.Name
	}
	return names
}
