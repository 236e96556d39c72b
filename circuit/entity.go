// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

// Entity is one netlist element: a name, its node connections in
// declaration order, and the parameter sets attached to it. A netlist
// parser (out of scope) is responsible for producing these; the engine
// only consumes them.
type Entity struct {
	Name   string
	Nodes  []string
	Params []ParameterSet

	// Kind names the device type (e.g. "resistor", "diode") so the
	// engine's device registry (see package device) can find the right
	// constructor.
	Kind string
}

// Graph is the full set of entities that make up a circuit, plus the
// variable map built while the engine binds them to equation indices.
type Graph struct {
	Entities []*Entity
	Vars     *VariableMap
}

// NewGraph returns an empty circuit graph with a fresh variable map.
func NewGraph() *Graph {
	return &Graph{Vars: NewVariableMap()}
}

// Add appends an entity to the graph.
func (g *Graph) Add(e *Entity) {
	g.Entities = append(g.Entities, e)
}

// Find returns the entity with the given name, or nil.
func (g *Graph) Find(name string) *Entity {
	for _, e := range g.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}
