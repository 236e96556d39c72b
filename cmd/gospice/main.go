// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gospice is a minimal programmatic driver for the analysis
// package. It builds a small circuit directly against circuit.Graph --
// netlist parsing and schematic capture are out of scope -- solves its
// operating point, and prints every node voltage and branch current. It exists to
// demonstrate the library surface, not as a full simulator CLI.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gospice/analysis"
	"github.com/cpmech/gospice/circuit"
)

func main() {
	verbose := flag.Bool("v", false, "print solver progress")
	flag.Parse()

	io.Pf("gospice -- a small-signal/transient circuit simulation engine\n")

	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	g := demoVoltageDivider()

	eng := analysis.NewEngine(g)
	eng.Verbose = *verbose

	op, err := eng.SolveOperatingPoint(analysis.DefaultDCOptions())
	if err != nil {
		chk.Panic("operating point failed: %v", err)
	}

	exp := op.Export()
	io.PfGreen("> operating point converged\n")
	for _, name := range []string{"in", "mid"} {
		v, err := exp.GetVoltage(name)
		if err != nil {
			chk.Panic("%v", err)
		}
		io.Pf("V(%s) = %.6f V\n", name, v)
	}
	i, err := exp.GetCurrent("V1#branch")
	if err != nil {
		chk.Panic("%v", err)
	}
	io.Pf("I(V1) = %.6e A\n", i)
}

// demoVoltageDivider builds a 10V source across two 1kΩ resistors,
// matching the classic voltage-divider worked example.
func demoVoltageDivider() *circuit.Graph {
	g := circuit.NewGraph()
	g.Add(&circuit.Entity{
		Name: "V1", Kind: "vsource", Nodes: []string{"in", "0"},
		Params: []circuit.ParameterSet{{{Name: "DC", Value: 10}}},
	})
	g.Add(&circuit.Entity{
		Name: "R1", Kind: "resistor", Nodes: []string{"in", "mid"},
		Params: []circuit.ParameterSet{{{Name: "R", Value: 1000}}},
	})
	g.Add(&circuit.Entity{
		Name: "R2", Kind: "resistor", Nodes: []string{"mid", "0"},
		Params: []circuit.ParameterSet{{{Name: "R", Value: 1000}}},
	})
	return g
}
