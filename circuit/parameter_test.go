// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResistor struct {
	R   float64
	Tc1 float64
}

var fakeResistorTable = Table[*fakeResistor]{
	{Name: "R", Kind: "resistance",
		Get: func(d *fakeResistor) float64 { return d.R },
		Set: func(d *fakeResistor, v float64) { d.R = v }},
	{Name: "TC1", Kind: "coefficient",
		Get: func(d *fakeResistor) float64 { return d.Tc1 },
		Set: func(d *fakeResistor, v float64) { d.Tc1 = v }},
}

func TestTableBindAll(t *testing.T) {
	r := &fakeResistor{}
	ps := ParameterSet{{Name: "R", Value: 1000}, {Name: "TC1", Value: 0.01}}
	require.NoError(t, fakeResistorTable.BindAll("R1", r, ps))
	assert.Equal(t, 1000.0, r.R)
	assert.Equal(t, 0.01, r.Tc1)
}

func TestTableBindAllRejectsUnknownName(t *testing.T) {
	r := &fakeResistor{}
	ps := ParameterSet{{Name: "bogus", Value: 1}}
	err := fakeResistorTable.BindAll("R1", r, ps)
	assert.Error(t, err)
}

func TestTableNamesCoversEveryExposedName(t *testing.T) {
	assert.ElementsMatch(t, []string{"R", "TC1"}, fakeResistorTable.Names())
}

func TestParameterSetGetOr(t *testing.T) {
	ps := ParameterSet{{Name: "R", Value: 1000}}
	assert.Equal(t, 1000.0, ps.GetOr("R", 50))
	assert.Equal(t, 50.0, ps.GetOr("missing", 50))
}
