// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mna implements the doubly-linked sparse matrix and LU
// factorization machinery used to assemble and solve the modified-nodal-
// analysis equations of a circuit. The same structure serves real
// (operating-point, transient) and complex (AC) analyses by being generic
// over the scalar field.
package mna

import "math"

// Scalar is the field a Matrix is built over: it must support the four
// arithmetic operations, an absolute-magnitude measure usable for pivot
// thresholding, a reciprocal (used once per pivot during elimination) and
// an exact-zero test (used to detect a numerically unusable pivot).
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Recip() T
	Abs() float64
	IsZero() bool
}

// Real is the double-precision real instantiation of Scalar, used for DC
// operating-point, DC sweep and transient analyses.
type Real float64

func (a Real) Add(b Real) Real { return a + b }
func (a Real) Sub(b Real) Real { return a - b }
func (a Real) Mul(b Real) Real { return a * b }
func (a Real) Div(b Real) Real { return a / b }
func (a Real) Recip() Real     { return 1 / a }
func (a Real) Abs() float64    { return math.Abs(float64(a)) }
func (a Real) IsZero() bool    { return a == 0 }

// Complex is the complex instantiation of Scalar used for AC small-signal
// analysis. It is kept as a dedicated type, rather than the builtin
// complex128, so that the pivoting and elimination code never assumes a
// particular backing representation. Re/Im are float64, so it carries
// the same precision as complex128; no extended-precision type is
// provided.
type Complex struct {
	Re, Im float64
}

// Cplx is a convenience constructor.
func Cplx(re, im float64) Complex { return Complex{Re: re, Im: im} }

func (a Complex) Add(b Complex) Complex {
	return Complex{a.Re + b.Re, a.Im + b.Im}
}

func (a Complex) Sub(b Complex) Complex {
	return Complex{a.Re - b.Re, a.Im - b.Im}
}

func (a Complex) Mul(b Complex) Complex {
	return Complex{a.Re*b.Re - a.Im*b.Im, a.Re*b.Im + a.Im*b.Re}
}

func (a Complex) Div(b Complex) Complex {
	d := b.Re*b.Re + b.Im*b.Im
	return Complex{
		(a.Re*b.Re + a.Im*b.Im) / d,
		(a.Im*b.Re - a.Re*b.Im) / d,
	}
}

func (a Complex) Recip() Complex {
	d := a.Re*a.Re + a.Im*a.Im
	return Complex{a.Re / d, -a.Im / d}
}

func (a Complex) Abs() float64 {
	return math.Hypot(a.Re, a.Im)
}

func (a Complex) IsZero() bool {
	return a.Re == 0 && a.Im == 0
}
