// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

// Polynomials are slices of coefficients, highest degree first.

// PolyMul returns the product of polynomials a and b.
// The product has len(a)+len(b)-1 coefficients.
func (f *Field) PolyMul(a, b []byte) []byte {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	p := make([]byte, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			p[i+j] ^= f.Mul(x, y)
		}
	}
	return p
}

// PolyRem returns the remainder of dividing dividend by divisor.
// The division runs len(dividend)-len(divisor)+1 steps, each dropping
// the leading coefficient, so the remainder has len(divisor)-1
// coefficients.
func (f *Field) PolyRem(dividend, divisor []byte) []byte {
	if len(divisor) == 0 {
		panic("gf256: empty divisor")
	}
	steps := len(dividend) - len(divisor) + 1
	if steps < 0 {
		steps = 0
	}
	rem := append([]byte(nil), dividend...)
	for ; steps > 0; steps-- {
		if lead := rem[0]; lead != 0 {
			factor := f.Div(lead, divisor[0])
			for i, d := range divisor {
				rem[i] ^= f.Mul(d, factor)
			}
		}
		rem = rem[1:]
	}
	return rem
}

// Generator returns the Reed-Solomon generator polynomial of the given
// degree: the product of (x + α^i) for i from 0 to degree-1.
func (f *Field) Generator(degree int) []byte {
	g := []byte{1}
	for i := 0; i < degree; i++ {
		g = f.PolyMul(g, []byte{1, f.Exp(i)})
	}
	return g
}

// ECC returns the error correction bytes for a block of data
// occupying total bytes including the error correction bytes.
func (f *Field) ECC(data []byte, total int) []byte {
	if total < len(data) {
		panic("gf256: block shorter than data")
	}
	msg := make([]byte, total)
	copy(msg, data)
	return f.PolyRem(msg, f.Generator(total-len(data)))
}

// An RSEncoder computes Reed-Solomon error correction bytes with a
// fixed number of check bytes.
type RSEncoder struct {
	f   *Field
	c   int
	gen []byte
}

// NewRSEncoder returns a new Reed-Solomon encoder over the given
// field producing c check bytes per block.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	return &RSEncoder{f: f, c: c, gen: f.Generator(c)}
}

// Check returns the number of check bytes per block.
func (rs *RSEncoder) Check() int { return rs.c }

// ECC writes to check the error correction bytes for data.
// check must be Check() bytes long.
func (rs *RSEncoder) ECC(data, check []byte) {
	if len(check) != rs.c {
		panic("gf256: invalid check byte length")
	}
	msg := make([]byte, len(data)+rs.c)
	copy(msg, data)
	copy(check, rs.f.PolyRem(msg, rs.gen))
}
