// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois Field GF(256)
// and Reed-Solomon error correction for QR codes.
package gf256 // import "github.com/unixdj/qrgrid/gf256"

import (
	"strconv"
	"sync"
)

// QR code field parameters: x⁸ + x⁴ + x³ + x² + 1, generator 2.
const (
	QRPoly = 0x11d
	QRGen  = 2
)

// A Field represents an instance of GF(256) defined by a specific
// polynomial.  A Field is immutable once created.
type Field struct {
	log [256]byte // log[0] is unused
	exp [256]byte // exp[255] wraps to 1
}

// NewField returns a new field corresponding to the polynomial poly
// and generator α.  The tables are generated by repeated
// multiplication by α, reducing by poly when the value overflows a
// byte.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 || reducible(poly) {
		panic("gf256: invalid polynomial: " + strconv.Itoa(poly))
	}
	var f Field
	x := 1
	for i := 1; i < 256; i++ {
		x = mulNoLUT(x, α, poly)
		if x == 1 && i != 255 {
			panic("gf256: invalid generator " + strconv.Itoa(α) +
				" for polynomial " + strconv.Itoa(poly))
		}
		f.log[x] = byte(i % 255)
		f.exp[i%255] = byte(x)
	}
	f.exp[255] = 1
	return &f
}

var (
	qrOnce  sync.Once
	qrField *Field
)

// QR returns the field used by QR codes.  The field is built on first
// use and shared afterwards.
func QR() *Field {
	qrOnce.Do(func() { qrField = NewField(QRPoly, QRGen) })
	return qrField
}

// nbit returns the number of significant bits in p.
func nbit(p int) uint {
	n := uint(0)
	for ; p > 0; p >>= 1 {
		n++
	}
	return n
}

// polyDiv divides the polynomial p by q and returns the remainder.
func polyDiv(p, q int) int {
	np := nbit(p)
	nq := nbit(q)
	for ; np >= nq; np-- {
		if p&(1<<(np-1)) != 0 {
			p ^= q << (np - nq)
		}
	}
	return p
}

// mulNoLUT multiplies x and y in the field modulo poly without
// lookup tables.
func mulNoLUT(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// reducible reports whether p is reducible by a polynomial of degree
// 1 to 4.
func reducible(p int) bool {
	np := nbit(p)
	for q := 2; q < 1<<(np/2+1); q++ {
		if polyDiv(p, q) == 0 {
			return true
		}
	}
	return false
}

// Exp returns the base-α exponential of e in the field.
// If e < 0, Exp returns 0.
func (f *Field) Exp(e int) byte {
	if e < 0 {
		return 0
	}
	return f.exp[e%255]
}

// Log returns the base-α logarithm of x in the field.
// If x == 0, Log returns -1.
func (f *Field) Log(x byte) int {
	if x == 0 {
		return -1
	}
	return int(f.log[x])
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[(int(f.log[x])+int(f.log[y]))%255]
}

// Div returns the factor used by the synthetic division in PolyRem
// for leading coefficient x and divisor leading coefficient y.
//
// Div adds the logarithms rather than subtracting them.  The divisors
// PolyRem sees are monic generator polynomials (log y == 0), for which
// both agree, and the encoded output depends on this exact form.
// Div is not a general field division; use Inv for that.
func (f *Field) Div(x, y byte) byte {
	return f.exp[(int(f.log[x])+int(f.log[y]))%255]
}

// Inv returns the multiplicative inverse of x in the field.
// If x == 0, Inv returns 0.
func (f *Field) Inv(x byte) byte {
	if x == 0 {
		return 0
	}
	return f.exp[255-int(f.log[x])]
}
